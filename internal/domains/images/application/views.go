package application

import (
	"cmp"
	"context"
	"slices"

	"github.com/ravengallery/gallery-api/internal/domains/images/application/types"
	"github.com/ravengallery/gallery-api/internal/domains/images/domain"
	"github.com/ravengallery/gallery-api/internal/domains/images/ports"
	"github.com/ravengallery/gallery-api/internal/shared/projection"
)

const defaultPageSize = 20

// Views produces the read models of the images bounded context.
type Views struct {
	repo ports.Repository
}

// NewViews wires the read side with its repository.
func NewViews(repo ports.Repository) *Views {
	return &Views{repo: repo}
}

// TagCollection lists tags starting with the search text, most used first.
func (v *Views) TagCollection(ctx context.Context, in types.TagSearchInput) (types.TagCollectionView, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = types.DefaultTagLimit
	}
	counts, err := v.repo.TagCounts(ctx, in.SearchText, limit)
	if err != nil {
		return types.TagCollectionView{}, mapError(err)
	}
	items := make([]types.TagCollectionItem, 0, len(counts))
	for _, c := range counts {
		items = append(items, types.TagCollectionItem{Name: c.Name, Count: c.Count})
	}
	return types.TagCollectionView{Items: items}, nil
}

// Image loads the full read model of one image.
func (v *Views) Image(ctx context.Context, in types.ImageByIDInput) (types.ImageView, error) {
	p, err := v.repo.GetByID(ctx, in.ImageID)
	if err != nil {
		return types.ImageView{}, mapError(err)
	}
	img := p.Entity
	return types.ImageView{
		ID:          img.ID,
		OwnerID:     img.OwnerID,
		Title:       img.Title,
		Tags:        nonNil(img.Tags),
		Filename:    img.Asset.Filename,
		ContentType: img.Asset.ContentType,
		Size:        img.Asset.Size,
		CreatedAt:   p.Metadata.CreatedAt,
		UpdatedAt:   p.Metadata.UpdatedAt,
	}, nil
}

// Browse returns one page of images, newest first.
func (v *Views) Browse(ctx context.Context, in types.BrowsePageInput) (types.BrowseView, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.PageSize <= 0 {
		in.PageSize = defaultPageSize
	}
	page, total, err := v.repo.Browse(ctx, ports.BrowseQuery{
		Offset:     in.Offset(),
		Limit:      in.PageSize,
		SearchText: in.SearchText,
	})
	if err != nil {
		return types.BrowseView{}, mapError(err)
	}
	items := make([]types.BrowseItem, 0, len(page))
	for _, p := range page {
		items = append(items, types.BrowseItem{
			ID:       p.Entity.ID,
			Title:    p.Entity.Title,
			Filename: p.Entity.Asset.Filename,
			Tags:     nonNil(p.Entity.Tags),
		})
	}
	return types.BrowseView{
		Page:       in.Page,
		PageSize:   in.PageSize,
		SearchText: in.SearchText,
		Total:      total,
		Items:      items,
	}, nil
}

// Related lists images sharing tags with the subject, most shared tags first and newest first
// among equals.
func (v *Views) Related(ctx context.Context, in types.RelatedImagesInput) (types.RelatedImagesView, error) {
	view := types.RelatedImagesView{ImageID: in.ImageID, Items: []types.RelatedImageItem{}}
	subject, err := v.repo.GetByID(ctx, in.ImageID)
	if err != nil {
		return types.RelatedImagesView{}, mapError(err)
	}
	if len(subject.Entity.Tags) == 0 {
		return view, nil
	}
	candidates, err := v.repo.FindByAnyTag(ctx, subject.Entity.Tags, subject.Entity.ID)
	if err != nil {
		return types.RelatedImagesView{}, mapError(err)
	}

	type scored struct {
		p      *projection.Projection[*domain.Image]
		shared int
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if n := subject.Entity.SharedTags(c.Entity); n > 0 {
			ranked = append(ranked, scored{p: c, shared: n})
		}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		if c := cmp.Compare(b.shared, a.shared); c != 0 {
			return c
		}
		if c := b.p.Metadata.CreatedAt.Compare(a.p.Metadata.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.p.Entity.ID, b.p.Entity.ID)
	})

	limit := in.Limit
	if limit <= 0 {
		limit = types.DefaultRelatedLimit
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for _, r := range ranked {
		view.Items = append(view.Items, types.RelatedImageItem{
			ID:         r.p.Entity.ID,
			Title:      r.p.Entity.Title,
			Filename:   r.p.Entity.Asset.Filename,
			SharedTags: r.shared,
		})
	}
	return view, nil
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return append([]string{}, tags...)
}

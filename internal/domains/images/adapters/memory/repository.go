package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ravengallery/gallery-api/internal/domains/images/domain"
	"github.com/ravengallery/gallery-api/internal/domains/images/ports"
	"github.com/ravengallery/gallery-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory implementation used for demos/tests.
type Repository struct {
	mu     sync.RWMutex
	images map[string]*storedImage
	seq    uint64
	now    func() time.Time
}

type storedImage struct {
	image    *domain.Image
	metadata projection.Metadata
	seq      uint64
}

// NewRepository constructs an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{
		images: map[string]*storedImage{},
		now:    time.Now,
	}
}

// WithClock overrides the clock used for metadata timestamps.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	if now != nil {
		r.mu.Lock()
		r.now = now
		r.mu.Unlock()
	}
	return r
}

// Save inserts or replaces an image while maintaining metadata.
func (r *Repository) Save(_ context.Context, image *domain.Image) (*projection.Projection[*domain.Image], error) {
	if image == nil {
		return nil, errors.New("cannot save nil image")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	timestamp := r.now()
	stored := &storedImage{
		image:    image.Clone(),
		metadata: projection.Created(timestamp),
	}
	if entry, ok := r.images[image.ID]; ok {
		stored.metadata = entry.metadata.Revised(timestamp)
		stored.seq = entry.seq
	} else {
		r.seq++
		stored.seq = r.seq
	}
	r.images[image.ID] = stored
	return projectionCopy(stored), nil
}

// GetByID fetches an image if present.
func (r *Repository) GetByID(_ context.Context, id string) (*projection.Projection[*domain.Image], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.images[id]
	if !ok {
		return nil, &ports.NotFoundError{ImageID: id}
	}
	return projectionCopy(entry), nil
}

// Browse pages through images newest first. SearchText matches a title or tag substring.
func (r *Repository) Browse(_ context.Context, query ports.BrowseQuery) ([]*projection.Projection[*domain.Image], int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query.SearchText))
	matches := make([]*storedImage, 0, len(r.images))
	for _, entry := range r.images {
		if needle == "" || matchesSearch(entry.image, needle) {
			matches = append(matches, entry)
		}
	}
	slices.SortFunc(matches, newestFirst)

	total := int64(len(matches))
	start := min(max(query.Offset, 0), len(matches))
	end := len(matches)
	if query.Limit > 0 {
		end = min(start+query.Limit, len(matches))
	}
	page := make([]*projection.Projection[*domain.Image], 0, end-start)
	for _, entry := range matches[start:end] {
		page = append(page, projectionCopy(entry))
	}
	return page, total, nil
}

// TagCounts groups tags case-insensitively and returns those starting with prefix, most used first.
func (r *Repository) TagCounts(_ context.Context, prefix string, limit int) ([]ports.TagCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefix = strings.ToLower(strings.TrimSpace(prefix))
	counts := map[string]int{}
	for _, entry := range r.images {
		seen := map[string]struct{}{}
		for _, tag := range entry.image.Tags {
			name := strings.ToLower(tag)
			if _, dup := seen[name]; dup || !strings.HasPrefix(name, prefix) {
				continue
			}
			seen[name] = struct{}{}
			counts[name]++
		}
	}
	result := make([]ports.TagCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, ports.TagCount{Name: name, Count: count})
	}
	slices.SortFunc(result, func(a, b ports.TagCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// FindByAnyTag returns images other than excludeID with at least one overlapping tag.
func (r *Repository) FindByAnyTag(_ context.Context, tags []string, excludeID string) ([]*projection.Projection[*domain.Image], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(tags) == 0 {
		return nil, nil
	}
	lookup := map[string]struct{}{}
	for _, t := range tags {
		lookup[strings.ToLower(t)] = struct{}{}
	}
	var list []*projection.Projection[*domain.Image]
	for id, entry := range r.images {
		if id == excludeID {
			continue
		}
		for _, tag := range entry.image.Tags {
			if _, ok := lookup[strings.ToLower(tag)]; ok {
				list = append(list, projectionCopy(entry))
				break
			}
		}
	}
	return list, nil
}

func matchesSearch(image *domain.Image, needle string) bool {
	if strings.Contains(strings.ToLower(image.Title), needle) {
		return true
	}
	for _, tag := range image.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func newestFirst(a, b *storedImage) int {
	if c := b.metadata.CreatedAt.Compare(a.metadata.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.seq, a.seq)
}

func projectionCopy(entry *storedImage) *projection.Projection[*domain.Image] {
	return projection.New(entry.image.Clone(), entry.metadata)
}

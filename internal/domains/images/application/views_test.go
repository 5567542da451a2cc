package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	imagememory "github.com/ravengallery/gallery-api/internal/domains/images/adapters/memory"
	imageworkflows "github.com/ravengallery/gallery-api/internal/domains/images/adapters/workflows"
	imagetypes "github.com/ravengallery/gallery-api/internal/domains/images/application/types"
	"github.com/ravengallery/gallery-api/internal/domains/images/ports"
	"github.com/ravengallery/gallery-api/internal/shared/dispatch"
)

type steppingClock struct{ t time.Time }

func (c *steppingClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func seededGallery(t *testing.T) (*Commands, *Views) {
	t.Helper()
	clock := &steppingClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	repo := imagememory.NewRepository().WithClock(clock.now)
	cmds := NewCommands(repo, imagememory.NewBlobStore(), imageworkflows.NewInlineImageRegistrar(repo))
	uploadFixture(t, cmds, "a", "cat", "cute", "pet")
	uploadFixture(t, cmds, "b", "Cat", "pet")
	uploadFixture(t, cmds, "c", "cat")
	uploadFixture(t, cmds, "d", "car")
	uploadFixture(t, cmds, "e")
	return cmds, NewViews(repo)
}

func TestTagCollection_PrefixAndCounts(t *testing.T) {
	_, views := seededGallery(t)

	view, err := views.TagCollection(context.Background(), imagetypes.TagSearchInput{SearchText: "ca"})
	require.NoError(t, err)
	require.Equal(t, []imagetypes.TagCollectionItem{
		{Name: "cat", Count: 3},
		{Name: "car", Count: 1},
	}, view.Items)

	limited, err := views.TagCollection(context.Background(), imagetypes.TagSearchInput{Limit: 1})
	require.NoError(t, err)
	require.Equal(t, []imagetypes.TagCollectionItem{{Name: "cat", Count: 3}}, limited.Items)
}

func TestImage_MapsProjection(t *testing.T) {
	_, views := seededGallery(t)

	view, err := views.Image(context.Background(), imagetypes.ImageByIDInput{ImageID: "e"})
	require.NoError(t, err)
	assert.Equal(t, "e", view.ID)
	assert.Equal(t, "owner-1", view.OwnerID)
	assert.Equal(t, "e.png", view.Filename)
	assert.Equal(t, "image/png", view.ContentType)
	assert.Equal(t, []string{}, view.Tags)
	assert.False(t, view.CreatedAt.IsZero())

	_, err = views.Image(context.Background(), imagetypes.ImageByIDInput{ImageID: "missing"})
	require.ErrorIs(t, err, ports.ErrNotFound)
	var missing *ports.NotFoundError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "missing", missing.ImageID)
}

func TestBrowse_PagesNewestFirst(t *testing.T) {
	_, views := seededGallery(t)

	first, err := views.Browse(context.Background(), imagetypes.BrowsePageInput{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(5), first.Total)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "e", first.Items[0].ID)
	assert.Equal(t, "d", first.Items[1].ID)

	last, err := views.Browse(context.Background(), imagetypes.BrowsePageInput{Page: 3, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Equal(t, "a", last.Items[0].ID)
}

func TestBrowse_SearchAndDefaults(t *testing.T) {
	_, views := seededGallery(t)

	view, err := views.Browse(context.Background(), imagetypes.BrowsePageInput{SearchText: "PET"})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, defaultPageSize, view.PageSize)
	assert.Equal(t, int64(2), view.Total)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "b", view.Items[0].ID)
	assert.Equal(t, "a", view.Items[1].ID)
}

func TestRelated_OrdersBySharedTags(t *testing.T) {
	_, views := seededGallery(t)

	view, err := views.Related(context.Background(), imagetypes.RelatedImagesInput{ImageID: "a"})
	require.NoError(t, err)
	require.Equal(t, "a", view.ImageID)
	require.Equal(t, []imagetypes.RelatedImageItem{
		{ID: "b", Title: "Title b", Filename: "b.png", SharedTags: 2},
		{ID: "c", Title: "Title c", Filename: "c.png", SharedTags: 1},
	}, view.Items)

	limited, err := views.Related(context.Background(), imagetypes.RelatedImagesInput{ImageID: "a", Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited.Items, 1)
}

func TestRelated_NoTags(t *testing.T) {
	_, views := seededGallery(t)

	view, err := views.Related(context.Background(), imagetypes.RelatedImagesInput{ImageID: "e"})
	require.NoError(t, err)
	require.Empty(t, view.Items)
	require.NotNil(t, view.Items)
}

func TestRegistries_CoverEveryKind(t *testing.T) {
	cmds, views := seededGallery(t)

	invoker, err := NewCommandInvoker(cmds)
	require.NoError(t, err)
	require.ElementsMatch(t, imagetypes.CommandKinds(), invoker.Kinds())

	repo, err := NewViewRepository(views)
	require.NoError(t, err)
	require.Len(t, repo.Pairs(), len(imagetypes.InputKinds()))

	require.NoError(t, invoker.Execute(context.Background(), imagetypes.UpdateImageTitle{ImageID: "a", Title: "Via invoker"}))
	view, err := dispatch.Load[imagetypes.ImageView](context.Background(), repo, imagetypes.ImageByIDInput{ImageID: "a"})
	require.NoError(t, err)
	require.Equal(t, "Via invoker", view.Title)
}

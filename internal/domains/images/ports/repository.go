package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/ravengallery/gallery-api/internal/domains/images/domain"
	"github.com/ravengallery/gallery-api/internal/shared/projection"
)

var ErrNotFound = errors.New("image not found")

// NotFoundError names the image that could not be found. It matches ErrNotFound.
type NotFoundError struct {
	ImageID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("image %q not found", e.ImageID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// BrowseQuery selects one page of images. SearchText matches titles or tags, case-insensitively.
type BrowseQuery struct {
	Offset     int
	Limit      int
	SearchText string
}

// TagCount is a tag name and the number of images carrying it.
type TagCount struct {
	Name  string
	Count int
}

type Repository interface {
	Save(ctx context.Context, image *domain.Image) (*projection.Projection[*domain.Image], error)
	GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Image], error)
	// Browse returns the requested page ordered newest first, plus the total number of matches.
	Browse(ctx context.Context, query BrowseQuery) ([]*projection.Projection[*domain.Image], int64, error)
	// TagCounts returns tags starting with prefix, most used first.
	TagCounts(ctx context.Context, prefix string, limit int) ([]TagCount, error)
	// FindByAnyTag returns images other than excludeID carrying at least one of tags.
	FindByAnyTag(ctx context.Context, tags []string, excludeID string) ([]*projection.Projection[*domain.Image], error)
}

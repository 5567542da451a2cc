package ports

import (
	"context"

	"github.com/ravengallery/gallery-api/internal/domains/images/domain"
)

// ImageRegistrar records the metadata of a freshly stored image, either inline or through a
// durable workflow.
type ImageRegistrar interface {
	Register(ctx context.Context, image *domain.Image) error
}

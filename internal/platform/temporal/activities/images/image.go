package images

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/ravengallery/gallery-api/internal/domains/images/domain"
	"github.com/ravengallery/gallery-api/internal/domains/images/ports"
)

// PersistImageActivityName persists the metadata of an uploaded image.
const PersistImageActivityName = "images.activities.PersistImage"

// Activities groups activities that operate on the images bounded context.
type Activities struct {
	repo ports.Repository
}

// NewActivities wires the image repository into the Temporal activities bundle.
func NewActivities(repo ports.Repository) *Activities {
	return &Activities{repo: repo}
}

// PersistImage stores the image aggregate. The aggregate was validated before the workflow started.
func (a *Activities) PersistImage(ctx context.Context, image domain.Image) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.repo == nil {
		logger.Error("image persist activity not initialized", "imageId", image.ID)
		return errors.New("image persist activity not initialized")
	}
	logger.Info("PersistImage activity started", "imageId", image.ID)
	if _, err := a.repo.Save(ctx, &image); err != nil {
		logger.Error("PersistImage activity failed", "imageId", image.ID, "error", err)
		return err
	}
	logger.Info("PersistImage activity completed", "imageId", image.ID)
	return nil
}

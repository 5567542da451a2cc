package images

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/ravengallery/gallery-api/internal/domains/images/domain"
	imageactivities "github.com/ravengallery/gallery-api/internal/platform/temporal/activities/images"
)

const (
	// ImageRegistrationWorkflowName is the public identifier for registering the workflow.
	ImageRegistrationWorkflowName = "images.workflows.Registration"
	// ImageRegistrationTaskQueue is the queue consumed by the worker processing image workflows.
	ImageRegistrationTaskQueue = "IMAGE_REGISTRATION"
)

// ImageRegistrationWorkflowInput carries the validated aggregate to persist.
type ImageRegistrationWorkflowInput struct {
	Image   domain.Image
	TraceID string
}

// ImageRegistrationWorkflow persists image metadata in a single activity attempt. Commands are
// executed at most once, so the activity is never retried.
func ImageRegistrationWorkflow(ctx workflow.Context, input ImageRegistrationWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	imageID := input.Image.ID
	logger.Info("ImageRegistrationWorkflow started", withTraceID(input.TraceID, "imageId", imageID)...)

	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	}
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), imageactivities.PersistImageActivityName, input.Image).Get(ctx, nil)
	if err != nil {
		logger.Error("ImageRegistrationWorkflow failed", withTraceID(input.TraceID, "imageId", imageID, "error", err)...)
		return err
	}
	logger.Info("ImageRegistrationWorkflow completed", withTraceID(input.TraceID, "imageId", imageID)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}

package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"

	"github.com/ravengallery/gallery-api/internal/domains/images/domain"
	"github.com/ravengallery/gallery-api/internal/domains/images/ports"
	imageworkflows "github.com/ravengallery/gallery-api/internal/platform/temporal/workflows/images"
)

var (
	_ ports.ImageRegistrar = (*TemporalImageRegistrar)(nil)
	_ ports.ImageRegistrar = (*InlineImageRegistrar)(nil)
)

// TemporalImageRegistrar registers uploaded images through a Temporal workflow and waits for it.
type TemporalImageRegistrar struct {
	client    client.Client
	taskQueue string
}

// NewTemporalImageRegistrar wires a Temporal client into the registrar.
func NewTemporalImageRegistrar(c client.Client) *TemporalImageRegistrar {
	return &TemporalImageRegistrar{client: c, taskQueue: imageworkflows.ImageRegistrationTaskQueue}
}

// Register starts the registration workflow and blocks until it finishes.
func (r *TemporalImageRegistrar) Register(ctx context.Context, image *domain.Image) error {
	if r == nil || r.client == nil {
		return errors.New("temporal image registrar not configured")
	}
	if image == nil {
		return errors.New("cannot register nil image")
	}
	options := client.StartWorkflowOptions{
		ID:                    registrationWorkflowID(image.ID),
		TaskQueue:             r.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	run, err := r.client.ExecuteWorkflow(
		ctx,
		options,
		imageworkflows.ImageRegistrationWorkflowName,
		imageworkflows.ImageRegistrationWorkflowInput{Image: *image.Clone(), TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		return err
	}
	return run.Get(ctx, nil)
}

// InlineImageRegistrar saves directly through the repository, useful for tests or dev fallbacks.
type InlineImageRegistrar struct {
	repo ports.Repository
}

// NewInlineImageRegistrar wraps the repository for synchronous registration.
func NewInlineImageRegistrar(repo ports.Repository) *InlineImageRegistrar {
	return &InlineImageRegistrar{repo: repo}
}

// Register persists the image without durable orchestration.
func (r *InlineImageRegistrar) Register(ctx context.Context, image *domain.Image) error {
	if r == nil || r.repo == nil {
		return errors.New("inline image registrar not configured")
	}
	_, err := r.repo.Save(ctx, image)
	return err
}

func registrationWorkflowID(imageID string) string {
	return fmt.Sprintf("image-registration-%s", imageID)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}

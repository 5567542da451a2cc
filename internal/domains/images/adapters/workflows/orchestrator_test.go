package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	imagememory "github.com/ravengallery/gallery-api/internal/domains/images/adapters/memory"
	"github.com/ravengallery/gallery-api/internal/domains/images/domain"
	imageworkflows "github.com/ravengallery/gallery-api/internal/platform/temporal/workflows/images"
)

func sampleImage(t *testing.T) *domain.Image {
	t.Helper()
	img, err := domain.NewImage("img-1", "owner-1", "Harbour", []string{"sea"}, domain.Asset{
		Filename:   "harbour.jpg",
		Size:       42,
		StorageKey: "images/owner-1/img-1/harbour.jpg",
	})
	require.NoError(t, err)
	return img
}

func TestTemporalImageRegistrar_ExecutesWorkflowAndWaits(t *testing.T) {
	temporalClient := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	img := sampleImage(t)

	temporalClient.On("ExecuteWorkflow",
		mock.Anything,
		mock.MatchedBy(func(opts client.StartWorkflowOptions) bool {
			return opts.ID == "image-registration-img-1" &&
				opts.TaskQueue == imageworkflows.ImageRegistrationTaskQueue &&
				opts.WorkflowIDReusePolicy == enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE
		}),
		imageworkflows.ImageRegistrationWorkflowName,
		mock.MatchedBy(func(in imageworkflows.ImageRegistrationWorkflowInput) bool {
			return in.Image.ID == "img-1" && in.Image.Title == "Harbour"
		}),
	).Return(run, nil).Once()
	run.On("Get", mock.Anything, mock.Anything).Return(nil).Once()

	require.NoError(t, NewTemporalImageRegistrar(temporalClient).Register(context.Background(), img))
	temporalClient.AssertExpectations(t)
	run.AssertExpectations(t)
}

func TestTemporalImageRegistrar_PropagatesWorkflowFailure(t *testing.T) {
	temporalClient := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	boom := errors.New("activity failed")

	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(run, nil)
	run.On("Get", mock.Anything, mock.Anything).Return(boom)

	err := NewTemporalImageRegistrar(temporalClient).Register(context.Background(), sampleImage(t))
	require.ErrorIs(t, err, boom)
}

func TestTemporalImageRegistrar_NotConfigured(t *testing.T) {
	require.Error(t, NewTemporalImageRegistrar(nil).Register(context.Background(), sampleImage(t)))
}

func TestInlineImageRegistrar_SavesThroughRepository(t *testing.T) {
	repo := imagememory.NewRepository()
	require.NoError(t, NewInlineImageRegistrar(repo).Register(context.Background(), sampleImage(t)))

	proj, err := repo.GetByID(context.Background(), "img-1")
	require.NoError(t, err)
	require.Equal(t, "Harbour", proj.Entity.Title)
}

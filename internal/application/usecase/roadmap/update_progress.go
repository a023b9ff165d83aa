package roadmap

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careercompass/careercompass/adapters/event"
	"github.com/careercompass/careercompass/internal/application/service"
	"github.com/careercompass/careercompass/internal/domain/roadmap"
	"github.com/careercompass/careercompass/pkg/apperror"
	"github.com/careercompass/careercompass/pkg/logger"
)

// UpdateProgressUseCase applies a partial like/completed-steps change to one
// user's progress record while keeping the roadmap's aggregate like counter
// consistent. The transactional reconciliation itself lives in the progress
// repository; this usecase owns the authorization and shape rules around it.
type UpdateProgressUseCase struct {
	progressRepo roadmap.ProgressRepository
	kafkaClient  event.Publisher
	cache        service.Cache
	logger       logger.Logger
}

func NewUpdateProgressUseCase(
	pRepo roadmap.ProgressRepository,
	kClient event.Publisher,
	cache service.Cache,
	log logger.Logger,
) *UpdateProgressUseCase {
	return &UpdateProgressUseCase{
		progressRepo: pRepo,
		kafkaClient:  kClient,
		cache:        cache,
		logger:       log,
	}
}

type UpdateProgressInput struct {
	// CallerID is the authenticated user; the change is rejected when it
	// targets anyone else.
	CallerID       uuid.UUID
	UserID         uuid.UUID
	RoadmapID      int64
	Liked          *bool
	CompletedSteps []int
}

type UpdateProgressOutput struct {
	Progress *roadmap.Progress
}

func (uc *UpdateProgressUseCase) Execute(ctx context.Context, input UpdateProgressInput) (*UpdateProgressOutput, error) {
	if input.UserID != input.CallerID {
		return nil, apperror.NewPermissionDenied("cannot update progress for another user")
	}

	change := roadmap.ProgressChange{
		UserID:         input.UserID,
		RoadmapID:      input.RoadmapID,
		Liked:          input.Liked,
		CompletedSteps: roadmap.NormalizeCompletedSteps(input.CompletedSteps),
	}
	if change.IsEmpty() {
		return nil, apperror.NewInvalidInput("at least one of liked or completed_steps must be provided", nil)
	}

	progress, err := uc.progressRepo.ApplyChange(ctx, change)
	if err != nil {
		if errors.Is(err, roadmap.ErrRoadmapNotFound) {
			return nil, apperror.NewNotFound("roadmap", itoa(input.RoadmapID))
		}
		return nil, apperror.NewInternal("failed to update roadmap progress", err)
	}

	invalidateCache(ctx, uc.cache, uc.logger, input.RoadmapID)

	go func() {
		err := uc.kafkaClient.PublishRoadmapEvent(context.Background(), event.RoadmapEventPayload{
			EventType: event.RoadmapEventTypeProgressUpdated,
			RoadmapID: input.RoadmapID,
			ActorID:   input.UserID,
		})
		if err != nil {
			uc.logger.Error("Failed to publish Kafka 'progress_updated' event", err,
				zap.Int64("roadmap_id", input.RoadmapID))
		}
	}()

	return &UpdateProgressOutput{Progress: progress}, nil
}

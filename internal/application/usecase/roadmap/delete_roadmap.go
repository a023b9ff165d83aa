package roadmap

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careercompass/careercompass/adapters/event"
	"github.com/careercompass/careercompass/internal/application/service"
	"github.com/careercompass/careercompass/internal/domain/roadmap"
	"github.com/careercompass/careercompass/internal/domain/user"
	"github.com/careercompass/careercompass/pkg/apperror"
	"github.com/careercompass/careercompass/pkg/logger"
)

type DeleteRoadmapUseCase struct {
	roadmapRepo roadmap.Repository
	kafkaClient event.Publisher
	cache       service.Cache
	logger      logger.Logger
}

func NewDeleteRoadmapUseCase(
	rRepo roadmap.Repository,
	kClient event.Publisher,
	cache service.Cache,
	log logger.Logger,
) *DeleteRoadmapUseCase {
	return &DeleteRoadmapUseCase{
		roadmapRepo: rRepo,
		kafkaClient: kClient,
		cache:       cache,
		logger:      log,
	}
}

type DeleteRoadmapInput struct {
	RoadmapID  int64
	CallerID   uuid.UUID
	CallerRole user.Role
}

func (uc *DeleteRoadmapUseCase) Execute(ctx context.Context, input DeleteRoadmapInput) error {
	rm, err := uc.roadmapRepo.FindByID(ctx, input.RoadmapID)
	if err != nil {
		if errors.Is(err, roadmap.ErrRoadmapNotFound) {
			return apperror.NewNotFound("roadmap", itoa(input.RoadmapID))
		}
		return apperror.NewInternal("failed to fetch roadmap", err)
	}

	// Only the creator or an admin may delete.
	if input.CallerRole != user.RoleAdmin && rm.CreatedBy != input.CallerID {
		return apperror.NewPermissionDenied("only the creator or an admin can delete this roadmap")
	}

	if err := uc.roadmapRepo.Delete(ctx, input.RoadmapID); err != nil {
		if errors.Is(err, roadmap.ErrRoadmapNotFound) {
			return apperror.NewNotFound("roadmap", itoa(input.RoadmapID))
		}
		return apperror.NewInternal("failed to delete roadmap", err)
	}

	invalidateCache(ctx, uc.cache, uc.logger, input.RoadmapID)

	go func() {
		err := uc.kafkaClient.PublishRoadmapEvent(context.Background(), event.RoadmapEventPayload{
			EventType: event.RoadmapEventTypeDeleted,
			RoadmapID: input.RoadmapID,
			ActorID:   input.CallerID,
		})
		if err != nil {
			uc.logger.Error("Failed to publish Kafka 'deleted' event", err,
				zap.Int64("roadmap_id", input.RoadmapID))
		}
	}()

	return nil
}

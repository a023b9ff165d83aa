package roadmap

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careercompass/careercompass/adapters/event"
	"github.com/careercompass/careercompass/internal/application/service"
	"github.com/careercompass/careercompass/internal/domain/roadmap"
	"github.com/careercompass/careercompass/pkg/apperror"
	"github.com/careercompass/careercompass/pkg/logger"
)

type CreateRoadmapUseCase struct {
	roadmapRepo roadmap.Repository
	kafkaClient event.Publisher
	cache       service.Cache
	logger      logger.Logger
}

func NewCreateRoadmapUseCase(
	rRepo roadmap.Repository,
	kClient event.Publisher,
	cache service.Cache,
	log logger.Logger,
) *CreateRoadmapUseCase {
	return &CreateRoadmapUseCase{
		roadmapRepo: rRepo,
		kafkaClient: kClient,
		cache:       cache,
		logger:      log,
	}
}

type CreateRoadmapInput struct {
	CreatedBy   uuid.UUID
	Title       string
	Year        *int
	AIGenerated bool
	Steps       []roadmap.Step
}

type CreateRoadmapOutput struct {
	Roadmap *roadmap.Roadmap
}

func (uc *CreateRoadmapUseCase) Execute(ctx context.Context, input CreateRoadmapInput) (*CreateRoadmapOutput, error) {
	newRoadmap := &roadmap.Roadmap{
		Title:       input.Title,
		Year:        input.Year,
		AIGenerated: input.AIGenerated,
		CreatedBy:   input.CreatedBy,
		Steps:       input.Steps,
	}

	if err := newRoadmap.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	if err := uc.roadmapRepo.Save(ctx, newRoadmap); err != nil {
		return nil, apperror.NewInternal("failed to create roadmap", err)
	}

	invalidateCache(ctx, uc.cache, uc.logger, newRoadmap.ID)

	go func() {
		err := uc.kafkaClient.PublishRoadmapEvent(context.Background(), event.RoadmapEventPayload{
			EventType: event.RoadmapEventTypeCreated,
			RoadmapID: newRoadmap.ID,
			ActorID:   input.CreatedBy,
		})
		if err != nil {
			uc.logger.Error("Failed to publish Kafka 'created' event", err,
				zap.Int64("roadmap_id", newRoadmap.ID))
		}
	}()

	return &CreateRoadmapOutput{Roadmap: newRoadmap}, nil
}

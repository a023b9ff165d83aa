package roadmap

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/careercompass/careercompass/adapters/event"
	"github.com/careercompass/careercompass/internal/domain/roadmap"
	"github.com/careercompass/careercompass/pkg/logger"
)

// ProcessRoadmapEventUseCase is the consumer-side companion of the
// roadmap.events topic. It audits the denormalized likes counter after
// progress updates and sweeps orphaned progress rows after deletions.
type ProcessRoadmapEventUseCase struct {
	roadmapRepo  roadmap.Repository
	progressRepo roadmap.ProgressRepository
	log          logger.Logger
}

func NewProcessRoadmapEventUseCase(
	rRepo roadmap.Repository,
	pRepo roadmap.ProgressRepository,
	log logger.Logger,
) *ProcessRoadmapEventUseCase {
	return &ProcessRoadmapEventUseCase{
		roadmapRepo:  rRepo,
		progressRepo: pRepo,
		log:          log,
	}
}

func (uc *ProcessRoadmapEventUseCase) Execute(ctx context.Context, payload event.RoadmapEventPayload) error {
	switch payload.EventType {
	case event.RoadmapEventTypeProgressUpdated:
		return uc.auditLikes(ctx, payload.RoadmapID)
	case event.RoadmapEventTypeDeleted:
		deleted, err := uc.progressRepo.DeleteByRoadmap(ctx, payload.RoadmapID)
		if err != nil {
			return err
		}
		if deleted > 0 {
			uc.log.Info("Swept orphaned progress rows",
				zap.Int64("roadmap_id", payload.RoadmapID),
				zap.Int64("rows", deleted),
			)
		}
		return nil
	case event.RoadmapEventTypeCreated:
		// Nothing to reconcile for a fresh roadmap.
		return nil
	default:
		uc.log.Warn("Unknown roadmap event type, skipping", zap.String("event_type", string(payload.EventType)))
		return nil
	}
}

// auditLikes compares the stored counter against a recount of liked
// progress rows and repairs it when they drift apart.
func (uc *ProcessRoadmapEventUseCase) auditLikes(ctx context.Context, roadmapID int64) error {
	rm, err := uc.roadmapRepo.FindByID(ctx, roadmapID)
	if err != nil {
		if errors.Is(err, roadmap.ErrRoadmapNotFound) {
			// Deleted between publish and consume, nothing to audit.
			return nil
		}
		return err
	}

	actual, err := uc.progressRepo.CountLikes(ctx, roadmapID)
	if err != nil {
		return err
	}
	if actual == rm.Likes {
		return nil
	}

	repaired, err := uc.progressRepo.RepairLikes(ctx, roadmapID)
	if err != nil {
		return err
	}
	uc.log.Warn("Repaired drifted likes counter",
		zap.Int64("roadmap_id", roadmapID),
		zap.Int64("stored", rm.Likes),
		zap.Int64("actual", repaired),
	)
	return nil
}

package roadmap

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careercompass/careercompass/internal/application/service"
	"github.com/careercompass/careercompass/internal/domain/roadmap"
	"github.com/careercompass/careercompass/pkg/apperror"
	"github.com/careercompass/careercompass/pkg/logger"
)

type GetRoadmapUseCase struct {
	roadmapRepo  roadmap.Repository
	progressRepo roadmap.ProgressRepository
	cache        service.Cache
	logger       logger.Logger
}

func NewGetRoadmapUseCase(
	rRepo roadmap.Repository,
	pRepo roadmap.ProgressRepository,
	cache service.Cache,
	log logger.Logger,
) *GetRoadmapUseCase {
	return &GetRoadmapUseCase{
		roadmapRepo:  rRepo,
		progressRepo: pRepo,
		cache:        cache,
		logger:       log,
	}
}

type GetRoadmapInput struct {
	RoadmapID int64
	ViewerID  uuid.UUID
}

type GetRoadmapOutput struct {
	Roadmap *roadmap.Roadmap
}

func (uc *GetRoadmapUseCase) Execute(ctx context.Context, input GetRoadmapInput) (*GetRoadmapOutput, error) {
	var rm *roadmap.Roadmap

	key := cacheKeyByID(input.RoadmapID)
	if raw, err := uc.cache.Get(ctx, key); err == nil {
		if err := json.Unmarshal(raw, &rm); err != nil {
			uc.logger.Warn("Discarding undecodable roadmap cache entry", zap.String("key", key))
			rm = nil
		}
	} else if !errors.Is(err, service.ErrCacheMiss) {
		uc.logger.Warn("Roadmap cache read failed", zap.Error(err))
	}

	if rm == nil {
		var err error
		rm, err = uc.roadmapRepo.FindByID(ctx, input.RoadmapID)
		if err != nil {
			if errors.Is(err, roadmap.ErrRoadmapNotFound) {
				return nil, apperror.NewNotFound("roadmap", itoa(input.RoadmapID))
			}
			return nil, apperror.NewInternal("failed to fetch roadmap", err)
		}

		if raw, err := json.Marshal(rm); err == nil {
			if err := uc.cache.Set(ctx, key, raw, cacheTTL); err != nil {
				uc.logger.Warn("Roadmap cache write failed", zap.Error(err))
			}
		}
	}

	if input.ViewerID != uuid.Nil {
		progress, err := uc.progressRepo.FindByUser(ctx, input.ViewerID, input.RoadmapID)
		if err != nil {
			return nil, apperror.NewInternal("failed to fetch viewer progress", err)
		}
		rm.Progress = progress
	} else {
		rm.Progress = nil
	}

	return &GetRoadmapOutput{Roadmap: rm}, nil
}

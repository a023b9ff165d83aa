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

type ListRoadmapsUseCase struct {
	roadmapRepo  roadmap.Repository
	progressRepo roadmap.ProgressRepository
	cache        service.Cache
	logger       logger.Logger
}

func NewListRoadmapsUseCase(
	rRepo roadmap.Repository,
	pRepo roadmap.ProgressRepository,
	cache service.Cache,
	log logger.Logger,
) *ListRoadmapsUseCase {
	return &ListRoadmapsUseCase{
		roadmapRepo:  rRepo,
		progressRepo: pRepo,
		cache:        cache,
		logger:       log,
	}
}

type ListRoadmapsInput struct {
	// ViewerID, when set, joins the viewer's own progress into each roadmap.
	ViewerID uuid.UUID
	Year     int
	Page     int
	Limit    int
}

type ListRoadmapsOutput struct {
	Roadmaps []*roadmap.Roadmap
}

func (uc *ListRoadmapsUseCase) Execute(ctx context.Context, input ListRoadmapsInput) (*ListRoadmapsOutput, error) {
	// Only the plain unfiltered listing is cached; per-viewer responses are
	// not worth a keyspace of their own.
	cacheable := input.ViewerID == uuid.Nil && input.Year == 0 && input.Page == 0 && input.Limit == 0

	if cacheable {
		if raw, err := uc.cache.Get(ctx, cacheKeyAll); err == nil {
			var roadmaps []*roadmap.Roadmap
			if err := json.Unmarshal(raw, &roadmaps); err == nil {
				return &ListRoadmapsOutput{Roadmaps: roadmaps}, nil
			}
			uc.logger.Warn("Discarding undecodable roadmap cache entry", zap.String("key", cacheKeyAll))
		} else if !errors.Is(err, service.ErrCacheMiss) {
			uc.logger.Warn("Roadmap cache read failed", zap.Error(err))
		}
	}

	filter := roadmap.ListFilter{Year: input.Year}
	if input.Limit > 0 {
		if input.Page <= 0 {
			input.Page = 1
		}
		filter.Limit = input.Limit
		filter.Offset = (input.Page - 1) * input.Limit
	}

	roadmaps, err := uc.roadmapRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, apperror.NewInternal("failed to fetch roadmaps", err)
	}

	if cacheable {
		if raw, err := json.Marshal(roadmaps); err == nil {
			if err := uc.cache.Set(ctx, cacheKeyAll, raw, cacheTTL); err != nil {
				uc.logger.Warn("Roadmap cache write failed", zap.Error(err))
			}
		}
	}

	if input.ViewerID != uuid.Nil {
		records, err := uc.progressRepo.FindAllByUser(ctx, input.ViewerID)
		if err != nil {
			return nil, apperror.NewInternal("failed to fetch viewer progress", err)
		}
		byRoadmap := make(map[int64]*roadmap.Progress, len(records))
		for _, p := range records {
			byRoadmap[p.RoadmapID] = p
		}
		for _, rm := range roadmaps {
			rm.Progress = byRoadmap[rm.ID]
		}
	}

	return &ListRoadmapsOutput{Roadmaps: roadmaps}, nil
}

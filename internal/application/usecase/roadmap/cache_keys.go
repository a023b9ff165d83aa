package roadmap

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/careercompass/careercompass/internal/application/service"
	"github.com/careercompass/careercompass/pkg/logger"
)

const (
	cacheKeyAll = "roadmaps:all"
	cacheTTL    = 5 * time.Minute
)

func cacheKeyByID(id int64) string {
	return fmt.Sprintf("roadmaps:id:%d", id)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// invalidateCache drops the cached read-path entries touched by a write.
// Cache failures are logged, never surfaced: the database stays the source
// of truth.
func invalidateCache(ctx context.Context, cache service.Cache, log logger.Logger, roadmapID int64) {
	keys := []string{cacheKeyAll}
	if roadmapID != 0 {
		keys = append(keys, cacheKeyByID(roadmapID))
	}
	if err := cache.Del(ctx, keys...); err != nil {
		log.Warn("Failed to invalidate roadmap cache", zap.Int64("roadmap_id", roadmapID), zap.Error(err))
	}
}

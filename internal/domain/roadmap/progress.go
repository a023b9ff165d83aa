package roadmap

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// Progress is one user's record against one roadmap: whether they liked it
// and which step indices they completed. Created on first interaction and
// never deleted while the roadmap exists.
type Progress struct {
	UserID         uuid.UUID `json:"user_id"`
	RoadmapID      int64     `json:"roadmap_id"`
	Liked          bool      `json:"liked"`
	CompletedSteps []int     `json:"completed_steps"`
}

// ProgressChange is a partial update: nil means "leave that field alone".
type ProgressChange struct {
	UserID         uuid.UUID
	RoadmapID      int64
	Liked          *bool
	CompletedSteps []int
}

func (c ProgressChange) IsEmpty() bool {
	return c.Liked == nil && c.CompletedSteps == nil
}

// LikeDelta computes the signed adjustment to apply to the roadmap's likes
// counter, derived from the previously observed state so repeated toggles
// never drift the aggregate.
func LikeDelta(existing *Progress, requested *bool) int64 {
	if requested == nil {
		return 0
	}
	if existing == nil {
		if *requested {
			return 1
		}
		return 0
	}
	switch {
	case existing.Liked && !*requested:
		return -1
	case !existing.Liked && *requested:
		return 1
	default:
		return 0
	}
}

// NormalizeCompletedSteps deduplicates, drops negatives and sorts, so the
// stored value is a canonical set of step indices.
func NormalizeCompletedSteps(indices []int) []int {
	if indices == nil {
		return nil
	}
	seen := make(map[int]struct{}, len(indices))
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if i < 0 {
			continue
		}
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// AllSteps is the payload a caller assembles to mark every step of an n-step
// roadmap completed. There is no dedicated code path for it.
func AllSteps(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

type ProgressRepository interface {
	// ApplyChange runs the reconciliation: verifies the roadmap exists,
	// adjusts the likes counter by the computed delta and upserts the
	// progress row with a field-level merge, all inside one transaction.
	ApplyChange(ctx context.Context, change ProgressChange) (*Progress, error)
	FindByUser(ctx context.Context, userID uuid.UUID, roadmapID int64) (*Progress, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*Progress, error)
	// CountLikes recounts liked rows for a roadmap; used by the audit worker.
	CountLikes(ctx context.Context, roadmapID int64) (int64, error)
	// RepairLikes overwrites the aggregate counter with a recount.
	RepairLikes(ctx context.Context, roadmapID int64) (int64, error)
	DeleteByRoadmap(ctx context.Context, roadmapID int64) (int64, error)
}

package roadmap

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careercompass/careercompass/adapters/event"
	"github.com/careercompass/careercompass/internal/application/service"
	"github.com/careercompass/careercompass/internal/domain/roadmap"
	"github.com/careercompass/careercompass/pkg/apperror"
)

// fakeProgressRepo keeps progress rows and the like counter in memory,
// mirroring the reconciliation the SQL implementation performs.
type fakeProgressRepo struct {
	mu         sync.Mutex
	roadmapIDs map[int64]bool
	rows       map[string]*roadmap.Progress
	likes      map[int64]int64
	applyCalls int
}

func newFakeProgressRepo(roadmapIDs ...int64) *fakeProgressRepo {
	known := make(map[int64]bool, len(roadmapIDs))
	for _, id := range roadmapIDs {
		known[id] = true
	}
	return &fakeProgressRepo{
		roadmapIDs: known,
		rows:       make(map[string]*roadmap.Progress),
		likes:      make(map[int64]int64),
	}
}

func progressKey(userID uuid.UUID, roadmapID int64) string {
	return userID.String() + "/" + itoa(roadmapID)
}

func (f *fakeProgressRepo) ApplyChange(_ context.Context, change roadmap.ProgressChange) (*roadmap.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyCalls++

	if !f.roadmapIDs[change.RoadmapID] {
		return nil, roadmap.ErrRoadmapNotFound
	}

	key := progressKey(change.UserID, change.RoadmapID)
	existing := f.rows[key]
	f.likes[change.RoadmapID] += roadmap.LikeDelta(existing, change.Liked)

	merged := &roadmap.Progress{UserID: change.UserID, RoadmapID: change.RoadmapID}
	if existing != nil {
		merged.Liked = existing.Liked
		merged.CompletedSteps = existing.CompletedSteps
	} else {
		merged.CompletedSteps = []int{}
	}
	if change.Liked != nil {
		merged.Liked = *change.Liked
	}
	if change.CompletedSteps != nil {
		merged.CompletedSteps = change.CompletedSteps
	}
	f.rows[key] = merged
	return merged, nil
}

func (f *fakeProgressRepo) FindByUser(_ context.Context, userID uuid.UUID, roadmapID int64) (*roadmap.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[progressKey(userID, roadmapID)], nil
}

func (f *fakeProgressRepo) FindAllByUser(_ context.Context, userID uuid.UUID) ([]*roadmap.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*roadmap.Progress, 0)
	for _, p := range f.rows {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProgressRepo) CountLikes(_ context.Context, roadmapID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.rows {
		if p.RoadmapID == roadmapID && p.Liked {
			n++
		}
	}
	return n, nil
}

func (f *fakeProgressRepo) RepairLikes(_ context.Context, roadmapID int64) (int64, error) {
	n, _ := f.CountLikes(context.Background(), roadmapID)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likes[roadmapID] = n
	return n, nil
}

func (f *fakeProgressRepo) DeleteByRoadmap(_ context.Context, roadmapID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for key, p := range f.rows {
		if p.RoadmapID == roadmapID {
			delete(f.rows, key)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeProgressRepo) likesFor(roadmapID int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.likes[roadmapID]
}

func (f *fakeProgressRepo) applyCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applyCalls
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads []event.RoadmapEventPayload
}

func (f *fakePublisher) PublishRoadmapEvent(_ context.Context, payload event.RoadmapEventPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	return nil
}

func newUpdateProgressFixture(roadmapIDs ...int64) (*UpdateProgressUseCase, *fakeProgressRepo) {
	repo := newFakeProgressRepo(roadmapIDs...)
	uc := NewUpdateProgressUseCase(repo, &fakePublisher{}, service.NewNoopCache(), newTestLogger())
	return uc, repo
}

func TestUpdateProgress_RejectsOtherUsers(t *testing.T) {
	uc, repo := newUpdateProgressFixture(1)
	caller := uuid.New()

	_, err := uc.Execute(context.Background(), UpdateProgressInput{
		CallerID:  caller,
		UserID:    uuid.New(),
		RoadmapID: 1,
		Liked:     boolPtr(true),
	})

	require.ErrorIs(t, err, apperror.ErrPermission)
	assert.Zero(t, repo.applyCallCount(), "repository must not be touched")
}

func TestUpdateProgress_RejectsEmptyChange(t *testing.T) {
	uc, repo := newUpdateProgressFixture(1)
	caller := uuid.New()

	_, err := uc.Execute(context.Background(), UpdateProgressInput{
		CallerID:  caller,
		UserID:    caller,
		RoadmapID: 1,
	})

	require.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Zero(t, repo.applyCallCount())
}

func TestUpdateProgress_UnknownRoadmap(t *testing.T) {
	uc, _ := newUpdateProgressFixture(1)
	caller := uuid.New()

	_, err := uc.Execute(context.Background(), UpdateProgressInput{
		CallerID:  caller,
		UserID:    caller,
		RoadmapID: 999,
		Liked:     boolPtr(true),
	})

	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateProgress_LikeToggleKeepsCounterStable(t *testing.T) {
	uc, repo := newUpdateProgressFixture(7)
	caller := uuid.New()

	like := func(v bool) {
		out, err := uc.Execute(context.Background(), UpdateProgressInput{
			CallerID:  caller,
			UserID:    caller,
			RoadmapID: 7,
			Liked:     boolPtr(v),
		})
		require.NoError(t, err)
		require.Equal(t, v, out.Progress.Liked)
	}

	like(true)
	assert.Equal(t, int64(1), repo.likesFor(7))

	// repeating the same value must not double count
	like(true)
	assert.Equal(t, int64(1), repo.likesFor(7))

	like(false)
	assert.Equal(t, int64(0), repo.likesFor(7))

	like(false)
	assert.Equal(t, int64(0), repo.likesFor(7))
}

func TestUpdateProgress_CompletedStepsAreNormalized(t *testing.T) {
	uc, _ := newUpdateProgressFixture(7)
	caller := uuid.New()

	out, err := uc.Execute(context.Background(), UpdateProgressInput{
		CallerID:       caller,
		UserID:         caller,
		RoadmapID:      7,
		CompletedSteps: []int{2, 0, 0, 1},
	})

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, out.Progress.CompletedSteps)
}

func TestUpdateProgress_StepsUpdateLeavesLikeAlone(t *testing.T) {
	uc, repo := newUpdateProgressFixture(7)
	caller := uuid.New()

	_, err := uc.Execute(context.Background(), UpdateProgressInput{
		CallerID:  caller,
		UserID:    caller,
		RoadmapID: 7,
		Liked:     boolPtr(true),
	})
	require.NoError(t, err)

	out, err := uc.Execute(context.Background(), UpdateProgressInput{
		CallerID:       caller,
		UserID:         caller,
		RoadmapID:      7,
		CompletedSteps: roadmap.AllSteps(4),
	})
	require.NoError(t, err)

	assert.True(t, out.Progress.Liked, "liked flag survives a steps-only change")
	assert.Equal(t, []int{0, 1, 2, 3}, out.Progress.CompletedSteps)
	assert.Equal(t, int64(1), repo.likesFor(7))
}

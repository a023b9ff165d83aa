package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/careercompass/careercompass/internal/domain/roadmap"
	"github.com/careercompass/careercompass/pkg/logger"
)

type postgresProgressRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
	strict bool
}

func NewPostgresProgressRepo(db *pgxpool.Pool, log logger.Logger, strict bool) roadmap.ProgressRepository {
	return &postgresProgressRepo{db: db, logger: log, strict: strict}
}

func (r *postgresProgressRepo) decodeCompletedSteps(userID uuid.UUID, roadmapID int64, raw []byte) ([]int, error) {
	var steps []int
	if err := json.Unmarshal(raw, &steps); err != nil {
		if r.strict {
			return nil, fmt.Errorf("progress (%s, %d): %w: %v", userID, roadmapID, roadmap.ErrMalformedColumn, err)
		}
		r.logger.Warn("Malformed completed_steps column, degrading to empty set",
			zap.String("user_id", userID.String()),
			zap.Int64("roadmap_id", roadmapID),
			zap.Error(err))
		return []int{}, nil
	}
	if steps == nil {
		steps = []int{}
	}
	return steps, nil
}

// ApplyChange is the progress reconciler. One transaction covers the
// existence check, the like-delta adjustment and the field-merged upsert, so
// the aggregate counter and the per-user flag cannot be observed out of step
// with each other. The progress row is locked FOR UPDATE to serialize two
// requests from the same user.
func (r *postgresProgressRepo) ApplyChange(ctx context.Context, change roadmap.ProgressChange) (*roadmap.Progress, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin progress transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var roadmapID int64
	err = tx.QueryRow(ctx, `SELECT id FROM roadmaps WHERE id = $1`, change.RoadmapID).Scan(&roadmapID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, roadmap.ErrRoadmapNotFound
		}
		return nil, fmt.Errorf("failed to check roadmap existence: %w", err)
	}

	var existing *roadmap.Progress
	var liked bool
	var completedBytes []byte
	err = tx.QueryRow(ctx, `
		SELECT liked, completed_steps
		FROM roadmap_progress
		WHERE user_id = $1 AND roadmap_id = $2
		FOR UPDATE
	`, change.UserID, change.RoadmapID).Scan(&liked, &completedBytes)
	switch {
	case err == nil:
		steps, decErr := r.decodeCompletedSteps(change.UserID, change.RoadmapID, completedBytes)
		if decErr != nil {
			return nil, decErr
		}
		existing = &roadmap.Progress{
			UserID:         change.UserID,
			RoadmapID:      change.RoadmapID,
			Liked:          liked,
			CompletedSteps: steps,
		}
	case errors.Is(err, pgx.ErrNoRows):
		existing = nil
	default:
		return nil, fmt.Errorf("failed to read existing progress: %w", err)
	}

	if delta := roadmap.LikeDelta(existing, change.Liked); delta != 0 {
		// Relative increment, never read-modify-write, so concurrent likers
		// on the same roadmap cannot lose updates.
		_, err = tx.Exec(ctx, `UPDATE roadmaps SET likes = likes + $1 WHERE id = $2`, delta, change.RoadmapID)
		if err != nil {
			return nil, fmt.Errorf("failed to adjust likes counter: %w", err)
		}
	}

	var stepsParam []byte
	if change.CompletedSteps != nil {
		stepsParam, err = json.Marshal(change.CompletedSteps)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal completed_steps: %w", err)
		}
	}

	result := &roadmap.Progress{UserID: change.UserID, RoadmapID: change.RoadmapID}
	var resultBytes []byte
	err = tx.QueryRow(ctx, `
		INSERT INTO roadmap_progress (user_id, roadmap_id, liked, completed_steps)
		VALUES ($1, $2, COALESCE($3, FALSE), COALESCE($4, '[]'::jsonb))
		ON CONFLICT (user_id, roadmap_id) DO UPDATE SET
			liked = COALESCE($3, roadmap_progress.liked),
			completed_steps = COALESCE($4, roadmap_progress.completed_steps)
		RETURNING liked, completed_steps
	`, change.UserID, change.RoadmapID, change.Liked, stepsParam).Scan(&result.Liked, &resultBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert progress: %w", err)
	}

	result.CompletedSteps, err = r.decodeCompletedSteps(change.UserID, change.RoadmapID, resultBytes)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit progress transaction: %w", err)
	}
	return result, nil
}

func (r *postgresProgressRepo) FindByUser(ctx context.Context, userID uuid.UUID, roadmapID int64) (*roadmap.Progress, error) {
	p := &roadmap.Progress{UserID: userID, RoadmapID: roadmapID}
	var completedBytes []byte

	err := r.db.QueryRow(ctx, `
		SELECT liked, completed_steps
		FROM roadmap_progress
		WHERE user_id = $1 AND roadmap_id = $2
	`, userID, roadmapID).Scan(&p.Liked, &completedBytes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}

	p.CompletedSteps, err = r.decodeCompletedSteps(userID, roadmapID, completedBytes)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresProgressRepo) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*roadmap.Progress, error) {
	rows, err := r.db.Query(ctx, `
		SELECT roadmap_id, liked, completed_steps
		FROM roadmap_progress
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user progress: %w", err)
	}
	defer rows.Close()

	records := make([]*roadmap.Progress, 0)
	for rows.Next() {
		p := &roadmap.Progress{UserID: userID}
		var completedBytes []byte
		if err := rows.Scan(&p.RoadmapID, &p.Liked, &completedBytes); err != nil {
			return nil, fmt.Errorf("failed to scan progress row: %w", err)
		}
		p.CompletedSteps, err = r.decodeCompletedSteps(userID, p.RoadmapID, completedBytes)
		if err != nil {
			return nil, err
		}
		records = append(records, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating progress rows: %w", err)
	}
	return records, nil
}

func (r *postgresProgressRepo) CountLikes(ctx context.Context, roadmapID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM roadmap_progress WHERE roadmap_id = $1 AND liked
	`, roadmapID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// RepairLikes resets the aggregate counter to the live recount. The audit
// worker calls this when it detects drift.
func (r *postgresProgressRepo) RepairLikes(ctx context.Context, roadmapID int64) (int64, error) {
	var likes int64
	err := r.db.QueryRow(ctx, `
		UPDATE roadmaps SET likes = (
			SELECT COUNT(*) FROM roadmap_progress WHERE roadmap_id = $1 AND liked
		)
		WHERE id = $1
		RETURNING likes
	`, roadmapID).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, roadmap.ErrRoadmapNotFound
		}
		return 0, fmt.Errorf("failed to repair likes counter: %w", err)
	}
	return likes, nil
}

func (r *postgresProgressRepo) DeleteByRoadmap(ctx context.Context, roadmapID int64) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM roadmap_progress WHERE roadmap_id = $1`, roadmapID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete progress rows: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

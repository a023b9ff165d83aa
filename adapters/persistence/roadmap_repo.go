package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/careercompass/careercompass/internal/domain/roadmap"
	"github.com/careercompass/careercompass/pkg/logger"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type postgresRoadmapRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
	strict bool
}

// NewPostgresRoadmapRepo builds the roadmap repository. When strict is true
// a malformed steps column fails the read instead of degrading to an empty
// step list.
func NewPostgresRoadmapRepo(db *pgxpool.Pool, log logger.Logger, strict bool) roadmap.Repository {
	return &postgresRoadmapRepo{db: db, logger: log, strict: strict}
}

func (r *postgresRoadmapRepo) decodeSteps(id int64, raw []byte) ([]roadmap.Step, error) {
	var steps []roadmap.Step
	if err := json.Unmarshal(raw, &steps); err != nil {
		if r.strict {
			return nil, fmt.Errorf("roadmap %d: %w: %v", id, roadmap.ErrMalformedColumn, err)
		}
		r.logger.Warn("Malformed steps column, degrading to empty list",
			zap.Int64("roadmap_id", id), zap.Error(err))
		return []roadmap.Step{}, nil
	}
	if steps == nil {
		steps = []roadmap.Step{}
	}
	return steps, nil
}

func (r *postgresRoadmapRepo) scanRoadmap(row pgx.Row) (*roadmap.Roadmap, error) {
	rm := &roadmap.Roadmap{}
	var stepsBytes []byte

	err := row.Scan(
		&rm.ID,
		&rm.Title,
		&rm.Year,
		&rm.AIGenerated,
		&rm.CreatedBy,
		&stepsBytes,
		&rm.CreatedAt,
		&rm.Likes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, roadmap.ErrRoadmapNotFound
		}
		return nil, fmt.Errorf("failed to scan roadmap row: %w", err)
	}

	rm.Steps, err = r.decodeSteps(rm.ID, stepsBytes)
	if err != nil {
		return nil, err
	}
	return rm, nil
}

func (r *postgresRoadmapRepo) Save(ctx context.Context, rm *roadmap.Roadmap) error {
	stepsBytes, err := json.Marshal(rm.Steps)
	if err != nil {
		return fmt.Errorf("failed to marshal roadmap steps: %w", err)
	}

	query := `
		INSERT INTO roadmaps (title, year, ai_generated, created_by, steps, likes)
		VALUES ($1, $2, $3, $4, $5, 0)
		RETURNING id, created_at, likes
	`
	err = r.db.QueryRow(ctx, query,
		rm.Title, rm.Year, rm.AIGenerated, rm.CreatedBy, stepsBytes,
	).Scan(&rm.ID, &rm.CreatedAt, &rm.Likes)
	if err != nil {
		return fmt.Errorf("failed to save roadmap: %w", err)
	}
	return nil
}

func (r *postgresRoadmapRepo) FindByID(ctx context.Context, id int64) (*roadmap.Roadmap, error) {
	query := `
		SELECT id, title, year, ai_generated, created_by, steps, created_at, likes
		FROM roadmaps
		WHERE id = $1
	`
	return r.scanRoadmap(r.db.QueryRow(ctx, query, id))
}

func (r *postgresRoadmapRepo) FindAll(ctx context.Context, filter roadmap.ListFilter) ([]*roadmap.Roadmap, error) {
	builder := psql.Select("id", "title", "year", "ai_generated", "created_by", "steps", "created_at", "likes").
		From("roadmaps").
		OrderBy("created_at DESC")

	if filter.Year != 0 {
		builder = builder.Where(sq.Eq{"year": filter.Year})
	}
	if filter.CreatedBy != uuid.Nil {
		builder = builder.Where(sq.Eq{"created_by": filter.CreatedBy})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	sql, args, _ := builder.ToSql()
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query roadmaps: %w", err)
	}
	defer rows.Close()

	roadmaps := make([]*roadmap.Roadmap, 0)
	for rows.Next() {
		rm := &roadmap.Roadmap{}
		var stepsBytes []byte

		err := rows.Scan(
			&rm.ID,
			&rm.Title,
			&rm.Year,
			&rm.AIGenerated,
			&rm.CreatedBy,
			&stepsBytes,
			&rm.CreatedAt,
			&rm.Likes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan roadmap row during iteration: %w", err)
		}

		rm.Steps, err = r.decodeSteps(rm.ID, stepsBytes)
		if err != nil {
			return nil, err
		}
		roadmaps = append(roadmaps, rm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roadmap rows: %w", err)
	}
	return roadmaps, nil
}

// Delete removes the roadmap and its progress rows in one transaction, so a
// deleted roadmap can never leave orphaned progress behind.
func (r *postgresRoadmapRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM roadmap_progress WHERE roadmap_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete roadmap progress rows: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM roadmaps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete roadmap: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return roadmap.ErrRoadmapNotFound
	}

	return tx.Commit(ctx)
}

package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careercompass/careercompass/internal/domain/story"
)

type postgresStoryRepo struct {
	db *pgxpool.Pool
}

func NewPostgresStoryRepo(db *pgxpool.Pool) story.Repository {
	return &postgresStoryRepo{db: db}
}

func scanStory(row pgx.Row) (*story.SuccessStory, error) {
	s := &story.SuccessStory{}
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Post,
		&s.Batch,
		&s.FollowedRoadmap,
		&s.ConnectLink,
		&s.ImageURL,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, story.ErrStoryNotFound
		}
		return nil, fmt.Errorf("failed to scan success story row: %w", err)
	}
	return s, nil
}

func (r *postgresStoryRepo) Save(ctx context.Context, s *story.SuccessStory) error {
	query := `
		INSERT INTO success_stories (name, post, batch, followed_roadmap, connect_link, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		s.Name, s.Post, s.Batch, s.FollowedRoadmap, s.ConnectLink, s.ImageURL,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save success story: %w", err)
	}
	return nil
}

func (r *postgresStoryRepo) FindByID(ctx context.Context, id int64) (*story.SuccessStory, error) {
	query := `
		SELECT id, name, post, batch, followed_roadmap, connect_link, image_url, created_at
		FROM success_stories
		WHERE id = $1
	`
	return scanStory(r.db.QueryRow(ctx, query, id))
}

func (r *postgresStoryRepo) FindAll(ctx context.Context) ([]*story.SuccessStory, error) {
	query := `
		SELECT id, name, post, batch, followed_roadmap, connect_link, image_url, created_at
		FROM success_stories
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query success stories: %w", err)
	}
	defer rows.Close()

	stories := make([]*story.SuccessStory, 0)
	for rows.Next() {
		s := &story.SuccessStory{}
		err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Post,
			&s.Batch,
			&s.FollowedRoadmap,
			&s.ConnectLink,
			&s.ImageURL,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan success story row during iteration: %w", err)
		}
		stories = append(stories, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating success story rows: %w", err)
	}
	return stories, nil
}

func (r *postgresStoryRepo) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM success_stories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete success story: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return story.ErrStoryNotFound
	}
	return nil
}

package roadmap

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRoadmapNotFound  = errors.New("roadmap not found")
	ErrEmptyTitle       = errors.New("title is required")
	ErrInvalidYear      = errors.New("year must be between 1 and 4")
	ErrNoSteps          = errors.New("at least one step is required")
	ErrEmptyStepTitle   = errors.New("step title is required")
	ErrNoStepBullets    = errors.New("each step needs at least one bullet")
	ErrEmptyStepBullet  = errors.New("step bullets must not be empty")
	ErrInvalidStepLink  = errors.New("step link must be a valid URL")
	ErrMalformedColumn  = errors.New("malformed serialized column")
)

// Step is one stage of a roadmap. Steps are immutable once the roadmap is
// created; there is no step-edit operation.
type Step struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
	Link    string   `json:"link,omitempty"`
}

func (s Step) Validate() error {
	if s.Title == "" {
		return ErrEmptyStepTitle
	}
	if len(s.Bullets) == 0 {
		return ErrNoStepBullets
	}
	for _, b := range s.Bullets {
		if b == "" {
			return ErrEmptyStepBullet
		}
	}
	if s.Link != "" {
		u, err := url.Parse(s.Link)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ErrInvalidStepLink
		}
	}
	return nil
}

type Roadmap struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Year        *int      `json:"year"`
	AIGenerated bool      `json:"ai_generated"`
	CreatedBy   uuid.UUID `json:"created_by"`
	Steps       []Step    `json:"steps"`
	CreatedAt   time.Time `json:"created_at"`
	// Likes is an aggregate counter kept in step with the per-user liked
	// flags by the progress reconciler.
	Likes int64 `json:"likes"`

	// Progress is the requesting user's own record, joined in on reads so
	// list views don't need a follow-up call per roadmap.
	Progress *Progress `json:"progress,omitempty"`
}

func (r *Roadmap) Validate() error {
	if r.Title == "" {
		return ErrEmptyTitle
	}
	if r.Year != nil && (*r.Year < 1 || *r.Year > 4) {
		return ErrInvalidYear
	}
	if len(r.Steps) == 0 {
		return ErrNoSteps
	}
	for _, s := range r.Steps {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type Repository interface {
	Save(ctx context.Context, r *Roadmap) error
	FindByID(ctx context.Context, id int64) (*Roadmap, error)
	FindAll(ctx context.Context, filter ListFilter) ([]*Roadmap, error)
	// Delete removes the roadmap together with every progress row that
	// references it, in one transaction.
	Delete(ctx context.Context, id int64) error
}

// ListFilter narrows FindAll. Zero values mean "no filter".
type ListFilter struct {
	Year      int
	CreatedBy uuid.UUID
	Limit     int
	Offset    int
}

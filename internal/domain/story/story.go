package story

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrStoryNotFound     = errors.New("success story not found")
	ErrMissingFields     = errors.New("missing or empty required fields")
	ErrInvalidBatch      = errors.New("invalid batch year")
	ErrInvalidConnectURI = errors.New("connect link must be a mailto: link")
)

const minBatchYear = 1900

// SuccessStory is an alumni testimonial. FollowedRoadmap is a soft reference
// by title, not a foreign key.
type SuccessStory struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Post            string    `json:"post"`
	Batch           int       `json:"batch"`
	FollowedRoadmap string    `json:"followed_roadmap"`
	ConnectLink     string    `json:"connect_link"`
	ImageURL        *string   `json:"image_url"`
	CreatedAt       time.Time `json:"created_at"`
}

func (s *SuccessStory) Validate(now time.Time) error {
	s.Name = strings.TrimSpace(s.Name)
	s.Post = strings.TrimSpace(s.Post)
	s.FollowedRoadmap = strings.TrimSpace(s.FollowedRoadmap)
	s.ConnectLink = strings.TrimSpace(s.ConnectLink)

	if s.Name == "" || s.Post == "" || s.FollowedRoadmap == "" || s.ConnectLink == "" || s.Batch == 0 {
		return ErrMissingFields
	}
	if s.Batch < minBatchYear || s.Batch > now.Year() {
		return ErrInvalidBatch
	}
	if !strings.HasPrefix(s.ConnectLink, "mailto:") {
		return ErrInvalidConnectURI
	}
	return nil
}

type Repository interface {
	Save(ctx context.Context, s *SuccessStory) error
	FindByID(ctx context.Context, id int64) (*SuccessStory, error)
	FindAll(ctx context.Context) ([]*SuccessStory, error)
	Delete(ctx context.Context, id int64) error
}

package story

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validStory() *SuccessStory {
	return &SuccessStory{
		Name:            "Jordan Pham",
		Post:            "Landed a backend role after the Go roadmap.",
		Batch:           2022,
		FollowedRoadmap: "Backend Developer",
		ConnectLink:     "mailto:jordan@example.com",
	}
}

func TestSuccessStory_Validate(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid story passes", func(t *testing.T) {
		assert.NoError(t, validStory().Validate(now))
	})

	t.Run("whitespace-only name rejected", func(t *testing.T) {
		s := validStory()
		s.Name = "   "
		assert.ErrorIs(t, s.Validate(now), ErrMissingFields)
	})

	t.Run("fields trimmed in place", func(t *testing.T) {
		s := validStory()
		s.Name = "  Jordan Pham  "
		assert.NoError(t, s.Validate(now))
		assert.Equal(t, "Jordan Pham", s.Name)
	})

	t.Run("batch before 1900", func(t *testing.T) {
		s := validStory()
		s.Batch = 1899
		assert.ErrorIs(t, s.Validate(now), ErrInvalidBatch)
	})

	t.Run("batch in the future", func(t *testing.T) {
		s := validStory()
		s.Batch = now.Year() + 1
		assert.ErrorIs(t, s.Validate(now), ErrInvalidBatch)
	})

	t.Run("current year boundary allowed", func(t *testing.T) {
		s := validStory()
		s.Batch = now.Year()
		assert.NoError(t, s.Validate(now))
	})

	t.Run("non-mailto connect link", func(t *testing.T) {
		s := validStory()
		s.ConnectLink = "https://example.com/jordan"
		assert.ErrorIs(t, s.Validate(now), ErrInvalidConnectURI)
	})
}

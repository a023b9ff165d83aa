package roadmap

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func validRoadmap() *Roadmap {
	return &Roadmap{
		Title:     "Backend Developer",
		Year:      intPtr(2),
		CreatedBy: uuid.New(),
		Steps: []Step{
			{Title: "Learn Go", Bullets: []string{"Tour of Go", "Write a CLI"}, Link: "https://go.dev"},
			{Title: "Databases", Bullets: []string{"SQL basics"}},
		},
	}
}

func TestRoadmap_Validate(t *testing.T) {
	t.Run("valid roadmap passes", func(t *testing.T) {
		assert.NoError(t, validRoadmap().Validate())
	})

	t.Run("missing title", func(t *testing.T) {
		rm := validRoadmap()
		rm.Title = ""
		assert.ErrorIs(t, rm.Validate(), ErrEmptyTitle)
	})

	t.Run("year out of range", func(t *testing.T) {
		rm := validRoadmap()
		rm.Year = intPtr(5)
		assert.ErrorIs(t, rm.Validate(), ErrInvalidYear)
	})

	t.Run("nil year allowed", func(t *testing.T) {
		rm := validRoadmap()
		rm.Year = nil
		assert.NoError(t, rm.Validate())
	})

	t.Run("no steps", func(t *testing.T) {
		rm := validRoadmap()
		rm.Steps = nil
		assert.ErrorIs(t, rm.Validate(), ErrNoSteps)
	})

	t.Run("step without bullets", func(t *testing.T) {
		rm := validRoadmap()
		rm.Steps = []Step{{Title: "Empty step"}}
		assert.ErrorIs(t, rm.Validate(), ErrNoStepBullets)
	})
}

func TestStep_Validate(t *testing.T) {
	t.Run("empty step title", func(t *testing.T) {
		s := Step{Bullets: []string{"a"}}
		assert.ErrorIs(t, s.Validate(), ErrEmptyStepTitle)
	})

	t.Run("blank bullet", func(t *testing.T) {
		s := Step{Title: "x", Bullets: []string{"a", ""}}
		assert.ErrorIs(t, s.Validate(), ErrEmptyStepBullet)
	})

	t.Run("relative link rejected", func(t *testing.T) {
		s := Step{Title: "x", Bullets: []string{"a"}, Link: "/docs/intro"}
		assert.ErrorIs(t, s.Validate(), ErrInvalidStepLink)
	})

	t.Run("empty link allowed", func(t *testing.T) {
		s := Step{Title: "x", Bullets: []string{"a"}}
		assert.NoError(t, s.Validate())
	})
}

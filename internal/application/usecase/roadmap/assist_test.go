package roadmap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careercompass/careercompass/internal/domain/roadmap"
	"github.com/careercompass/careercompass/pkg/apperror"
)

type fakeRoadmapRepo struct {
	byID map[int64]*roadmap.Roadmap
}

func (f *fakeRoadmapRepo) Save(_ context.Context, r *roadmap.Roadmap) error {
	f.byID[r.ID] = r
	return nil
}

func (f *fakeRoadmapRepo) FindByID(_ context.Context, id int64) (*roadmap.Roadmap, error) {
	rm, ok := f.byID[id]
	if !ok {
		return nil, roadmap.ErrRoadmapNotFound
	}
	return rm, nil
}

func (f *fakeRoadmapRepo) FindAll(_ context.Context, _ roadmap.ListFilter) ([]*roadmap.Roadmap, error) {
	out := make([]*roadmap.Roadmap, 0, len(f.byID))
	for _, rm := range f.byID {
		out = append(out, rm)
	}
	return out, nil
}

func (f *fakeRoadmapRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return roadmap.ErrRoadmapNotFound
	}
	delete(f.byID, id)
	return nil
}

func assistFixture(llm *fakeLLM) *AssistUseCase {
	repo := &fakeRoadmapRepo{byID: map[int64]*roadmap.Roadmap{
		5: {
			ID:    5,
			Title: "Backend Developer",
			Steps: []roadmap.Step{{Title: "Learn Go", Bullets: []string{"Tour of Go"}}},
		},
	}}
	return NewAssistUseCase(repo, llm, newTestLogger())
}

func TestAssist_AnswersFromJSONReply(t *testing.T) {
	llm := &fakeLLM{reply: `{"answer":"Start with the Tour of Go."}`}
	uc := assistFixture(llm)

	out, err := uc.Execute(context.Background(), AssistInput{RoadmapID: 5, Query: "where do I start?"})

	require.NoError(t, err)
	assert.Equal(t, "Start with the Tour of Go.", out.Answer)
	assert.Contains(t, llm.seen, "Backend Developer")
	assert.Contains(t, llm.seen, "where do I start?")
}

func TestAssist_FallsBackToRawText(t *testing.T) {
	llm := &fakeLLM{reply: "  Just start with the basics.  "}
	uc := assistFixture(llm)

	out, err := uc.Execute(context.Background(), AssistInput{RoadmapID: 5, Query: "help"})

	require.NoError(t, err)
	assert.Equal(t, "Just start with the basics.", out.Answer)
}

func TestAssist_EmptyQuery(t *testing.T) {
	uc := assistFixture(&fakeLLM{})

	_, err := uc.Execute(context.Background(), AssistInput{RoadmapID: 5, Query: "   "})

	require.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestAssist_UnknownRoadmap(t *testing.T) {
	uc := assistFixture(&fakeLLM{reply: "{}"})

	_, err := uc.Execute(context.Background(), AssistInput{RoadmapID: 404, Query: "hi"})

	require.ErrorIs(t, err, apperror.ErrNotFound)
}

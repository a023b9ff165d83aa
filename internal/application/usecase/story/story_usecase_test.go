package story

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/careercompass/careercompass/internal/domain/story"
	"github.com/careercompass/careercompass/pkg/apperror"
	"github.com/careercompass/careercompass/pkg/logger"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...zap.Field)        {}
func (nopLogger) Info(string, ...zap.Field)         {}
func (nopLogger) Warn(string, ...zap.Field)         {}
func (nopLogger) Error(string, error, ...zap.Field) {}
func (nopLogger) Fatal(string, error, ...zap.Field) {}
func (l nopLogger) With(...zap.Field) logger.Logger { return l }

type fakeStoryRepo struct {
	byID    map[int64]*story.SuccessStory
	nextID  int64
	saveErr error
}

func newFakeStoryRepo() *fakeStoryRepo {
	return &fakeStoryRepo{byID: make(map[int64]*story.SuccessStory), nextID: 1}
}

func (f *fakeStoryRepo) Save(_ context.Context, s *story.SuccessStory) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	s.ID = f.nextID
	f.nextID++
	f.byID[s.ID] = s
	return nil
}

func (f *fakeStoryRepo) FindByID(_ context.Context, id int64) (*story.SuccessStory, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, story.ErrStoryNotFound
	}
	return s, nil
}

func (f *fakeStoryRepo) FindAll(_ context.Context) ([]*story.SuccessStory, error) {
	out := make([]*story.SuccessStory, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return story.ErrStoryNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeUploader struct {
	uploads int
	deletes []string
	err     error
}

func (f *fakeUploader) Upload(_ context.Context, _ io.Reader, folder, publicID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads++
	return "https://res.example.com/" + folder + "/" + publicID + ".jpg", nil
}

func (f *fakeUploader) Delete(_ context.Context, publicID string) error {
	f.deletes = append(f.deletes, publicID)
	return nil
}

func validInput() CreateStoryInput {
	return CreateStoryInput{
		Name:            "Minh Le",
		Post:            "Got my first internship thanks to the roadmap.",
		Batch:           2023,
		FollowedRoadmap: "Backend Developer",
		ConnectLink:     "mailto:minh@example.com",
	}
}

func TestCreateStory(t *testing.T) {
	t.Run("plain story without image", func(t *testing.T) {
		repo := newFakeStoryRepo()
		up := &fakeUploader{}
		uc := NewStoryUseCase(repo, up, nopLogger{})

		s, err := uc.Create(context.Background(), validInput())

		require.NoError(t, err)
		assert.NotZero(t, s.ID)
		assert.Nil(t, s.ImageURL)
		assert.Zero(t, up.uploads)
	})

	t.Run("image is uploaded and url stored", func(t *testing.T) {
		repo := newFakeStoryRepo()
		up := &fakeUploader{}
		uc := NewStoryUseCase(repo, up, nopLogger{})

		input := validInput()
		input.Image = strings.NewReader("fake-image-bytes")

		s, err := uc.Create(context.Background(), input)

		require.NoError(t, err)
		require.NotNil(t, s.ImageURL)
		assert.Contains(t, *s.ImageURL, "success_stories/")
		assert.Equal(t, 1, up.uploads)
	})

	t.Run("validation failure rejected before upload", func(t *testing.T) {
		repo := newFakeStoryRepo()
		up := &fakeUploader{}
		uc := NewStoryUseCase(repo, up, nopLogger{})

		input := validInput()
		input.ConnectLink = "https://example.com"
		input.Image = strings.NewReader("x")

		_, err := uc.Create(context.Background(), input)

		require.ErrorIs(t, err, apperror.ErrInvalidInput)
		assert.Zero(t, up.uploads)
	})

	t.Run("upload failure surfaces as internal error", func(t *testing.T) {
		repo := newFakeStoryRepo()
		up := &fakeUploader{err: errors.New("cloud down")}
		uc := NewStoryUseCase(repo, up, nopLogger{})

		input := validInput()
		input.Image = strings.NewReader("x")

		_, err := uc.Create(context.Background(), input)

		require.ErrorIs(t, err, apperror.ErrInternal)
		assert.Empty(t, repo.byID)
	})
}

func TestDeleteStory(t *testing.T) {
	repo := newFakeStoryRepo()
	uc := NewStoryUseCase(repo, &fakeUploader{}, nopLogger{})

	s, err := uc.Create(context.Background(), validInput())
	require.NoError(t, err)

	t.Run("unknown id", func(t *testing.T) {
		err := uc.Delete(context.Background(), 999)
		require.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("existing story removed", func(t *testing.T) {
		require.NoError(t, uc.Delete(context.Background(), s.ID))
		_, err := repo.FindByID(context.Background(), s.ID)
		assert.ErrorIs(t, err, story.ErrStoryNotFound)
	})
}

func TestListStories(t *testing.T) {
	repo := newFakeStoryRepo()
	uc := NewStoryUseCase(repo, &fakeUploader{}, nopLogger{})

	_, err := uc.Create(context.Background(), validInput())
	require.NoError(t, err)

	stories, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, stories, 1)
}

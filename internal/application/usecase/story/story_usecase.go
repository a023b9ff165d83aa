package story

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careercompass/careercompass/internal/application/service"
	"github.com/careercompass/careercompass/internal/domain/story"
	"github.com/careercompass/careercompass/pkg/apperror"
	"github.com/careercompass/careercompass/pkg/logger"
)

const imageFolder = "success_stories"

type StoryUseCase struct {
	repo     story.Repository
	uploader service.Uploader
	logger   logger.Logger
}

func NewStoryUseCase(r story.Repository, uploader service.Uploader, log logger.Logger) *StoryUseCase {
	return &StoryUseCase{repo: r, uploader: uploader, logger: log}
}

type CreateStoryInput struct {
	Name            string
	Post            string
	Batch           int
	FollowedRoadmap string
	ConnectLink     string
	// ImageURL is used when the caller already hosts the image; Image wins
	// when both are provided.
	ImageURL *string
	Image    io.Reader
}

func (uc *StoryUseCase) Create(ctx context.Context, input CreateStoryInput) (*story.SuccessStory, error) {
	s := &story.SuccessStory{
		Name:            input.Name,
		Post:            input.Post,
		Batch:           input.Batch,
		FollowedRoadmap: input.FollowedRoadmap,
		ConnectLink:     input.ConnectLink,
		ImageURL:        input.ImageURL,
	}

	if err := s.Validate(time.Now()); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	var uploadedID string
	if input.Image != nil {
		uploadedID = uuid.New().String()
		url, err := uc.uploader.Upload(ctx, input.Image, imageFolder, uploadedID)
		if err != nil {
			return nil, apperror.NewInternal("failed to upload story image", err)
		}
		s.ImageURL = &url
	}

	if err := uc.repo.Save(ctx, s); err != nil {
		if uploadedID != "" {
			go func(publicID string) {
				if err := uc.uploader.Delete(context.Background(), publicID); err != nil {
					uc.logger.Warn("Failed to clean up orphaned story image", zap.Error(err))
				}
			}(imageFolder + "/" + uploadedID)
		}
		return nil, apperror.NewInternal("failed to create success story", err)
	}

	return s, nil
}

func (uc *StoryUseCase) List(ctx context.Context) ([]*story.SuccessStory, error) {
	stories, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.NewInternal("failed to fetch success stories", err)
	}
	return stories, nil
}

func (uc *StoryUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, story.ErrStoryNotFound) {
			return apperror.NewNotFound("success story", strconv.FormatInt(id, 10))
		}
		return apperror.NewInternal("failed to fetch success story", err)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, story.ErrStoryNotFound) {
			return apperror.NewNotFound("success story", strconv.FormatInt(id, 10))
		}
		return apperror.NewInternal("failed to delete success story", err)
	}
	return nil
}

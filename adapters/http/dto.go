package http

import (
	"time"

	"github.com/careercompass/careercompass/internal/domain/roadmap"
	"github.com/careercompass/careercompass/internal/domain/story"
	"github.com/careercompass/careercompass/internal/domain/user"
)

// Roadmap DTOs

type StepDTO struct {
	Title   string   `json:"title" binding:"required"`
	Bullets []string `json:"bullets" binding:"required,min=1"`
	Link    string   `json:"link,omitempty"`
}

type CreateRoadmapRequest struct {
	Title       string    `json:"title" binding:"required"`
	Year        *int      `json:"year" binding:"omitempty,min=1,max=4"`
	AIGenerated bool      `json:"ai_generated"`
	Steps       []StepDTO `json:"steps" binding:"required,min=1"`
}

func (r *CreateRoadmapRequest) ToDomainSteps() []roadmap.Step {
	steps := make([]roadmap.Step, len(r.Steps))
	for i, s := range r.Steps {
		steps[i] = roadmap.Step{Title: s.Title, Bullets: s.Bullets, Link: s.Link}
	}
	return steps
}

type ProgressDTO struct {
	Liked          bool  `json:"liked"`
	CompletedSteps []int `json:"completed_steps"`
}

type RoadmapDTO struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Year        *int         `json:"year"`
	AIGenerated bool         `json:"ai_generated"`
	CreatedBy   string       `json:"created_by"`
	Steps       []StepDTO    `json:"steps"`
	CreatedAt   time.Time    `json:"created_at"`
	Likes       int64        `json:"likes"`
	Progress    *ProgressDTO `json:"progress,omitempty"`
}

func ToRoadmapDTO(rm *roadmap.Roadmap) RoadmapDTO {
	steps := make([]StepDTO, len(rm.Steps))
	for i, s := range rm.Steps {
		steps[i] = StepDTO{Title: s.Title, Bullets: s.Bullets, Link: s.Link}
	}

	dto := RoadmapDTO{
		ID:          rm.ID,
		Title:       rm.Title,
		Year:        rm.Year,
		AIGenerated: rm.AIGenerated,
		CreatedBy:   rm.CreatedBy.String(),
		Steps:       steps,
		CreatedAt:   rm.CreatedAt,
		Likes:       rm.Likes,
	}
	if rm.Progress != nil {
		dto.Progress = &ProgressDTO{
			Liked:          rm.Progress.Liked,
			CompletedSteps: rm.Progress.CompletedSteps,
		}
	}
	return dto
}

type UpdateProgressRequest struct {
	UserID         string `json:"userId" binding:"required"`
	RoadmapID      int64  `json:"roadmapId" binding:"required,gt=0"`
	Liked          *bool  `json:"liked"`
	CompletedSteps []int  `json:"completed_steps"`
}

type RoadmapProgressDTO struct {
	UserID         string `json:"user_id"`
	RoadmapID      int64  `json:"roadmap_id"`
	Liked          bool   `json:"liked"`
	CompletedSteps []int  `json:"completed_steps"`
}

func ToProgressDTO(p *roadmap.Progress) RoadmapProgressDTO {
	return RoadmapProgressDTO{
		UserID:         p.UserID.String(),
		RoadmapID:      p.RoadmapID,
		Liked:          p.Liked,
		CompletedSteps: p.CompletedSteps,
	}
}

type GenerateRoadmapRequest struct {
	Title string `json:"title" binding:"required"`
	Year  *int   `json:"year" binding:"omitempty,min=1,max=4"`
}

type AssistRequest struct {
	RoadmapID int64  `json:"roadmapId" binding:"required,gt=0"`
	Query     string `json:"query" binding:"required"`
}

// Success story DTOs

type CreateStoryRequest struct {
	Name            string  `json:"name" binding:"required"`
	Post            string  `json:"post" binding:"required"`
	Batch           int     `json:"batch" binding:"required"`
	FollowedRoadmap string  `json:"followed_roadmap" binding:"required"`
	ConnectLink     string  `json:"connect_link" binding:"required"`
	ImageURL        *string `json:"image_url"`
}

type DeleteStoryRequest struct {
	ID int64 `json:"id" binding:"required,gt=0"`
}

type StoryDTO struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Post            string  `json:"post"`
	Batch           int     `json:"batch"`
	FollowedRoadmap string  `json:"followed_roadmap"`
	ConnectLink     string  `json:"connect_link"`
	ImageURL        *string `json:"image_url"`
	CreatedAt       string  `json:"created_at"`
}

func ToStoryDTO(s *story.SuccessStory) StoryDTO {
	return StoryDTO{
		ID:              s.ID,
		Name:            s.Name,
		Post:            s.Post,
		Batch:           s.Batch,
		FollowedRoadmap: s.FollowedRoadmap,
		ConnectLink:     s.ConnectLink,
		ImageURL:        s.ImageURL,
		CreatedAt:       s.CreatedAt.Format("01/02/2006"),
	}
}

// User DTOs

type CreateUserRequest struct {
	Email    string  `json:"email" binding:"required"`
	Name     *string `json:"name"`
	Password string  `json:"password" binding:"required,min=8"`
	Role     string  `json:"role" binding:"required"`
}

type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	storyUC "github.com/careercompass/careercompass/internal/application/usecase/story"
)

type StoryHandler struct {
	storyUseCase *storyUC.StoryUseCase
}

func NewStoryHandler(uc *storyUC.StoryUseCase) *StoryHandler {
	return &StoryHandler{storyUseCase: uc}
}

func (h *StoryHandler) ListStories(c *gin.Context) {
	stories, err := h.storyUseCase.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]StoryDTO, len(stories))
	for i, s := range stories {
		dtos[i] = ToStoryDTO(s)
	}
	c.JSON(http.StatusOK, dtos)
}

// CreateStory accepts either a JSON body or a multipart form with an
// optional portrait image; the image is uploaded and its URL stored.
func (h *StoryHandler) CreateStory(c *gin.Context) {
	input := storyUC.CreateStoryInput{}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		input.Name = c.PostForm("name")
		input.Post = c.PostForm("post")
		input.FollowedRoadmap = c.PostForm("followed_roadmap")
		input.ConnectLink = c.PostForm("connect_link")
		input.Batch, _ = strconv.Atoi(c.PostForm("batch"))

		if fileHeader, err := c.FormFile("image"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "image cannot open"})
				return
			}
			defer file.Close()
			input.Image = file
		}
	} else {
		var req CreateStoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request data", "details": err.Error()})
			return
		}
		input.Name = req.Name
		input.Post = req.Post
		input.Batch = req.Batch
		input.FollowedRoadmap = req.FollowedRoadmap
		input.ConnectLink = req.ConnectLink
		input.ImageURL = req.ImageURL
	}

	s, err := h.storyUseCase.Create(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, ToStoryDTO(s))
}

func (h *StoryHandler) DeleteStory(c *gin.Context) {
	var req DeleteStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field: id"})
		return
	}

	if err := h.storyUseCase.Delete(c.Request.Context(), req.ID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Success story deleted successfully"})
}

package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	roadmapUC "github.com/careercompass/careercompass/internal/application/usecase/roadmap"
	"github.com/careercompass/careercompass/pkg/apperror"
)

type RoadmapHandler struct {
	createUseCase         *roadmapUC.CreateRoadmapUseCase
	listUseCase           *roadmapUC.ListRoadmapsUseCase
	getUseCase            *roadmapUC.GetRoadmapUseCase
	deleteUseCase         *roadmapUC.DeleteRoadmapUseCase
	updateProgressUseCase *roadmapUC.UpdateProgressUseCase
	generateUseCase       *roadmapUC.GenerateRoadmapUseCase
	assistUseCase         *roadmapUC.AssistUseCase
}

func NewRoadmapHandler(
	createUC *roadmapUC.CreateRoadmapUseCase,
	listUC *roadmapUC.ListRoadmapsUseCase,
	getUC *roadmapUC.GetRoadmapUseCase,
	deleteUC *roadmapUC.DeleteRoadmapUseCase,
	progressUC *roadmapUC.UpdateProgressUseCase,
	generateUC *roadmapUC.GenerateRoadmapUseCase,
	assistUC *roadmapUC.AssistUseCase,
) *RoadmapHandler {
	return &RoadmapHandler{
		createUseCase:         createUC,
		listUseCase:           listUC,
		getUseCase:            getUC,
		deleteUseCase:         deleteUC,
		updateProgressUseCase: progressUC,
		generateUseCase:       generateUC,
		assistUseCase:         assistUC,
	}
}

// GetRoadmaps serves both the collection and the single-roadmap read through
// the same route: an `id` query parameter narrows to one roadmap, `userId`
// joins that user's progress into the payload.
func (h *RoadmapHandler) GetRoadmaps(c *gin.Context) {
	viewerID := uuid.Nil
	if rawUser := c.Query("userId"); rawUser != "" {
		parsed, err := uuid.Parse(rawUser)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
			return
		}
		viewerID = parsed
	}

	if rawID := c.Query("id"); rawID != "" {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid roadmap ID"})
			return
		}

		output, err := h.getUseCase.Execute(c.Request.Context(), roadmapUC.GetRoadmapInput{
			RoadmapID: id,
			ViewerID:  viewerID,
		})
		if err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": ToRoadmapDTO(output.Roadmap)})
		return
	}

	year, _ := strconv.Atoi(c.Query("year"))
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	output, err := h.listUseCase.Execute(c.Request.Context(), roadmapUC.ListRoadmapsInput{
		ViewerID: viewerID,
		Year:     year,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]RoadmapDTO, len(output.Roadmaps))
	for i, rm := range output.Roadmaps {
		dtos[i] = ToRoadmapDTO(rm)
	}
	c.JSON(http.StatusOK, gin.H{"data": dtos})
}

func (h *RoadmapHandler) CreateRoadmap(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return
	}

	var req CreateRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request data", "details": err.Error()})
		return
	}

	output, err := h.createUseCase.Execute(c.Request.Context(), roadmapUC.CreateRoadmapInput{
		CreatedBy:   userID,
		Title:       req.Title,
		Year:        req.Year,
		AIGenerated: req.AIGenerated,
		Steps:       req.ToDomainSteps(),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":    ToRoadmapDTO(output.Roadmap),
		"message": "Roadmap created successfully",
	})
}

func (h *RoadmapHandler) UpdateProgress(c *gin.Context) {
	callerID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return
	}

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request data", "details": err.Error()})
		return
	}

	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	output, err := h.updateProgressUseCase.Execute(c.Request.Context(), roadmapUC.UpdateProgressInput{
		CallerID:       callerID,
		UserID:         targetID,
		RoadmapID:      req.RoadmapID,
		Liked:          req.Liked,
		CompletedSteps: req.CompletedSteps,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    ToProgressDTO(output.Progress),
		"message": "Roadmap progress updated successfully",
	})
}

func (h *RoadmapHandler) DeleteRoadmap(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user information not found"})
		return
	}
	role, ok := GetRoleFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "role information not found"})
		return
	}

	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid roadmap ID"})
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), roadmapUC.DeleteRoadmapInput{
		RoadmapID:  id,
		CallerID:   userID,
		CallerRole: role,
	}); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Roadmap deleted successfully"})
}

func (h *RoadmapHandler) GenerateRoadmap(c *gin.Context) {
	var req GenerateRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request data", "details": err.Error()})
		return
	}

	output, err := h.generateUseCase.Execute(c.Request.Context(), roadmapUC.GenerateRoadmapInput{
		Title: req.Title,
		Year:  req.Year,
	})
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]StepDTO, len(output.Steps))
	for i, s := range output.Steps {
		dtos[i] = StepDTO{Title: s.Title, Bullets: s.Bullets, Link: s.Link}
	}
	c.JSON(http.StatusOK, gin.H{"data": dtos})
}

func (h *RoadmapHandler) Assist(c *gin.Context) {
	if _, ok := GetUserIDFromGinContext(c); !ok {
		c.Error(apperror.NewPermissionDenied("user information not found"))
		return
	}

	var req AssistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request data", "details": err.Error()})
		return
	}

	output, err := h.assistUseCase.Execute(c.Request.Context(), roadmapUC.AssistInput{
		RoadmapID: req.RoadmapID,
		Query:     req.Query,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": output.Answer})
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/careercompass/careercompass/adapters/event"
	"github.com/careercompass/careercompass/adapters/persistence"
	"github.com/careercompass/careercompass/internal/application/service"
	authUC "github.com/careercompass/careercompass/internal/application/usecase/auth"
	roadmapUC "github.com/careercompass/careercompass/internal/application/usecase/roadmap"
	"github.com/careercompass/careercompass/internal/config"
	"github.com/careercompass/careercompass/internal/domain/roadmap"
	"github.com/careercompass/careercompass/internal/domain/user"
	"github.com/careercompass/careercompass/pkg/auth"
	"github.com/careercompass/careercompass/pkg/logger"
)

type stubPublisher struct{}

func (stubPublisher) PublishRoadmapEvent(context.Context, event.RoadmapEventPayload) error {
	return nil
}

type ProgressE2ETestSuite struct {
	suite.Suite
	Router      *gin.Engine
	testStudent user.User
	testPass    string
	roadmapID   int64
}

func (s *ProgressE2ETestSuite) SetupSuite() {
	cfg, err := config.LoadConfig("../..")
	if err != nil {
		s.T().Fatalf("Failed to load config for E2E test: %v", err)
	}

	dbPool, err := pgxpool.New(context.Background(), cfg.DB.DSN)
	if err != nil {
		s.T().Fatalf("E2E test failed to connect postgres: %v", err)
	}

	appLogger := logger.NewZapLogger("development")

	s.testPass = "e2e_test_password_123"
	hash, _ := auth.HashPassword(s.testPass)
	s.testStudent = user.User{
		ID:           uuid.New(),
		Email:        "e2e_student@example.com",
		PasswordHash: hash,
		Role:         user.RoleStudent,
	}
	alumni := user.User{
		ID:           uuid.New(),
		Email:        "e2e_alumni@example.com",
		PasswordHash: hash,
		Role:         user.RoleAlumni,
	}
	query := `
		INSERT INTO users (id, email, password_hash, role) VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET password_hash = $3, role = $4
	`
	for _, u := range []user.User{s.testStudent, alumni} {
		if _, err := dbPool.Exec(context.Background(), query, u.ID, u.Email, u.PasswordHash, u.Role); err != nil {
			s.T().Fatalf("E2E test failed to seed user: %v", err)
		}
	}

	userRepo := persistence.NewPostgresUserRepo(dbPool)
	roadmapRepo := persistence.NewPostgresRoadmapRepo(dbPool, appLogger, false)
	progressRepo := persistence.NewPostgresProgressRepo(dbPool, appLogger, false)

	rm := &roadmap.Roadmap{
		Title:     "E2E Progress Roadmap",
		CreatedBy: alumni.ID,
		Steps: []roadmap.Step{
			{Title: "Step one", Bullets: []string{"do it"}},
			{Title: "Step two", Bullets: []string{"do it again"}},
		},
	}
	if err := roadmapRepo.Save(context.Background(), rm); err != nil {
		s.T().Fatalf("E2E test failed to seed roadmap: %v", err)
	}
	s.roadmapID = rm.ID

	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	cache := service.NewNoopCache()
	updateProgressUseCase := roadmapUC.NewUpdateProgressUseCase(progressRepo, stubPublisher{}, cache, appLogger)
	createRoadmapUseCase := roadmapUC.NewCreateRoadmapUseCase(roadmapRepo, stubPublisher{}, cache, appLogger)
	listRoadmapsUseCase := roadmapUC.NewListRoadmapsUseCase(roadmapRepo, progressRepo, cache, appLogger)
	getRoadmapUseCase := roadmapUC.NewGetRoadmapUseCase(roadmapRepo, progressRepo, cache, appLogger)
	deleteRoadmapUseCase := roadmapUC.NewDeleteRoadmapUseCase(roadmapRepo, stubPublisher{}, cache, appLogger)

	authHandler := NewAuthHandler(loginUseCase)
	roadmapHandler := NewRoadmapHandler(
		createRoadmapUseCase,
		listRoadmapsUseCase,
		getRoadmapUseCase,
		deleteRoadmapUseCase,
		updateProgressUseCase,
		nil,
		nil,
	)
	authMiddleware := AuthMiddleware(jwtSvc)
	errorMiddleware := ErrorMiddleware(appLogger)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(errorMiddleware)

	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
		private := api.Group("/")
		private.Use(authMiddleware)
		{
			roadmaps := private.Group("/roadmaps")
			{
				roadmaps.GET("", roadmapHandler.GetRoadmaps)
				roadmaps.POST("", RequireRole(user.RoleAlumni), roadmapHandler.CreateRoadmap)
				roadmaps.PUT("/progress", RequireRole(user.RoleStudent), roadmapHandler.UpdateProgress)
			}
		}
	}

	s.Router = router
}

func (s *ProgressE2ETestSuite) TearDownSuite() {}

func TestProgressE2E(t *testing.T) {
	if os.Getenv("E2E_TESTS") == "" {
		t.Skip("Skipping E2E tests. Set E2E_TESTS=1 to run.")
	}
	suite.Run(t, new(ProgressE2ETestSuite))
}

func (s *ProgressE2ETestSuite) login() string {
	body, _ := json.Marshal(gin.H{"email": s.testStudent.Email, "password": s.testPass})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	s.Require().Equal(http.StatusOK, rr.Code)

	var loginResponse map[string]string
	json.Unmarshal(rr.Body.Bytes(), &loginResponse)
	s.Require().NotEmpty(loginResponse["access_token"])
	s.Require().Equal("student", loginResponse["role"])
	return loginResponse["access_token"]
}

func (s *ProgressE2ETestSuite) putProgress(token string, payload gin.H) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPut, "/api/roadmaps/progress", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func (s *ProgressE2ETestSuite) Test_Progress_Flow() {
	token := s.login()

	rrNoAuth := s.putProgress("", gin.H{
		"userId": s.testStudent.ID.String(), "roadmapId": s.roadmapID, "liked": true,
	})
	assert.Equal(s.T(), http.StatusUnauthorized, rrNoAuth.Code)

	rrLike := s.putProgress(token, gin.H{
		"userId": s.testStudent.ID.String(), "roadmapId": s.roadmapID, "liked": true,
	})
	assert.Equal(s.T(), http.StatusOK, rrLike.Code)

	var likeResponse struct {
		Data struct {
			Liked          bool  `json:"liked"`
			CompletedSteps []int `json:"completed_steps"`
		} `json:"data"`
	}
	json.Unmarshal(rrLike.Body.Bytes(), &likeResponse)
	assert.True(s.T(), likeResponse.Data.Liked)

	rrSteps := s.putProgress(token, gin.H{
		"userId": s.testStudent.ID.String(), "roadmapId": s.roadmapID, "completed_steps": []int{1, 0, 0},
	})
	assert.Equal(s.T(), http.StatusOK, rrSteps.Code)

	var stepsResponse struct {
		Data struct {
			Liked          bool  `json:"liked"`
			CompletedSteps []int `json:"completed_steps"`
		} `json:"data"`
	}
	json.Unmarshal(rrSteps.Body.Bytes(), &stepsResponse)
	assert.True(s.T(), stepsResponse.Data.Liked, "liked flag must survive a steps-only update")
	assert.Equal(s.T(), []int{0, 1}, stepsResponse.Data.CompletedSteps)

	rrOther := s.putProgress(token, gin.H{
		"userId": uuid.NewString(), "roadmapId": s.roadmapID, "liked": true,
	})
	assert.Equal(s.T(), http.StatusForbidden, rrOther.Code)

	rrEmpty := s.putProgress(token, gin.H{
		"userId": s.testStudent.ID.String(), "roadmapId": s.roadmapID,
	})
	assert.Equal(s.T(), http.StatusBadRequest, rrEmpty.Code)
}

func (s *ProgressE2ETestSuite) Test_RoleGate_StudentCannotCreate() {
	token := s.login()

	body, _ := json.Marshal(gin.H{
		"title": "Forbidden Roadmap",
		"steps": []gin.H{{"title": "x", "bullets": []string{"y"}}},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/roadmaps", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	assert.Equal(s.T(), http.StatusForbidden, rr.Code)

	var resp map[string]string
	json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Equal(s.T(), "/student/dashboard", resp["redirect"])
}

package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	userUC "github.com/careercompass/careercompass/internal/application/usecase/user"
)

type UserHandler struct {
	userUseCase *userUC.UserUseCase
}

func NewUserHandler(uc *userUC.UserUseCase) *UserHandler {
	return &UserHandler{userUseCase: uc}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	users, err := h.userUseCase.List(c.Request.Context(), userUC.ListUsersInput{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = ToUserDTO(u)
	}
	c.JSON(http.StatusOK, gin.H{"users": dtos})
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request data", "details": err.Error()})
		return
	}

	u, err := h.userUseCase.Create(c.Request.Context(), userUC.CreateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, ToUserDTO(u))
}

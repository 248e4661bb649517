package handlers

import (
	"net/http"

	"learnhub/internal/middleware"
	"learnhub/internal/models"
	"learnhub/internal/repository"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Users *repository.UserRepository
}

func NewAuthHandler(users *repository.UserRepository) *AuthHandler {
	return &AuthHandler{Users: users}
}

type registerRequest struct {
	Name         string `json:"name" binding:"required"`
	InitialLevel string `json:"initial_level"`
}

// Register completes the profile of the already-authenticated user. The
// account itself is provisioned by the auth middleware on first request.
func (h *AuthHandler) Register(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	level := req.InitialLevel
	switch level {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	case "":
		level = models.DifficultyMedium
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "initial_level must be Easy, Medium or Hard"})
		return
	}

	if err := h.Users.UpdateProfile(c.Request.Context(), user.ID, req.Name, level); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	user.Name = req.Name
	user.InitialLevel = level
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

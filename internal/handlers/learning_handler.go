package handlers

import (
	"errors"
	"net/http"

	"learnhub/internal/middleware"
	"learnhub/internal/models"
	"learnhub/internal/service"

	"github.com/gin-gonic/gin"
)

// LearningHandler serves the analytics and recommendation endpoints.
type LearningHandler struct {
	Analytics       *service.AnalyticsService
	Mastery         *service.MasteryService
	Recommendations *service.RecommendationService
}

func NewLearningHandler(analytics *service.AnalyticsService, mastery *service.MasteryService, recommendations *service.RecommendationService) *LearningHandler {
	return &LearningHandler{
		Analytics:       analytics,
		Mastery:         mastery,
		Recommendations: recommendations,
	}
}

func (h *LearningHandler) MasteryScores(c *gin.Context) {
	user := middleware.CurrentUser(c)
	scores, err := h.Mastery.Scores(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if scores == nil {
		scores = []models.MasteryScore{}
	}
	c.JSON(http.StatusOK, scores)
}

func (h *LearningHandler) Overview(c *gin.Context) {
	user := middleware.CurrentUser(c)
	overview, err := h.Analytics.OverallProgress(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *LearningHandler) NextVideo(c *gin.Context) {
	user := middleware.CurrentUser(c)
	recommendation, err := h.Recommendations.NextVideo(c.Request.Context(), user)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No videos available yet"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recommendation)
}

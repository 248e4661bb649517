package handlers

import (
	"errors"
	"net/http"

	"learnhub/internal/middleware"
	"learnhub/internal/models"
	"learnhub/internal/service"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	Service *service.QuizService
}

func NewQuizHandler(s *service.QuizService) *QuizHandler {
	return &QuizHandler{Service: s}
}

// GetQuizForVideo returns 404 while the quiz is still being generated or when
// generation failed for good; the client treats that as "no quiz available".
func (h *QuizHandler) GetQuizForVideo(c *gin.Context) {
	quiz, err := h.Service.GetQuizForVideo(c.Request.Context(), c.Param("video_id"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No quiz available for this video"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var submission models.QuizSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Service.Submit(c.Request.Context(), user.ID, submission)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		return
	}
	if errors.Is(err, service.ErrAnswerCountMismatch) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Answer count does not match question count"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

package handlers

import (
	"errors"
	"net/http"

	"learnhub/internal/middleware"
	"learnhub/internal/models"
	"learnhub/internal/service"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	Videos   *service.VideoService
	Progress *service.ProgressService
}

func NewVideoHandler(videos *service.VideoService, progress *service.ProgressService) *VideoHandler {
	return &VideoHandler{Videos: videos, Progress: progress}
}

// ListVideos returns all videos, optionally filtered by course_id.
func (h *VideoHandler) ListVideos(c *gin.Context) {
	videos, err := h.Videos.ListVideos(c.Request.Context(), c.Query("course_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if videos == nil {
		videos = []models.Video{}
	}
	c.JSON(http.StatusOK, videos)
}

func (h *VideoHandler) GetVideo(c *gin.Context) {
	video, err := h.Videos.GetVideo(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) UpdateProgress(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var update models.VideoProgressUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Progress.UpdateProgress(c.Request.Context(), user.ID, c.Param("id"), update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "progress updated"})
}

func (h *VideoHandler) GetProgress(c *gin.Context) {
	user := middleware.CurrentUser(c)
	progress, err := h.Progress.GetProgress(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, progress)
}

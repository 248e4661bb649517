package handlers

import (
	"errors"
	"net/http"

	"learnhub/internal/middleware"
	"learnhub/internal/models"
	"learnhub/internal/repository"
	"learnhub/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	Importer *service.ImportService
	Courses  *service.CourseService
	Jobs     *repository.JobRepository
}

func NewAdminHandler(importer *service.ImportService, courses *service.CourseService, jobs *repository.JobRepository) *AdminHandler {
	return &AdminHandler{Importer: importer, Courses: courses, Jobs: jobs}
}

type importRequest struct {
	PlaylistURL string `json:"playlist_url" binding:"required"`
	Difficulty  string `json:"difficulty"`
}

func (h *AdminHandler) ImportPlaylist(c *gin.Context) {
	admin := middleware.CurrentUser(c)

	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.Importer.ImportPlaylist(c.Request.Context(), admin, req.PlaylistURL, req.Difficulty)
	switch {
	case errors.Is(err, service.ErrInvalidPlaylistURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid playlist URL"})
	case errors.Is(err, service.ErrAlreadyImported):
		c.JSON(http.StatusConflict, gin.H{"error": "Playlist already imported"})
	case errors.Is(err, service.ErrPlaylistNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found"})
	case errors.Is(err, service.ErrPlaylistEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Playlist has no videos"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, summary)
	}
}

func (h *AdminHandler) ListCourses(c *gin.Context) {
	courses, err := h.Courses.ListCourses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if courses == nil {
		courses = []models.Course{}
	}
	c.JSON(http.StatusOK, courses)
}

// ListJobs exposes import jobs, optionally filtered by ?status=. Failed jobs
// stay visible here so operators can see what needs attention.
func (h *AdminHandler) ListJobs(c *gin.Context) {
	status := c.Query("status")
	switch status {
	case "", models.JobQueued, models.JobRunning, models.JobSucceeded, models.JobFailed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
		return
	}

	jobs, err := h.Jobs.FindByStatus(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if jobs == nil {
		jobs = []models.ImportJob{}
	}
	c.JSON(http.StatusOK, jobs)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"learnhub/internal/event"
	"learnhub/internal/metrics"
	"learnhub/internal/models"
	"learnhub/internal/queue"
	"learnhub/internal/youtube"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// PlaylistSource is the slice of the video platform the importer needs.
type PlaylistSource interface {
	PlaylistDetails(ctx context.Context, playlistID string) (*youtube.PlaylistDetails, error)
	PlaylistVideos(ctx context.Context, playlistID string) ([]youtube.PlaylistVideo, error)
	VideoDetails(ctx context.Context, videoIDs []string) (map[string]youtube.VideoDetails, error)
}

// JobEnqueuer pushes an import job onto the durable queue.
type JobEnqueuer interface {
	Enqueue(msg queue.JobMessage) error
}

type courseStore interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type videoStore interface {
	CreateMany(ctx context.Context, videos []models.Video) error
	DeleteByCourse(ctx context.Context, courseID string) error
}

type jobStore interface {
	Create(ctx context.Context, job *models.ImportJob) error
	SetStatus(ctx context.Context, id, status string, attempts int, lastErr string) error
}

type ImportSummary struct {
	CourseID       string `json:"course_id"`
	CourseTitle    string `json:"course_title"`
	VideosImported int    `json:"videos_imported"`
	QuizzesPending int    `json:"quizzes_pending"`
}

// ImportService creates the course and stub videos synchronously so the UI
// can show them immediately, then enqueues one quiz-generation job per video
// for the worker. It never blocks on quiz generation.
type ImportService struct {
	Courses  courseStore
	Videos   videoStore
	Jobs     jobStore
	Playlist PlaylistSource
	Queue    JobEnqueuer
	Events   *event.EventPublisher
}

func NewImportService(courses courseStore, videos videoStore, jobs jobStore, playlist PlaylistSource, q JobEnqueuer, events *event.EventPublisher) *ImportService {
	return &ImportService{
		Courses:  courses,
		Videos:   videos,
		Jobs:     jobs,
		Playlist: playlist,
		Queue:    q,
		Events:   events,
	}
}

func (s *ImportService) ImportPlaylist(ctx context.Context, admin *models.User, playlistURL, difficulty string) (*ImportSummary, error) {
	playlistID := youtube.ExtractPlaylistID(playlistURL)
	if playlistID == "" {
		return nil, ErrInvalidPlaylistURL
	}
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	if _, err := s.Courses.FindByID(ctx, playlistID); err == nil {
		return nil, ErrAlreadyImported
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	details, err := s.Playlist.PlaylistDetails(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist details: %w", err)
	}
	if details == nil {
		return nil, ErrPlaylistNotFound
	}

	playlistVideos, err := s.Playlist.PlaylistVideos(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist videos: %w", err)
	}
	if len(playlistVideos) == 0 {
		return nil, ErrPlaylistEmpty
	}

	videoIDs := make([]string, len(playlistVideos))
	for i, v := range playlistVideos {
		videoIDs[i] = v.VideoID
	}
	videoDetails, err := s.Playlist.VideoDetails(ctx, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video details: %w", err)
	}

	course := &models.Course{
		ID:          playlistID,
		Title:       details.Title,
		Description: details.Description,
		Difficulty:  difficulty,
		Topics:      courseTopics(playlistVideos, videoDetails),
		Thumbnail:   details.Thumbnail,
		VideoCount:  len(playlistVideos),
		Channel:     details.ChannelTitle,
		ImportedAt:  time.Now().UTC(),
		ImportedBy:  admin.ID,
	}

	videos := make([]models.Video, 0, len(playlistVideos))
	for _, pv := range playlistVideos {
		d := videoDetails[pv.VideoID]
		topics := d.Tags
		if len(topics) == 0 {
			topics = ExtractKeywords(pv.Title)
		}
		videos = append(videos, models.Video{
			ID:          pv.VideoID,
			CourseID:    playlistID,
			Title:       pv.Title,
			Description: pv.Description,
			URL:         fmt.Sprintf("https://www.youtube.com/watch?v=%s", pv.VideoID),
			Thumbnail:   pv.Thumbnail,
			Duration:    d.Duration,
			Difficulty:  ProgressiveDifficulty(pv.Position, len(playlistVideos)),
			Topics:      topics,
			Order:       pv.Position,
		})
	}

	if err := s.Courses.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	if err := s.Videos.CreateMany(ctx, videos); err != nil {
		// best-effort rollback so a retried import starts clean
		_ = s.Videos.DeleteByCourse(ctx, playlistID)
		_ = s.Courses.Delete(ctx, playlistID)
		return nil, fmt.Errorf("failed to create videos: %w", err)
	}

	pending := 0
	for _, v := range videos {
		job := &models.ImportJob{
			ID:               uuid.NewString(),
			CourseID:         playlistID,
			VideoID:          v.ID,
			TargetDifficulty: v.Difficulty,
			RequestedBy:      admin.ID,
			Status:           models.JobQueued,
			CreatedAt:        time.Now().UTC(),
			UpdatedAt:        time.Now().UTC(),
		}
		if err := s.Jobs.Create(ctx, job); err != nil {
			log.Printf("Failed to record import job for video %s: %v", v.ID, err)
			continue
		}
		if err := s.Queue.Enqueue(queue.JobMessage{JobID: job.ID, VideoID: v.ID}); err != nil {
			log.Printf("Failed to enqueue job %s: %v", job.ID, err)
			_ = s.Jobs.SetStatus(ctx, job.ID, models.JobFailed, 0, fmt.Sprintf("enqueue failed: %v", err))
			continue
		}
		pending++
	}

	metrics.ImportRequests.Inc()
	if err := s.Events.Publish(event.CourseImported, map[string]interface{}{
		"course_id":       playlistID,
		"title":           details.Title,
		"videos_imported": len(videos),
		"imported_by":     admin.ID,
	}); err != nil {
		log.Printf("Failed to publish course.imported event: %v", err)
	}

	return &ImportSummary{
		CourseID:       playlistID,
		CourseTitle:    details.Title,
		VideosImported: len(videos),
		QuizzesPending: pending,
	}, nil
}

// ProgressiveDifficulty ramps videos through the playlist: first third Easy,
// middle third Medium, last third Hard.
func ProgressiveDifficulty(position, total int) string {
	if total <= 1 {
		return models.DifficultyMedium
	}
	progress := float64(position) / float64(total-1)
	switch {
	case progress < 0.33:
		return models.DifficultyEasy
	case progress < 0.67:
		return models.DifficultyMedium
	default:
		return models.DifficultyHard
	}
}

// ExtractKeywords falls back to title words when the platform supplies no
// tags for a video.
func ExtractKeywords(title string) []string {
	var keywords []string
	for _, word := range strings.Fields(title) {
		word = strings.Trim(word, ".,:;!?()[]\"'")
		if len(word) > 3 {
			keywords = append(keywords, strings.ToUpper(word[:1])+strings.ToLower(word[1:]))
		}
		if len(keywords) == 5 {
			break
		}
	}
	if len(keywords) == 0 {
		return []string{"General"}
	}
	return keywords
}

func courseTopics(videos []youtube.PlaylistVideo, details map[string]youtube.VideoDetails) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, v := range videos {
		for _, tag := range details[v.VideoID].Tags {
			if !seen[tag] {
				seen[tag] = true
				topics = append(topics, tag)
			}
			if len(topics) == 10 {
				return topics
			}
		}
	}
	if len(topics) == 0 {
		return []string{"General"}
	}
	return topics
}

package service

import (
	"context"
	"errors"
	"log"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// CompletionBaseScore is the mastery credit for completing a video without
// taking its quiz. A real quiz score replaces it through the usual blend.
const CompletionBaseScore = 80.0

type ProgressService struct {
	Progress *repository.ProgressRepository
	Videos   *repository.VideoRepository
	Mastery  *MasteryService
}

func NewProgressService(progress *repository.ProgressRepository, videos *repository.VideoRepository, mastery *MasteryService) *ProgressService {
	return &ProgressService{Progress: progress, Videos: videos, Mastery: mastery}
}

// MergeProgress applies an update onto existing progress. watch_percentage
// and completed are both monotonic: a stale or replayed update never lowers
// the stored percentage or un-completes a video.
func MergeProgress(existing *models.VideoProgress, update models.VideoProgressUpdate, now time.Time) models.VideoProgress {
	merged := models.VideoProgress{
		WatchPercentage: update.WatchPercentage,
		Completed:       update.Completed,
		Timestamp:       now,
	}
	if existing != nil {
		merged.UserID = existing.UserID
		merged.VideoID = existing.VideoID
		if existing.WatchPercentage > merged.WatchPercentage {
			merged.WatchPercentage = existing.WatchPercentage
		}
		if existing.Completed {
			merged.Completed = true
		}
	}
	if merged.WatchPercentage < 0 {
		merged.WatchPercentage = 0
	}
	if merged.WatchPercentage > 100 {
		merged.WatchPercentage = 100
	}
	return merged
}

func (s *ProgressService) UpdateProgress(ctx context.Context, userID, videoID string, update models.VideoProgressUpdate) error {
	existing, err := s.Progress.Find(ctx, userID, videoID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	merged := MergeProgress(existing, update, time.Now().UTC())
	merged.UserID = userID
	merged.VideoID = videoID

	if err := s.Progress.Upsert(ctx, &merged); err != nil {
		return err
	}

	// First completion grants base mastery credit on the video's topics.
	if merged.Completed && (existing == nil || !existing.Completed) {
		video, err := s.Videos.FindByID(ctx, videoID)
		if err != nil {
			if !errors.Is(err, mongo.ErrNoDocuments) {
				log.Printf("Failed to load video %s for mastery update: %v", videoID, err)
			}
			return nil
		}
		if err := s.Mastery.UpdateForVideo(ctx, userID, video, CompletionBaseScore); err != nil {
			log.Printf("Failed to update mastery for video %s: %v", videoID, err)
		}
	}
	return nil
}

// GetProgress returns stored progress, or a zero record when the user has
// not watched the video yet.
func (s *ProgressService) GetProgress(ctx context.Context, userID, videoID string) (*models.VideoProgress, error) {
	progress, err := s.Progress.Find(ctx, userID, videoID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.VideoProgress{UserID: userID, VideoID: videoID}, nil
	}
	return progress, err
}

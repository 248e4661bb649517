package service

import (
	"context"

	"learnhub/internal/repository"
)

type OverallProgress struct {
	TotalVideos          int64   `json:"total_videos"`
	CompletedVideos      int     `json:"completed_videos"`
	CompletionPercentage float64 `json:"completion_percentage"`
	AverageQuizScore     float64 `json:"average_quiz_score"`
	TotalQuizzes         int     `json:"total_quizzes"`
}

type AnalyticsService struct {
	Progress *repository.ProgressRepository
	Results  *repository.ResultRepository
	Videos   *repository.VideoRepository
}

func NewAnalyticsService(progress *repository.ProgressRepository, results *repository.ResultRepository, videos *repository.VideoRepository) *AnalyticsService {
	return &AnalyticsService{Progress: progress, Results: results, Videos: videos}
}

func (s *AnalyticsService) OverallProgress(ctx context.Context, userID string) (*OverallProgress, error) {
	progressList, err := s.Progress.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed := 0
	for _, p := range progressList {
		if p.Completed {
			completed++
		}
	}

	totalVideos, err := s.Videos.Count(ctx)
	if err != nil {
		return nil, err
	}

	results, err := s.Results.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var avgScore float64
	if len(results) > 0 {
		var sum float64
		for _, r := range results {
			sum += r.Score
		}
		avgScore = sum / float64(len(results))
	}

	overall := &OverallProgress{
		TotalVideos:      totalVideos,
		CompletedVideos:  completed,
		AverageQuizScore: avgScore,
		TotalQuizzes:     len(results),
	}
	if totalVideos > 0 {
		overall.CompletionPercentage = float64(completed) / float64(totalVideos) * 100
	}
	return overall, nil
}

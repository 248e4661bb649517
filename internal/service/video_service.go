package service

import (
	"context"
	"errors"

	"learnhub/internal/models"
	"learnhub/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

type VideoService struct {
	Videos *repository.VideoRepository
}

func NewVideoService(videos *repository.VideoRepository) *VideoService {
	return &VideoService{Videos: videos}
}

func (s *VideoService) ListVideos(ctx context.Context, courseID string) ([]models.Video, error) {
	return s.Videos.FindAll(ctx, courseID)
}

func (s *VideoService) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	video, err := s.Videos.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	return video, err
}

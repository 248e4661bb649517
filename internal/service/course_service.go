package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"learnhub/internal/event"
	"learnhub/internal/models"
	"learnhub/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

type CourseService struct {
	Courses  *repository.CourseRepository
	Videos   *repository.VideoRepository
	Quizzes  *repository.QuizRepository
	Results  *repository.ResultRepository
	Progress *repository.ProgressRepository
	Jobs     *repository.JobRepository
	Events   *event.EventPublisher
}

func NewCourseService(
	courses *repository.CourseRepository,
	videos *repository.VideoRepository,
	quizzes *repository.QuizRepository,
	results *repository.ResultRepository,
	progress *repository.ProgressRepository,
	jobs *repository.JobRepository,
	events *event.EventPublisher,
) *CourseService {
	return &CourseService{
		Courses:  courses,
		Videos:   videos,
		Quizzes:  quizzes,
		Results:  results,
		Progress: progress,
		Jobs:     jobs,
		Events:   events,
	}
}

func (s *CourseService) ListCourses(ctx context.Context) ([]models.Course, error) {
	return s.Courses.FindAll(ctx)
}

func (s *CourseService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.Courses.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	return course, err
}

// DeleteCourse cascades over the course's children in a fixed order:
// quizzes, results, progress, videos, jobs, then the course itself. Each
// step deletes by filter, so children that are already gone are a no-op and
// a partially failed cascade can simply be retried.
func (s *CourseService) DeleteCourse(ctx context.Context, id string) error {
	course, err := s.Courses.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	videos, err := s.Videos.FindAll(ctx, id)
	if err != nil {
		return err
	}
	videoIDs := make([]string, len(videos))
	for i, v := range videos {
		videoIDs[i] = v.ID
	}

	if err := s.Quizzes.DeleteByVideoIDs(ctx, videoIDs); err != nil {
		return fmt.Errorf("failed to delete quizzes: %w", err)
	}
	if err := s.Results.DeleteByVideoIDs(ctx, videoIDs); err != nil {
		return fmt.Errorf("failed to delete quiz results: %w", err)
	}
	if err := s.Progress.DeleteByVideoIDs(ctx, videoIDs); err != nil {
		return fmt.Errorf("failed to delete progress: %w", err)
	}
	if err := s.Videos.DeleteByCourse(ctx, id); err != nil {
		return fmt.Errorf("failed to delete videos: %w", err)
	}
	if err := s.Jobs.DeleteByCourse(ctx, id); err != nil {
		return fmt.Errorf("failed to delete import jobs: %w", err)
	}
	if err := s.Courses.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	if err := s.Events.Publish(event.CourseDeleted, map[string]interface{}{
		"course_id": id,
		"title":     course.Title,
	}); err != nil {
		log.Printf("Failed to publish course.deleted event: %v", err)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"log"
	"time"

	"learnhub/internal/metrics"
	"learnhub/internal/models"
	"learnhub/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuizService struct {
	Quizzes *repository.QuizRepository
	Results *repository.ResultRepository
	Videos  *repository.VideoRepository
	Mastery *MasteryService
}

func NewQuizService(quizzes *repository.QuizRepository, results *repository.ResultRepository, videos *repository.VideoRepository, mastery *MasteryService) *QuizService {
	return &QuizService{Quizzes: quizzes, Results: results, Videos: videos, Mastery: mastery}
}

// Score grades submitted answer indices against the quiz questions. The
// result is 100 * correct / len(questions), always within [0, 100]; missing
// or out-of-range answers count as wrong.
func Score(questions []models.QuizQuestion, answers []int) float64 {
	if len(questions) == 0 {
		return 0
	}
	correct := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectAnswer {
			correct++
		}
	}
	return float64(correct) / float64(len(questions)) * 100
}

// GetQuizForVideo returns the quiz for a video. ErrNotFound here means "no
// quiz available" — the video stays playable, the client hides the quiz tab.
func (s *QuizService) GetQuizForVideo(ctx context.Context, videoID string) (*models.Quiz, error) {
	quiz, err := s.Quizzes.FindByVideo(ctx, videoID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	return quiz, err
}

// Submit grades a submission server-side and persists the result. The stored
// score is the only authoritative one; any client-side estimate is ignored.
func (s *QuizService) Submit(ctx context.Context, userID string, submission models.QuizSubmission) (*models.QuizResult, error) {
	quiz, err := s.Quizzes.FindByID(ctx, submission.QuizID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(submission.Answers) != len(quiz.Questions) {
		return nil, ErrAnswerCountMismatch
	}

	result := &models.QuizResult{
		ID:        uuid.NewString(),
		UserID:    userID,
		QuizID:    quiz.ID,
		VideoID:   quiz.VideoID,
		Score:     Score(quiz.Questions, submission.Answers),
		Timestamp: time.Now().UTC(),
	}
	if err := s.Results.Create(ctx, result); err != nil {
		return nil, err
	}
	metrics.QuizSubmissions.Inc()

	video, err := s.Videos.FindByID(ctx, quiz.VideoID)
	if err == nil {
		if err := s.Mastery.UpdateForVideo(ctx, userID, video, result.Score); err != nil {
			log.Printf("Failed to update mastery after quiz %s: %v", quiz.ID, err)
		}
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		log.Printf("Failed to load video %s after quiz submit: %v", quiz.VideoID, err)
	}

	return result, nil
}

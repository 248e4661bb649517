package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"learnhub/internal/event"
	"learnhub/internal/llm"
	"learnhub/internal/metrics"
	"learnhub/internal/models"
	"learnhub/internal/queue"

	"go.mongodb.org/mongo-driver/mongo"
)

// Stores and collaborators the processor needs, narrowed to what it calls.
type JobStore interface {
	FindByID(ctx context.Context, id string) (*models.ImportJob, error)
	SetStatus(ctx context.Context, id, status string, attempts int, lastErr string) error
}

type VideoStore interface {
	FindByID(ctx context.Context, id string) (*models.Video, error)
}

type QuizStore interface {
	FindByVideo(ctx context.Context, videoID string) (*models.Quiz, error)
	Upsert(ctx context.Context, quiz *models.Quiz) error
}

type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, video *models.Video, numQuestions int) ([]models.QuizQuestion, error)
}

type TranscriptFetcher interface {
	Transcript(ctx context.Context, videoID string) (string, error)
}

// ClaimStore hands out exclusive short-lived claims on job ids so two worker
// instances do not generate the same quiz concurrently. Claims are advisory;
// correctness is guaranteed by idempotent quiz creation keyed on video id.
type ClaimStore interface {
	Claim(ctx context.Context, jobID string) (bool, error)
	Release(ctx context.Context, jobID string)
}

var errClaimed = errors.New("job claimed by another worker")

// Processor drives one import job through queued -> running -> terminal.
// Rate-limited generation attempts back off exponentially up to
// MaxRateLimitAttempts; all other errors get the smaller MaxErrorAttempts
// budget. Exhausting either budget marks the job failed and leaves the video
// without a quiz, which the API surfaces as "no quiz available".
type Processor struct {
	Jobs        JobStore
	Videos      VideoStore
	Quizzes     QuizStore
	Transcripts TranscriptFetcher
	Generator   QuizGenerator
	Claims      ClaimStore
	Events      *event.EventPublisher

	QuestionCount        int
	MaxRateLimitAttempts int
	MaxErrorAttempts     int
	BaseDelay            time.Duration
	MaxDelay             time.Duration

	sleep func(time.Duration)
}

func NewProcessor(jobs JobStore, videos VideoStore, quizzes QuizStore, transcripts TranscriptFetcher, generator QuizGenerator, claims ClaimStore, events *event.EventPublisher, questionCount int) *Processor {
	return &Processor{
		Jobs:                 jobs,
		Videos:               videos,
		Quizzes:              quizzes,
		Transcripts:          transcripts,
		Generator:            generator,
		Claims:               claims,
		Events:               events,
		QuestionCount:        questionCount,
		MaxRateLimitAttempts: 5,
		MaxErrorAttempts:     3,
		BaseDelay:            time.Second,
		MaxDelay:             30 * time.Second,
		sleep:                time.Sleep,
	}
}

// Backoff returns the delay before the next attempt: base doubling per
// attempt, capped at max. attempt is 1-based.
func Backoff(base, max time.Duration, attempt int) time.Duration {
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}
	if d > max {
		return max
	}
	return d
}

// Process handles one delivered job message. A non-nil return means the
// message should be redelivered (infrastructure trouble); job-level outcomes
// are written to the job record and return nil so the delivery is acked.
func (p *Processor) Process(ctx context.Context, msg queue.JobMessage) error {
	job, err := p.Jobs.FindByID(ctx, msg.JobID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Job record gone: its course was deleted mid-import. Drop the work.
		log.Printf("Job %s no longer exists, discarding", msg.JobID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load job %s: %w", msg.JobID, err)
	}
	if job.IsTerminal() {
		// At-least-once delivery replayed a finished job.
		log.Printf("Job %s already %s, skipping", job.ID, job.Status)
		return nil
	}

	claimed, err := p.Claims.Claim(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("failed to claim job %s: %w", job.ID, err)
	}
	if !claimed {
		return errClaimed
	}
	defer p.Claims.Release(ctx, job.ID)

	// Idempotent completion: a quiz already written for this video means a
	// previous delivery got all the way through before its ack was lost.
	if quiz, err := p.Quizzes.FindByVideo(ctx, job.VideoID); err == nil && quiz != nil {
		log.Printf("Quiz already exists for video %s, marking job %s succeeded", job.VideoID, job.ID)
		return p.Jobs.SetStatus(ctx, job.ID, models.JobSucceeded, job.AttemptCount, "")
	} else if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to check existing quiz: %w", err)
	}

	video, err := p.Videos.FindByID(ctx, job.VideoID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		log.Printf("Video %s deleted before job %s ran, discarding", job.VideoID, job.ID)
		return p.Jobs.SetStatus(ctx, job.ID, models.JobFailed, job.AttemptCount, "video no longer exists")
	}
	if err != nil {
		return fmt.Errorf("failed to load video %s: %w", job.VideoID, err)
	}

	if err := p.Jobs.SetStatus(ctx, job.ID, models.JobRunning, job.AttemptCount, ""); err != nil {
		return fmt.Errorf("failed to mark job %s running: %w", job.ID, err)
	}

	if video.Transcript == "" {
		transcript, err := p.Transcripts.Transcript(ctx, video.ID)
		if err != nil {
			log.Printf("Transcript fetch failed for %s, falling back to description: %v", video.ID, err)
		} else {
			video.Transcript = transcript
		}
	}

	return p.generate(ctx, job, video)
}

func (p *Processor) generate(ctx context.Context, job *models.ImportJob, video *models.Video) error {
	attempts := job.AttemptCount
	for {
		attempts++
		questions, err := p.Generator.GenerateQuiz(ctx, video, p.QuestionCount)
		if err == nil {
			return p.persist(ctx, job, video, questions, attempts)
		}

		if errors.Is(err, llm.ErrRateLimited) {
			if attempts >= p.MaxRateLimitAttempts {
				return p.fail(ctx, job, attempts, err)
			}
			delay := Backoff(p.BaseDelay, p.MaxDelay, attempts)
			log.Printf("Job %s rate limited, retrying in %s (attempt %d/%d)", job.ID, delay, attempts, p.MaxRateLimitAttempts)
			metrics.GenerationRetries.Inc()
			p.sleep(delay)
			continue
		}

		if attempts >= p.MaxErrorAttempts {
			return p.fail(ctx, job, attempts, err)
		}
		log.Printf("Job %s attempt %d failed: %v, retrying", job.ID, attempts, err)
		metrics.GenerationRetries.Inc()
		p.sleep(p.BaseDelay)
	}
}

func (p *Processor) persist(ctx context.Context, job *models.ImportJob, video *models.Video, questions []models.QuizQuestion, attempts int) error {
	// The course may have been deleted while generation was in flight.
	// Writing the quiz now would resurrect deleted content, so re-check and
	// discard instead.
	if _, err := p.Videos.FindByID(ctx, video.ID); errors.Is(err, mongo.ErrNoDocuments) {
		log.Printf("Video %s deleted during job %s, discarding generated quiz", video.ID, job.ID)
		if err := p.Jobs.SetStatus(ctx, job.ID, models.JobFailed, attempts, "video deleted during generation"); err != nil {
			log.Printf("Failed to record discarded job %s: %v", job.ID, err)
		}
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to re-check video %s: %w", video.ID, err)
	}

	quiz := &models.Quiz{
		ID:          fmt.Sprintf("quiz-%s", video.ID),
		VideoID:     video.ID,
		Questions:   questions,
		GeneratedAt: time.Now().UTC(),
	}
	if err := p.Quizzes.Upsert(ctx, quiz); err != nil {
		return fmt.Errorf("failed to persist quiz for video %s: %w", video.ID, err)
	}
	if err := p.Jobs.SetStatus(ctx, job.ID, models.JobSucceeded, attempts, ""); err != nil {
		return fmt.Errorf("failed to mark job %s succeeded: %w", job.ID, err)
	}

	metrics.JobsProcessed.WithLabelValues(models.JobSucceeded).Inc()
	if err := p.Events.Publish(event.QuizGenerated, map[string]interface{}{
		"job_id":    job.ID,
		"video_id":  video.ID,
		"questions": len(questions),
	}); err != nil {
		log.Printf("Failed to publish quiz.generated event: %v", err)
	}
	log.Printf("Quiz generated for video %s (%d questions, %d attempts)", video.ID, len(questions), attempts)
	return nil
}

// fail records a terminal failure. Failed jobs stay queryable for operators;
// the video remains playable without a quiz.
func (p *Processor) fail(ctx context.Context, job *models.ImportJob, attempts int, cause error) error {
	if err := p.Jobs.SetStatus(ctx, job.ID, models.JobFailed, attempts, cause.Error()); err != nil {
		return fmt.Errorf("failed to mark job %s failed: %w", job.ID, err)
	}
	metrics.JobsProcessed.WithLabelValues(models.JobFailed).Inc()
	if err := p.Events.Publish(event.JobFailed, map[string]interface{}{
		"job_id":   job.ID,
		"video_id": job.VideoID,
		"attempts": attempts,
		"error":    cause.Error(),
	}); err != nil {
		log.Printf("Failed to publish import.job.failed event: %v", err)
	}
	log.Printf("Job %s failed after %d attempts: %v", job.ID, attempts, cause)
	return nil
}

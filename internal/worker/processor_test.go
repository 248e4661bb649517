package worker

import (
	"context"
	"testing"
	"time"

	"learnhub/internal/llm"
	"learnhub/internal/models"
	"learnhub/internal/queue"

	"go.mongodb.org/mongo-driver/mongo"
)

type fakeJobs struct {
	jobs     map[string]*models.ImportJob
	statuses []string
	lastErr  string
	attempts int
}

func newFakeJobs(jobs ...*models.ImportJob) *fakeJobs {
	f := &fakeJobs{jobs: make(map[string]*models.ImportJob)}
	for _, j := range jobs {
		f.jobs[j.ID] = j
	}
	return f
}

func (f *fakeJobs) FindByID(_ context.Context, id string) (*models.ImportJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *job
	return &copied, nil
}

func (f *fakeJobs) SetStatus(_ context.Context, id, status string, attempts int, lastErr string) error {
	f.statuses = append(f.statuses, status)
	f.lastErr = lastErr
	f.attempts = attempts
	if job, ok := f.jobs[id]; ok {
		job.Status = status
		job.AttemptCount = attempts
		job.LastError = lastErr
	}
	return nil
}

func (f *fakeJobs) finalStatus() string {
	if len(f.statuses) == 0 {
		return ""
	}
	return f.statuses[len(f.statuses)-1]
}

type fakeVideos struct {
	videos map[string]*models.Video
}

func (f *fakeVideos) FindByID(_ context.Context, id string) (*models.Video, error) {
	v, ok := f.videos[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *v
	return &copied, nil
}

type fakeQuizzes struct {
	byVideo map[string]*models.Quiz
}

func newFakeQuizzes() *fakeQuizzes {
	return &fakeQuizzes{byVideo: make(map[string]*models.Quiz)}
}

func (f *fakeQuizzes) FindByVideo(_ context.Context, videoID string) (*models.Quiz, error) {
	q, ok := f.byVideo[videoID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return q, nil
}

func (f *fakeQuizzes) Upsert(_ context.Context, quiz *models.Quiz) error {
	f.byVideo[quiz.VideoID] = quiz
	return nil
}

// fakeGenerator returns the scripted errors in order, then succeeds.
type fakeGenerator struct {
	errs  []error
	calls int
}

func (f *fakeGenerator) GenerateQuiz(_ context.Context, _ *models.Video, n int) ([]models.QuizQuestion, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	questions := make([]models.QuizQuestion, n)
	for i := range questions {
		questions[i] = models.QuizQuestion{
			Question:      "Q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 0,
		}
	}
	return questions, nil
}

type fakeTranscripts struct {
	text string
	err  error
}

func (f *fakeTranscripts) Transcript(_ context.Context, _ string) (string, error) {
	return f.text, f.err
}

type fakeClaims struct {
	denied   bool
	released int
}

func (f *fakeClaims) Claim(_ context.Context, _ string) (bool, error) {
	return !f.denied, nil
}

func (f *fakeClaims) Release(_ context.Context, _ string) {
	f.released++
}

func queuedJob() *models.ImportJob {
	return &models.ImportJob{
		ID:       "job-1",
		CourseID: "course-1",
		VideoID:  "video-1",
		Status:   models.JobQueued,
	}
}

func testVideo() *models.Video {
	return &models.Video{
		ID:       "video-1",
		CourseID: "course-1",
		Title:    "Goroutines explained",
		Topics:   []string{"Concurrency"},
	}
}

func testProcessor(jobs *fakeJobs, videos *fakeVideos, quizzes *fakeQuizzes, gen *fakeGenerator) (*Processor, *[]time.Duration) {
	var slept []time.Duration
	p := NewProcessor(jobs, videos, quizzes, &fakeTranscripts{text: "transcript"}, gen, &fakeClaims{}, nil, 4)
	p.sleep = func(d time.Duration) { slept = append(slept, d) }
	return p, &slept
}

func TestProcessHappyPath(t *testing.T) {
	jobs := newFakeJobs(queuedJob())
	videos := &fakeVideos{videos: map[string]*models.Video{"video-1": testVideo()}}
	quizzes := newFakeQuizzes()
	gen := &fakeGenerator{}
	p, _ := testProcessor(jobs, videos, quizzes, gen)

	if err := p.Process(context.Background(), queue.JobMessage{JobID: "job-1", VideoID: "video-1"}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if jobs.finalStatus() != models.JobSucceeded {
		t.Errorf("Expected job succeeded, got %s", jobs.finalStatus())
	}
	quiz := quizzes.byVideo["video-1"]
	if quiz == nil {
		t.Fatal("Expected quiz to be persisted")
	}
	if quiz.ID != "quiz-video-1" {
		t.Errorf("Expected quiz id quiz-video-1, got %s", quiz.ID)
	}
	if len(quiz.Questions) != 4 {
		t.Errorf("Expected 4 questions, got %d", len(quiz.Questions))
	}
}

func TestProcessRateLimitRetriesWithBackoff(t *testing.T) {
	jobs := newFakeJobs(queuedJob())
	videos := &fakeVideos{videos: map[string]*models.Video{"video-1": testVideo()}}
	quizzes := newFakeQuizzes()
	gen := &fakeGenerator{errs: []error{llm.ErrRateLimited, llm.ErrRateLimited}}
	p, slept := testProcessor(jobs, videos, quizzes, gen)

	if err := p.Process(context.Background(), queue.JobMessage{JobID: "job-1", VideoID: "video-1"}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if jobs.finalStatus() != models.JobSucceeded {
		t.Errorf("Expected job succeeded after retries, got %s", jobs.finalStatus())
	}
	if gen.calls != 3 {
		t.Errorf("Expected 3 generation attempts, got %d", gen.calls)
	}
	if len(*slept) != 2 {
		t.Fatalf("Expected 2 backoff sleeps, got %d", len(*slept))
	}
	if (*slept)[0] != time.Second || (*slept)[1] != 2*time.Second {
		t.Errorf("Expected doubling backoff 1s then 2s, got %v", *slept)
	}
}

func TestProcessRateLimitExhaustsAttempts(t *testing.T) {
	jobs := newFakeJobs(queuedJob())
	videos := &fakeVideos{videos: map[string]*models.Video{"video-1": testVideo()}}
	quizzes := newFakeQuizzes()
	gen := &fakeGenerator{errs: []error{
		llm.ErrRateLimited, llm.ErrRateLimited, llm.ErrRateLimited, llm.ErrRateLimited, llm.ErrRateLimited,
	}}
	p, _ := testProcessor(jobs, videos, quizzes, gen)

	if err := p.Process(context.Background(), queue.JobMessage{JobID: "job-1", VideoID: "video-1"}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if jobs.finalStatus() != models.JobFailed {
		t.Errorf("Expected job failed after exhausting attempts, got %s", jobs.finalStatus())
	}
	if gen.calls != 5 {
		t.Errorf("Expected 5 attempts, got %d", gen.calls)
	}
	if jobs.lastErr == "" {
		t.Error("Expected last_error to be recorded")
	}
	if quizzes.byVideo["video-1"] != nil {
		t.Error("Failed job must not leave a quiz behind")
	}
}

func TestProcessInvalidResponseUsesSmallerBudget(t *testing.T) {
	jobs := newFakeJobs(queuedJob())
	videos := &fakeVideos{videos: map[string]*models.Video{"video-1": testVideo()}}
	quizzes := newFakeQuizzes()
	gen := &fakeGenerator{errs: []error{llm.ErrInvalidResponse, llm.ErrInvalidResponse, llm.ErrInvalidResponse}}
	p, _ := testProcessor(jobs, videos, quizzes, gen)

	if err := p.Process(context.Background(), queue.JobMessage{JobID: "job-1", VideoID: "video-1"}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if jobs.finalStatus() != models.JobFailed {
		t.Errorf("Expected job failed, got %s", jobs.finalStatus())
	}
	if gen.calls != 3 {
		t.Errorf("Expected 3 attempts for non-rate-limit errors, got %d", gen.calls)
	}
}

func TestProcessExistingQuizIsIdempotent(t *testing.T) {
	jobs := newFakeJobs(queuedJob())
	videos := &fakeVideos{videos: map[string]*models.Video{"video-1": testVideo()}}
	quizzes := newFakeQuizzes()
	quizzes.byVideo["video-1"] = &models.Quiz{ID: "quiz-video-1", VideoID: "video-1"}
	gen := &fakeGenerator{}
	p, _ := testProcessor(jobs, videos, quizzes, gen)

	if err := p.Process(context.Background(), queue.JobMessage{JobID: "job-1", VideoID: "video-1"}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if gen.calls != 0 {
		t.Errorf("Expected no generation for existing quiz, got %d calls", gen.calls)
	}
	if jobs.finalStatus() != models.JobSucceeded {
		t.Errorf("Expected job marked succeeded, got %s", jobs.finalStatus())
	}
}

func TestProcessTerminalJobNoOps(t *testing.T) {
	done := queuedJob()
	done.Status = models.JobSucceeded
	jobs := newFakeJobs(done)
	gen := &fakeGenerator{}
	p, _ := testProcessor(jobs, &fakeVideos{}, newFakeQuizzes(), gen)

	if err := p.Process(context.Background(), queue.JobMessage{JobID: "job-1", VideoID: "video-1"}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if gen.calls != 0 {
		t.Error("Terminal job must not trigger generation")
	}
	if len(jobs.statuses) != 0 {
		t.Errorf("Terminal job must not change status, got %v", jobs.statuses)
	}
}

func TestProcessMissingJobDiscards(t *testing.T) {
	jobs := newFakeJobs()
	p, _ := testProcessor(jobs, &fakeVideos{}, newFakeQuizzes(), &fakeGenerator{})

	if err := p.Process(context.Background(), queue.JobMessage{JobID: "gone", VideoID: "video-1"}); err != nil {
		t.Fatalf("Expected missing job to be discarded, got %v", err)
	}
}

func TestProcessDeletedVideoDiscards(t *testing.T) {
	jobs := newFakeJobs(queuedJob())
	videos := &fakeVideos{videos: map[string]*models.Video{}}
	gen := &fakeGenerator{}
	p, _ := testProcessor(jobs, videos, newFakeQuizzes(), gen)

	if err := p.Process(context.Background(), queue.JobMessage{JobID: "job-1", VideoID: "video-1"}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if gen.calls != 0 {
		t.Error("Deleted video must not trigger generation")
	}
	if jobs.finalStatus() != models.JobFailed {
		t.Errorf("Expected job failed for deleted video, got %s", jobs.finalStatus())
	}
}

func TestProcessVideoDeletedDuringGenerationDiscardsQuiz(t *testing.T) {
	jobs := newFakeJobs(queuedJob())
	videos := &fakeVideos{videos: map[string]*models.Video{"video-1": testVideo()}}
	quizzes := newFakeQuizzes()
	gen := &fakeGenerator{}
	p, _ := testProcessor(jobs, videos, quizzes, gen)

	// Simulate a course delete racing the generation call.
	gen.errs = []error{llm.ErrRateLimited}
	p.sleep = func(time.Duration) { delete(videos.videos, "video-1") }

	if err := p.Process(context.Background(), queue.JobMessage{JobID: "job-1", VideoID: "video-1"}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if quizzes.byVideo["video-1"] != nil {
		t.Error("Quiz must not be persisted for a deleted video")
	}
	if jobs.finalStatus() != models.JobFailed {
		t.Errorf("Expected job failed after mid-flight delete, got %s", jobs.finalStatus())
	}
}

func TestProcessClaimDeniedRequeues(t *testing.T) {
	jobs := newFakeJobs(queuedJob())
	p, _ := testProcessor(jobs, &fakeVideos{}, newFakeQuizzes(), &fakeGenerator{})
	p.Claims = &fakeClaims{denied: true}

	if err := p.Process(context.Background(), queue.JobMessage{JobID: "job-1", VideoID: "video-1"}); err == nil {
		t.Error("Expected error so the delivery is requeued when another worker holds the claim")
	}
}

func TestBackoff(t *testing.T) {
	testCases := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{6, 30 * time.Second}, // capped
		{10, 30 * time.Second},
	}

	for _, tc := range testCases {
		if got := Backoff(time.Second, 30*time.Second, tc.attempt); got != tc.expected {
			t.Errorf("Backoff attempt %d: expected %v, got %v", tc.attempt, got, tc.expected)
		}
	}
}

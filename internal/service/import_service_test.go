package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"learnhub/internal/models"
	"learnhub/internal/queue"
	"learnhub/internal/youtube"

	"go.mongodb.org/mongo-driver/mongo"
)

type fakeCourseStore struct {
	courses map[string]*models.Course
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: make(map[string]*models.Course)}
}

func (f *fakeCourseStore) FindByID(_ context.Context, id string) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeCourseStore) Create(_ context.Context, course *models.Course) error {
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseStore) Delete(_ context.Context, id string) error {
	delete(f.courses, id)
	return nil
}

type fakeVideoStore struct {
	videos    []models.Video
	createErr error
}

func (f *fakeVideoStore) CreateMany(_ context.Context, videos []models.Video) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.videos = append(f.videos, videos...)
	return nil
}

func (f *fakeVideoStore) DeleteByCourse(_ context.Context, courseID string) error {
	var kept []models.Video
	for _, v := range f.videos {
		if v.CourseID != courseID {
			kept = append(kept, v)
		}
	}
	f.videos = kept
	return nil
}

type fakeJobStore struct {
	jobs     []*models.ImportJob
	statuses map[string]string
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{statuses: make(map[string]string)}
}

func (f *fakeJobStore) Create(_ context.Context, job *models.ImportJob) error {
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeJobStore) SetStatus(_ context.Context, id, status string, _ int, _ string) error {
	f.statuses[id] = status
	return nil
}

type fakePlaylist struct {
	details *youtube.PlaylistDetails
	videos  []youtube.PlaylistVideo
}

func (f *fakePlaylist) PlaylistDetails(_ context.Context, _ string) (*youtube.PlaylistDetails, error) {
	return f.details, nil
}

func (f *fakePlaylist) PlaylistVideos(_ context.Context, _ string) ([]youtube.PlaylistVideo, error) {
	return f.videos, nil
}

func (f *fakePlaylist) VideoDetails(_ context.Context, ids []string) (map[string]youtube.VideoDetails, error) {
	details := make(map[string]youtube.VideoDetails, len(ids))
	for _, id := range ids {
		details[id] = youtube.VideoDetails{Duration: 300, Tags: []string{"Go"}}
	}
	return details, nil
}

type fakeQueue struct {
	enqueued []queue.JobMessage
	failFrom int // fail every enqueue once len(enqueued) reaches this, -1 disables
}

func (f *fakeQueue) Enqueue(msg queue.JobMessage) error {
	if f.failFrom >= 0 && len(f.enqueued) >= f.failFrom {
		return errors.New("broker unavailable")
	}
	f.enqueued = append(f.enqueued, msg)
	return nil
}

func testImportService(courses *fakeCourseStore, videos *fakeVideoStore, jobs *fakeJobStore, playlist *fakePlaylist, q *fakeQueue) *ImportService {
	return NewImportService(courses, videos, jobs, playlist, q, nil)
}

func playlistOf(n int) *fakePlaylist {
	videos := make([]youtube.PlaylistVideo, n)
	for i := range videos {
		videos[i] = youtube.PlaylistVideo{
			VideoID:  fmt.Sprintf("vid-%d", i),
			Title:    fmt.Sprintf("Lesson %d", i),
			Position: i,
		}
	}
	return &fakePlaylist{
		details: &youtube.PlaylistDetails{Title: "Go Basics", ChannelTitle: "GoChannel"},
		videos:  videos,
	}
}

const playlistURL = "https://www.youtube.com/playlist?list=PLtest123"

func TestImportPlaylist(t *testing.T) {
	courses := newFakeCourseStore()
	videos := &fakeVideoStore{}
	jobs := newFakeJobStore()
	q := &fakeQueue{failFrom: -1}
	svc := testImportService(courses, videos, jobs, playlistOf(6), q)

	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	summary, err := svc.ImportPlaylist(context.Background(), admin, playlistURL, "")
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if summary.VideosImported != 6 {
		t.Errorf("Expected 6 videos imported, got %d", summary.VideosImported)
	}
	if summary.QuizzesPending != 6 {
		t.Errorf("Expected 6 quizzes pending, got %d", summary.QuizzesPending)
	}
	if summary.CourseID != "PLtest123" {
		t.Errorf("Expected course id PLtest123, got %s", summary.CourseID)
	}
	if len(videos.videos) != 6 {
		t.Fatalf("Expected 6 stored videos, got %d", len(videos.videos))
	}
	if len(q.enqueued) != 6 {
		t.Errorf("Expected 6 enqueued jobs, got %d", len(q.enqueued))
	}
	for _, job := range jobs.jobs {
		if job.Status != models.JobQueued {
			t.Errorf("Expected job %s queued, got %s", job.ID, job.Status)
		}
	}
}

func TestImportPlaylistProgressiveDifficultyAssigned(t *testing.T) {
	courses := newFakeCourseStore()
	videos := &fakeVideoStore{}
	svc := testImportService(courses, videos, newFakeJobStore(), playlistOf(6), &fakeQueue{failFrom: -1})

	_, err := svc.ImportPlaylist(context.Background(), &models.User{ID: "a"}, playlistURL, "")
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if videos.videos[0].Difficulty != models.DifficultyEasy {
		t.Errorf("Expected first video Easy, got %s", videos.videos[0].Difficulty)
	}
	if videos.videos[5].Difficulty != models.DifficultyHard {
		t.Errorf("Expected last video Hard, got %s", videos.videos[5].Difficulty)
	}
}

func TestImportPlaylistInvalidURL(t *testing.T) {
	svc := testImportService(newFakeCourseStore(), &fakeVideoStore{}, newFakeJobStore(), playlistOf(1), &fakeQueue{failFrom: -1})

	_, err := svc.ImportPlaylist(context.Background(), &models.User{ID: "a"}, "https://example.com/nothing", "")
	if !errors.Is(err, ErrInvalidPlaylistURL) {
		t.Errorf("Expected ErrInvalidPlaylistURL, got %v", err)
	}
}

func TestImportPlaylistAlreadyImported(t *testing.T) {
	courses := newFakeCourseStore()
	courses.courses["PLtest123"] = &models.Course{ID: "PLtest123"}
	svc := testImportService(courses, &fakeVideoStore{}, newFakeJobStore(), playlistOf(3), &fakeQueue{failFrom: -1})

	_, err := svc.ImportPlaylist(context.Background(), &models.User{ID: "a"}, playlistURL, "")
	if !errors.Is(err, ErrAlreadyImported) {
		t.Errorf("Expected ErrAlreadyImported, got %v", err)
	}
}

func TestImportPlaylistNotFound(t *testing.T) {
	svc := testImportService(newFakeCourseStore(), &fakeVideoStore{}, newFakeJobStore(), &fakePlaylist{details: nil}, &fakeQueue{failFrom: -1})

	_, err := svc.ImportPlaylist(context.Background(), &models.User{ID: "a"}, playlistURL, "")
	if !errors.Is(err, ErrPlaylistNotFound) {
		t.Errorf("Expected ErrPlaylistNotFound, got %v", err)
	}
}

func TestImportPlaylistEmpty(t *testing.T) {
	playlist := &fakePlaylist{details: &youtube.PlaylistDetails{Title: "Empty"}}
	svc := testImportService(newFakeCourseStore(), &fakeVideoStore{}, newFakeJobStore(), playlist, &fakeQueue{failFrom: -1})

	_, err := svc.ImportPlaylist(context.Background(), &models.User{ID: "a"}, playlistURL, "")
	if !errors.Is(err, ErrPlaylistEmpty) {
		t.Errorf("Expected ErrPlaylistEmpty, got %v", err)
	}
}

func TestImportPlaylistEnqueueFailureMarksJobFailed(t *testing.T) {
	jobs := newFakeJobStore()
	q := &fakeQueue{failFrom: 2} // first two enqueues succeed, the rest fail
	svc := testImportService(newFakeCourseStore(), &fakeVideoStore{}, jobs, playlistOf(4), q)

	summary, err := svc.ImportPlaylist(context.Background(), &models.User{ID: "a"}, playlistURL, "")
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if summary.QuizzesPending != 2 {
		t.Errorf("Expected 2 quizzes pending, got %d", summary.QuizzesPending)
	}
	failed := 0
	for _, status := range jobs.statuses {
		if status == models.JobFailed {
			failed++
		}
	}
	if failed != 2 {
		t.Errorf("Expected 2 jobs marked failed, got %d", failed)
	}
}

func TestImportPlaylistRollsBackOnVideoError(t *testing.T) {
	courses := newFakeCourseStore()
	videos := &fakeVideoStore{createErr: errors.New("write failed")}
	svc := testImportService(courses, videos, newFakeJobStore(), playlistOf(3), &fakeQueue{failFrom: -1})

	_, err := svc.ImportPlaylist(context.Background(), &models.User{ID: "a"}, playlistURL, "")
	if err == nil {
		t.Fatal("Expected error when video insert fails")
	}
	if len(courses.courses) != 0 {
		t.Error("Expected course rollback after video insert failure")
	}
}

func TestProgressiveDifficulty(t *testing.T) {
	testCases := []struct {
		name     string
		position int
		total    int
		expected string
	}{
		{"first of ten", 0, 10, models.DifficultyEasy},
		{"middle of ten", 5, 10, models.DifficultyMedium},
		{"last of ten", 9, 10, models.DifficultyHard},
		{"single video", 0, 1, models.DifficultyMedium},
		{"first of three", 0, 3, models.DifficultyEasy},
		{"second of three", 1, 3, models.DifficultyMedium},
		{"third of three", 2, 3, models.DifficultyHard},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ProgressiveDifficulty(tc.position, tc.total); got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	testCases := []struct {
		name     string
		title    string
		expected []string
	}{
		{"plain title", "Learn Golang Concurrency Patterns", []string{"Learn", "Golang", "Concurrency", "Patterns"}},
		{"short words dropped", "Go in an hour", []string{"Hour"}},
		{"punctuation trimmed", "Channels, Goroutines & Select!", []string{"Channels", "Goroutines", "Select"}},
		{"empty title falls back", "", []string{"General"}},
		{"capped at five", "Understanding Kubernetes Operators Deployments Services Ingress Volumes", []string{"Understanding", "Kubernetes", "Operators", "Deployments", "Services"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractKeywords(tc.title)
			if len(got) != len(tc.expected) {
				t.Fatalf("Expected %v, got %v", tc.expected, got)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("Expected keyword %q at %d, got %q", tc.expected[i], i, got[i])
				}
			}
		})
	}
}

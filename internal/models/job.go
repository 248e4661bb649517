package models

import "time"

// ImportJob states. A job moves queued -> running -> succeeded|failed.
// Terminal states are never left once entered.
const (
	JobQueued    = "queued"
	JobRunning   = "running"
	JobSucceeded = "succeeded"
	JobFailed    = "failed"
)

// ImportJob is one unit of asynchronous quiz generation work, covering a
// single video of an imported playlist.
type ImportJob struct {
	ID               string    `bson:"id" json:"id"`
	CourseID         string    `bson:"course_id" json:"course_id"`
	VideoID          string    `bson:"video_id" json:"video_id"`
	TargetDifficulty string    `bson:"target_difficulty" json:"target_difficulty"`
	RequestedBy      string    `bson:"requested_by" json:"requested_by"`
	Status           string    `bson:"status" json:"status"`
	AttemptCount     int       `bson:"attempt_count" json:"attempt_count"`
	LastError        string    `bson:"last_error,omitempty" json:"last_error,omitempty"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}

func (j *ImportJob) IsTerminal() bool {
	return j.Status == JobSucceeded || j.Status == JobFailed
}

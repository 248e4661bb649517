package models

import "time"

type QuizQuestion struct {
	Question      string   `bson:"question" json:"question"`
	Options       []string `bson:"options" json:"options"`
	CorrectAnswer int      `bson:"correct_answer" json:"correct_answer"`
}

type Quiz struct {
	ID          string         `bson:"id" json:"id"`
	VideoID     string         `bson:"video_id" json:"video_id"`
	Questions   []QuizQuestion `bson:"questions" json:"questions"`
	GeneratedAt time.Time      `bson:"generated_at" json:"generated_at"`
}

type QuizSubmission struct {
	QuizID  string `json:"quiz_id" binding:"required"`
	Answers []int  `json:"answers" binding:"required"`
}

type QuizResult struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	QuizID    string    `bson:"quiz_id" json:"quiz_id"`
	VideoID   string    `bson:"video_id" json:"video_id"`
	Score     float64   `bson:"score" json:"score"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

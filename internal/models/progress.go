package models

import "time"

type VideoProgress struct {
	UserID          string    `bson:"user_id" json:"user_id"`
	VideoID         string    `bson:"video_id" json:"video_id"`
	WatchPercentage float64   `bson:"watch_percentage" json:"watch_percentage"`
	Completed       bool      `bson:"completed" json:"completed"`
	Timestamp       time.Time `bson:"timestamp" json:"timestamp"`
}

type VideoProgressUpdate struct {
	WatchPercentage float64 `json:"watch_percentage"`
	Completed       bool    `json:"completed"`
}

type MasteryScore struct {
	UserID    string    `bson:"user_id" json:"user_id"`
	Topic     string    `bson:"topic" json:"topic"`
	Score     float64   `bson:"score" json:"score"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

package models

import "time"

type Course struct {
	ID          string    `bson:"id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Difficulty  string    `bson:"difficulty" json:"difficulty"`
	Topics      []string  `bson:"topics" json:"topics"`
	Thumbnail   string    `bson:"thumbnail" json:"thumbnail"`
	VideoCount  int       `bson:"video_count" json:"video_count"`
	Channel     string    `bson:"channel" json:"channel"`
	ImportedAt  time.Time `bson:"imported_at" json:"imported_at"`
	ImportedBy  string    `bson:"imported_by" json:"imported_by"`
}

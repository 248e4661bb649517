package repository

import (
	"context"

	"learnhub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type QuizRepository struct {
	Col *mongo.Collection
}

func NewQuizRepository(db *mongo.Database) *QuizRepository {
	return &QuizRepository{Col: db.Collection("quizzes")}
}

func (r *QuizRepository) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.Col.FindOne(ctx, bson.M{"id": id}).Decode(&quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByVideo(ctx context.Context, videoID string) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.Col.FindOne(ctx, bson.M{"video_id": videoID}).Decode(&quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// Upsert writes the whole quiz keyed by video_id, so re-processing a job that
// already produced a quiz overwrites in place instead of duplicating.
func (r *QuizRepository) Upsert(ctx context.Context, quiz *models.Quiz) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"video_id": quiz.VideoID},
		bson.M{"$set": quiz},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *QuizRepository) DeleteByVideoIDs(ctx context.Context, videoIDs []string) error {
	if len(videoIDs) == 0 {
		return nil
	}
	_, err := r.Col.DeleteMany(ctx, bson.M{"video_id": bson.M{"$in": videoIDs}})
	return err
}

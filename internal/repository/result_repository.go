package repository

import (
	"context"

	"learnhub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ResultRepository struct {
	Col *mongo.Collection
}

func NewResultRepository(db *mongo.Database) *ResultRepository {
	return &ResultRepository{Col: db.Collection("quiz_results")}
}

func (r *ResultRepository) FindByUser(ctx context.Context, userID string) ([]models.QuizResult, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var results []models.QuizResult
	for cur.Next(ctx) {
		var res models.QuizResult
		if err := cur.Decode(&res); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, cur.Err()
}

func (r *ResultRepository) Create(ctx context.Context, result *models.QuizResult) error {
	_, err := r.Col.InsertOne(ctx, result)
	return err
}

func (r *ResultRepository) DeleteByVideoIDs(ctx context.Context, videoIDs []string) error {
	if len(videoIDs) == 0 {
		return nil
	}
	_, err := r.Col.DeleteMany(ctx, bson.M{"video_id": bson.M{"$in": videoIDs}})
	return err
}

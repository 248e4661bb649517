package repository

import (
	"context"

	"learnhub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MasteryRepository struct {
	Col *mongo.Collection
}

func NewMasteryRepository(db *mongo.Database) *MasteryRepository {
	return &MasteryRepository{Col: db.Collection("mastery_scores")}
}

func (r *MasteryRepository) Find(ctx context.Context, userID, topic string) (*models.MasteryScore, error) {
	var score models.MasteryScore
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "topic": topic}).Decode(&score)
	if err != nil {
		return nil, err
	}
	return &score, nil
}

func (r *MasteryRepository) FindByUser(ctx context.Context, userID string) ([]models.MasteryScore, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var scores []models.MasteryScore
	for cur.Next(ctx) {
		var s models.MasteryScore
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, cur.Err()
}

func (r *MasteryRepository) Upsert(ctx context.Context, score *models.MasteryScore) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"user_id": score.UserID, "topic": score.Topic},
		bson.M{"$set": score},
		options.Update().SetUpsert(true),
	)
	return err
}

package repository

import (
	"context"

	"learnhub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type VideoRepository struct {
	Col *mongo.Collection
}

func NewVideoRepository(db *mongo.Database) *VideoRepository {
	return &VideoRepository{Col: db.Collection("videos")}
}

func (r *VideoRepository) FindAll(ctx context.Context, courseID string) ([]models.Video, error) {
	filter := bson.M{}
	if courseID != "" {
		filter["course_id"] = courseID
	}
	cur, err := r.Col.Find(ctx, filter, options.Find().SetSort(bson.M{"order": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var videos []models.Video
	for cur.Next(ctx) {
		var v models.Video
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, cur.Err()
}

func (r *VideoRepository) FindByID(ctx context.Context, id string) (*models.Video, error) {
	var video models.Video
	if err := r.Col.FindOne(ctx, bson.M{"id": id}).Decode(&video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *VideoRepository) CreateMany(ctx context.Context, videos []models.Video) error {
	if len(videos) == 0 {
		return nil
	}
	docs := make([]interface{}, len(videos))
	for i := range videos {
		docs[i] = videos[i]
	}
	_, err := r.Col.InsertMany(ctx, docs)
	return err
}

func (r *VideoRepository) Count(ctx context.Context) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{})
}

func (r *VideoRepository) DeleteByCourse(ctx context.Context, courseID string) error {
	_, err := r.Col.DeleteMany(ctx, bson.M{"course_id": courseID})
	return err
}

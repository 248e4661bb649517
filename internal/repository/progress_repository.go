package repository

import (
	"context"

	"learnhub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProgressRepository struct {
	Col *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) *ProgressRepository {
	return &ProgressRepository{Col: db.Collection("user_progress")}
}

func (r *ProgressRepository) Find(ctx context.Context, userID, videoID string) (*models.VideoProgress, error) {
	var progress models.VideoProgress
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "video_id": videoID}).Decode(&progress)
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) FindByUser(ctx context.Context, userID string) ([]models.VideoProgress, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var list []models.VideoProgress
	for cur.Next(ctx) {
		var p models.VideoProgress
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, cur.Err()
}

// Upsert stores progress keyed by (user, video). watch_percentage uses $max
// so a stale or replayed update can never regress the stored value.
func (r *ProgressRepository) Upsert(ctx context.Context, progress *models.VideoProgress) error {
	update := bson.M{
		"$max": bson.M{"watch_percentage": progress.WatchPercentage},
		"$set": bson.M{"timestamp": progress.Timestamp},
		"$setOnInsert": bson.M{
			"user_id":  progress.UserID,
			"video_id": progress.VideoID,
		},
	}
	if progress.Completed {
		// completion is monotonic too: once completed, always completed
		update["$set"].(bson.M)["completed"] = true
	} else {
		update["$setOnInsert"].(bson.M)["completed"] = false
	}
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"user_id": progress.UserID, "video_id": progress.VideoID},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *ProgressRepository) DeleteByVideoIDs(ctx context.Context, videoIDs []string) error {
	if len(videoIDs) == 0 {
		return nil
	}
	_, err := r.Col.DeleteMany(ctx, bson.M{"video_id": bson.M{"$in": videoIDs}})
	return err
}

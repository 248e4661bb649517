package repository

import (
	"context"
	"time"

	"learnhub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type JobRepository struct {
	Col *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{Col: db.Collection("import_jobs")}
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*models.ImportJob, error) {
	var job models.ImportJob
	if err := r.Col.FindOne(ctx, bson.M{"id": id}).Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) FindByStatus(ctx context.Context, status string) ([]models.ImportJob, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cur, err := r.Col.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var jobs []models.ImportJob
	for cur.Next(ctx) {
		var j models.ImportJob
		if err := cur.Decode(&j); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, cur.Err()
}

func (r *JobRepository) Create(ctx context.Context, job *models.ImportJob) error {
	_, err := r.Col.InsertOne(ctx, job)
	return err
}

// SetStatus records a state transition and the attempt count that drove it.
func (r *JobRepository) SetStatus(ctx context.Context, id, status string, attempts int, lastErr string) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{
			"status":        status,
			"attempt_count": attempts,
			"last_error":    lastErr,
			"updated_at":    time.Now().UTC(),
		}},
	)
	return err
}

func (r *JobRepository) DeleteByCourse(ctx context.Context, courseID string) error {
	_, err := r.Col.DeleteMany(ctx, bson.M{"course_id": courseID})
	return err
}

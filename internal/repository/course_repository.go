package repository

import (
	"context"

	"learnhub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CourseRepository struct {
	Col *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{Col: db.Collection("courses")}
}

func (r *CourseRepository) FindAll(ctx context.Context) ([]models.Course, error) {
	cur, err := r.Col.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"imported_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var courses []models.Course
	for cur.Next(ctx) {
		var c models.Course
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, cur.Err()
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.Col.FindOne(ctx, bson.M{"id": id}).Decode(&course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	_, err := r.Col.InsertOne(ctx, course)
	return err
}

// Delete removes a course document. Deleting an already-deleted course is a
// no-op so cascade deletion stays retryable.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"id": id})
	return err
}

package repository

import (
	"context"

	"learnhub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	Col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{Col: db.Collection("users")}
}

func (r *UserRepository) FindByAuthUID(ctx context.Context, authUID string) (*models.User, error) {
	var user models.User
	if err := r.Col.FindOne(ctx, bson.M{"auth_uid": authUID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.Col.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	_, err := r.Col.InsertOne(ctx, user)
	return err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id, name, initialLevel string) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"name": name, "initial_level": initialLevel}},
	)
	return err
}

// AttachAuthUID backfills the identity-provider UID on accounts created
// before the token migration, so future lookups hit the primary path.
func (r *UserRepository) AttachAuthUID(ctx context.Context, email, authUID string) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"auth_uid": authUID}},
	)
	return err
}

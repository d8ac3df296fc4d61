package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nomadpal/media-service/internal/models"
)

type MediaRepository struct {
	col *mongo.Collection
}

func NewMediaRepository(db *mongo.Database) *MediaRepository {
	return &MediaRepository{col: db.Collection("media")}
}

func (r *MediaRepository) Save(ctx context.Context, m *models.Media) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, m)
	return err
}

// FindByUserID returns the user's uploads, newest first.
func (r *MediaRepository) FindByUserID(ctx context.Context, userID string) ([]models.Media, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	res := make([]models.Media, 0)
	if err := cursor.All(ctx, &res); err != nil {
		return nil, err
	}
	return res, nil
}

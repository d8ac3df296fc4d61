package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nomadpal/notification-service/internal/models"
)

// RecipientRepository reads contact fields straight from the users
// collection owned by auth-service and user-service.
type RecipientRepository struct {
	col *mongo.Collection
}

func NewRecipientRepository(db *mongo.Database) *RecipientRepository {
	return &RecipientRepository{col: db.Collection("users")}
}

func (r *RecipientRepository) FindRecipient(ctx context.Context, userID string) (*models.Recipient, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	opts := options.FindOne().SetProjection(bson.M{
		"name":         1,
		"email":        1,
		"phone_number": 1,
		"device_token": 1,
	})

	var rcpt models.Recipient
	if err := r.col.FindOne(ctx, bson.M{"_id": objID}, opts).Decode(&rcpt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &rcpt, nil
}

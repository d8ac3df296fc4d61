package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nomadpal/concierge-service/internal/models"
)

type ChatRepository struct {
	messagesCol *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{
		messagesCol: db.Collection("concierge_messages"),
	}
}

func (r *ChatRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.messagesCol.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}

func (r *ChatRepository) AddMessage(ctx context.Context, msg *models.ChatMessage) error {
	_, err := r.messagesCol.InsertOne(ctx, msg)
	return err
}

// GetMessages returns the user's conversation, oldest first.
func (r *ChatRepository) GetMessages(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.messagesCol.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := []models.ChatMessage{}
	err = cursor.All(ctx, &result)
	return result, err
}

func (r *ChatRepository) DeleteMessages(ctx context.Context, userID string) error {
	_, err := r.messagesCol.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nomadpal/marketplace-service/internal/models"
)

const (
	collectionName = "services"
)

type ServiceRepository struct {
	db *mongo.Database
}

func NewServiceRepository(db *mongo.Database) *ServiceRepository {
	return &ServiceRepository{
		db: db,
	}
}

// Find lists services in the order they were added.
func (r *ServiceRepository) Find(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, buildQuery(filter), opts)
}

// Recommended returns verified services, best rated first.
func (r *ServiceRepository) Recommended(ctx context.Context, location string, limit int64) ([]models.Service, error) {
	query := buildQuery(models.ServiceFilter{Location: location})
	query["verified"] = true

	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "created_at", Value: 1}}).
		SetLimit(limit)
	return r.find(ctx, query, opts)
}

func (r *ServiceRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error) {
	collection := r.db.Collection(collectionName)

	var service models.Service
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&service); err != nil {
		return nil, r.handleDatabaseError(err)
	}

	return &service, nil
}

func (r *ServiceRepository) CreateService(ctx context.Context, service *models.Service) error {
	collection := r.db.Collection(collectionName)

	// Set timestamps
	now := time.Now().UTC()
	service.CreatedAt = now
	service.UpdatedAt = now

	result, err := collection.InsertOne(ctx, service)
	if err != nil {
		return err
	}

	service.ID = result.InsertedID.(primitive.ObjectID)

	return nil
}

func (r *ServiceRepository) UpdateService(ctx context.Context, service *models.Service) error {
	collection := r.db.Collection(collectionName)

	if service.ID.IsZero() {
		return models.ErrInvalidID
	}

	service.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": service.ID}
	update := bson.M{"$set": bson.M{
		"type":        service.Type,
		"title":       service.Title,
		"description": service.Description,
		"price":       service.Price,
		"currency":    service.Currency,
		"duration":    service.Duration,
		"location":    service.Location,
		"updated_at":  service.UpdatedAt,
	}}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return r.handleDatabaseError(err)
	}

	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *ServiceRepository) DeleteService(ctx context.Context, id primitive.ObjectID) error {
	collection := r.db.Collection(collectionName)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return r.handleDatabaseError(err)
	}

	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *ServiceRepository) SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) error {
	collection := r.db.Collection(collectionName)

	update := bson.M{"$set": bson.M{"verified": verified, "updated_at": time.Now().UTC()}}
	result, err := collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return r.handleDatabaseError(err)
	}

	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *ServiceRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.Service, error) {
	collection := r.db.Collection(collectionName)

	cursor, err := collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err = cursor.All(ctx, &services); err != nil {
		return nil, err
	}

	if services == nil {
		services = []models.Service{}
	}

	return services, nil
}

func buildQuery(filter models.ServiceFilter) bson.M {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Location != "" {
		query["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Location), Options: "i"}
	}
	return query
}

func (r *ServiceRepository) handleDatabaseError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	return err
}

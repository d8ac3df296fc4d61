package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nomadpal/auth-service/internal/models"
)

const queryTimeout = 5 * time.Second

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// EnsureIndexes creates the unique indexes behind case-insensitive
// username and email uniqueness.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username_lower", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email_lower", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "member_since", Value: 1}}},
	})
	return err
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: username or email", models.ErrDuplicate)
		}
		return err
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}
	return r.findOne(ctx, bson.M{"_id": objID}, nil)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username_lower": strings.ToLower(username)}, nil)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email_lower": strings.ToLower(email)}, nil)
}

// FindByLogin matches identifier against username or email.
func (r *UserRepository) FindByLogin(ctx context.Context, identifier string) (*models.User, error) {
	id := strings.ToLower(identifier)
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username_lower": id},
		bson.M{"email_lower": id},
	}}, nil)
}

// FindFirst returns the earliest member.
func (r *UserRepository) FindFirst(ctx context.Context) (*models.User, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "member_since", Value: 1}, {Key: "_id", Value: 1}})
	return r.findOne(ctx, bson.M{}, opts)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{"password": hashedPassword}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepository) TouchLastActive(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_active": at}})
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var user models.User
	var err error
	if opts != nil {
		err = r.collection.FindOne(ctx, filter, opts).Decode(&user)
	} else {
		err = r.collection.FindOne(ctx, filter).Decode(&user)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 5 * time.Second

type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (m *MongoStore) FindUserID(ctx context.Context, usernameLower string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := m.db.Collection("users").FindOne(ctx, bson.M{"username_lower": usernameLower}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.ID.Hex(), true, nil
}

func (m *MongoStore) InsertUser(ctx context.Context, u User) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := m.db.Collection("users").InsertOne(ctx, u)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected user id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (m *MongoStore) PostExists(ctx context.Context, title string) (bool, error) {
	return m.exists(ctx, "posts", bson.M{"title": title})
}

func (m *MongoStore) InsertPost(ctx context.Context, p Post) error {
	return m.insert(ctx, "posts", p)
}

func (m *MongoStore) ReviewExists(ctx context.Context, reviewerID, targetID string) (bool, error) {
	return m.exists(ctx, "reviews", bson.M{"reviewer_id": reviewerID, "target_id": targetID})
}

func (m *MongoStore) InsertReview(ctx context.Context, r Review) error {
	return m.insert(ctx, "reviews", r)
}

func (m *MongoStore) ServiceExists(ctx context.Context, providerID, title string) (bool, error) {
	return m.exists(ctx, "services", bson.M{"provider_id": providerID, "title": title})
}

func (m *MongoStore) InsertService(ctx context.Context, s Service) error {
	return m.insert(ctx, "services", s)
}

func (m *MongoStore) Drop(ctx context.Context, collections []string) error {
	for _, name := range collections {
		dctx, cancel := context.WithTimeout(ctx, opTimeout)
		err := m.db.Collection(name).Drop(dctx)
		cancel()
		if err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}

func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "username_lower", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email_lower", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "member_since", Value: 1}}},
		},
		"reviews": {
			{
				Keys:    bson.D{{Key: "target_id", Value: 1}, {Key: "reviewer_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "target_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
	for name, idx := range indexes {
		if _, err := m.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("index %s: %w", name, err)
		}
	}
	return nil
}

func (m *MongoStore) ListUsers(ctx context.Context) ([]UserSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "trust_rating", Value: -1}, {Key: "username_lower", Value: 1}}).
		SetProjection(bson.M{
			"username": 1, "name": 1, "location": 1, "trust_rating": 1,
			"verified": 1, "member_type": 1, "role": 1,
		})
	cursor, err := m.db.Collection("users").Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID          primitive.ObjectID `bson:"_id"`
		UserSummary `bson:",inline"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]UserSummary, 0, len(docs))
	for _, d := range docs {
		u := d.UserSummary
		u.ID = d.ID.Hex()
		users = append(users, u)
	}
	return users, nil
}

func (m *MongoStore) exists(ctx context.Context, collection string, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	n, err := m.db.Collection(collection).CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (m *MongoStore) insert(ctx context.Context, collection string, doc interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := m.db.Collection(collection).InsertOne(ctx, doc)
	return err
}

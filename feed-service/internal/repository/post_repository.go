package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nomadpal/feed-service/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Find(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	AddReply(ctx context.Context, postID string, reply models.Reply) error
	SetReplyHelpful(ctx context.Context, postID, replyID string, helpful bool) error
	ApplyVote(ctx context.Context, postID, userID, from, to string) error
}

type postRepository struct {
	collection *mongo.Collection
}

func NewPostRepository(db *mongo.Database) PostRepository {
	return &postRepository{collection: db.Collection("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Find returns matching posts, newest first.
func (r *postRepository) Find(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Location != "" {
		query["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Location), Options: "i"}
	}
	if filter.Tag != "" {
		query["tags"] = strings.ToLower(filter.Tag)
	}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Update replaces the editable fields of post.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()
	res, err := r.collection.UpdateByID(ctx, post.ID, bson.M{"$set": bson.M{
		"type":       post.Type,
		"title":      post.Title,
		"content":    post.Content,
		"tags":       post.Tags,
		"location":   post.Location,
		"updated_at": post.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *postRepository) AddReply(ctx context.Context, postID string, reply models.Reply) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return models.ErrInvalidID
	}
	res, err := r.collection.UpdateByID(ctx, objID, bson.M{"$push": bson.M{"replies": reply}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *postRepository) SetReplyHelpful(ctx context.Context, postID, replyID string, helpful bool) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return models.ErrInvalidID
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "replies.id": replyID},
		bson.M{"$set": bson.M{"replies.$.helpful": helpful}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ApplyVote moves userID's vote from one direction to another. The update
// only applies while the stored vote still equals from, so counters always
// mirror the recorded votes. ErrConflict means the vote changed underneath.
func (r *postRepository) ApplyVote(ctx context.Context, postID, userID, from, to string) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return models.ErrInvalidID
	}

	voteField := "votes." + userID
	filter := bson.M{"_id": objID}
	if from == models.VoteNone {
		filter[voteField] = bson.M{"$exists": false}
	} else {
		filter[voteField] = from
	}

	inc := bson.M{}
	addCount(inc, from, -1)
	addCount(inc, to, 1)

	update := bson.M{}
	if len(inc) > 0 {
		update["$inc"] = inc
	}
	if to == models.VoteNone {
		update["$unset"] = bson.M{voteField: ""}
	} else {
		update["$set"] = bson.M{voteField: to}
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := r.collection.CountDocuments(ctx, bson.M{"_id": objID})
		if err != nil {
			return err
		}
		if n == 0 {
			return models.ErrNotFound
		}
		return models.ErrConflict
	}
	return nil
}

func addCount(inc bson.M, direction string, delta int) {
	switch direction {
	case models.VoteUp:
		inc["upvotes"] = delta + intOf(inc["upvotes"])
	case models.VoteDown:
		inc["downvotes"] = delta + intOf(inc["downvotes"])
	}
}

func intOf(v interface{}) int {
	n, _ := v.(int)
	return n
}

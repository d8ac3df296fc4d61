package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidID  = errors.New("invalid ID")
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("concurrent update")
)

const (
	TypeQuestion = "question"
	TypeOffer    = "offer"
	TypeReview   = "review"
	TypeRequest  = "request"
)

const (
	VoteUp   = "up"
	VoteDown = "down"
	VoteNone = "none"
)

const DefaultLocation = "El Nido, Philippines"

type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Type      string             `bson:"type" json:"type"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Location  string             `bson:"location" json:"location"`
	Tags      []string           `bson:"tags" json:"tags"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
	Replies   []Reply            `bson:"replies" json:"replies"`
	Upvotes   int                `bson:"upvotes" json:"upvotes"`
	Downvotes int                `bson:"downvotes" json:"downvotes"`
	// Votes maps voter id to VoteUp or VoteDown.
	Votes map[string]string `bson:"votes,omitempty" json:"-"`

	TimeAgo string `bson:"-" json:"time_ago,omitempty"`
}

type Reply struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	Helpful   bool      `bson:"helpful" json:"helpful"`
}

// PostFilter narrows the feed. Zero values match everything.
type PostFilter struct {
	Type     string
	Location string
	Tag      string
	UserID   string
}

func (f PostFilter) IsEmpty() bool {
	return f.Type == "" && f.Location == "" && f.Tag == "" && f.UserID == ""
}

// TimeAgo renders the age of t relative to now.
func TimeAgo(t, now time.Time) string {
	hours := int(now.Sub(t).Hours())
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	default:
		return fmt.Sprintf("%dd ago", hours/24)
	}
}

// TagList accepts either a JSON array or a comma separated string.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tags must be a list or a comma separated string")
	}
	*t = strings.Split(s, ",")
	return nil
}

// NormalizeTags splits on commas, trims, lower-cases and drops empties.
func NormalizeTags(raw []string) []string {
	tags := []string{}
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			tag := strings.ToLower(strings.TrimSpace(part))
			if tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrTooLarge         = errors.New("file is larger than 5 MiB")
	ErrUnsupportedMedia = errors.New("only image uploads are allowed")
	ErrUpstream         = errors.New("could not update profile")
)

type MediaType string

const (
	AvatarMedia MediaType = "avatar"
)

const MaxAvatarSize = 5 << 20

type Media struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	Type        MediaType          `bson:"type" json:"type"`
	FileName    string             `bson:"file_name" json:"file_name"`
	ObjectKey   string             `bson:"object_key" json:"object_key"`
	URL         string             `bson:"url" json:"url"`
	ContentType string             `bson:"content_type" json:"content_type"`
	Size        int64              `bson:"size" json:"size"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// Upload is a file received from a client.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
}

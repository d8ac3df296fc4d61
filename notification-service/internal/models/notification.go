package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("notification not found")
	ErrInvalidID = errors.New("invalid notification id")
	ErrForbidden = errors.New("notification belongs to another user")
)

type NotificationType string

const (
	TypeReplyAdded     NotificationType = "reply_added"
	TypeReviewReceived NotificationType = "review_received"
	TypeSystemMessage  NotificationType = "system"
)

type DeliveryMethod string

const (
	DeliveryEmail DeliveryMethod = "email"
	DeliverySMS   DeliveryMethod = "sms"
	DeliveryPush  DeliveryMethod = "push"
)

type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Type      NotificationType   `bson:"type" json:"type"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	Metadata  map[string]string  `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Channels  []DeliveryMethod   `bson:"channels" json:"channels"`
}

// Recipient is the contact data of a user, read from the users collection.
type Recipient struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Email       string             `bson:"email"`
	PhoneNumber string             `bson:"phone_number"`
	DeviceToken string             `bson:"device_token"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TargetID   string             `bson:"target_id" json:"target_id"`
	ReviewerID string             `bson:"reviewer_id" json:"reviewer_id"`
	Rating     int                `bson:"rating" json:"rating"`
	Comment    string             `bson:"comment" json:"comment"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

type ReviewStats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

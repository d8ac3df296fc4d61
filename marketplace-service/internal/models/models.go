package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nomadpal/internal/validator"
)

const (
	TypeGuide  = "guide"
	TypeDriver = "driver"
	TypeHost   = "host"
	TypeTour   = "tour"
)

const DefaultRecommendedLimit = 3

// Service is a bookable offer listed by a provider.
type Service struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProviderID  string             `json:"provider_id" bson:"provider_id"`
	Type        string             `json:"type" bson:"type"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Currency    string             `json:"currency" bson:"currency"`
	Duration    string             `json:"duration,omitempty" bson:"duration,omitempty"`
	Location    string             `json:"location" bson:"location"`
	Rating      float64            `json:"rating" bson:"rating"`
	Verified    bool               `json:"verified" bson:"verified"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// ServiceRequest carries the provider-editable fields.
type ServiceRequest struct {
	Type        string  `json:"type" validate:"required,oneof=guide driver host tour"`
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price" validate:"gt=0"`
	Currency    string  `json:"currency" validate:"required,len=3,alpha"`
	Duration    string  `json:"duration"`
	Location    string  `json:"location" validate:"required"`
}

// Validate validates the ServiceRequest
func (r *ServiceRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))

	if err := validator.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}
	return nil
}

// Apply copies the request onto s.
func (r ServiceRequest) Apply(s *Service) {
	s.Type = r.Type
	s.Title = r.Title
	s.Description = r.Description
	s.Price = r.Price
	s.Currency = r.Currency
	s.Duration = r.Duration
	s.Location = r.Location
}

// VerifyRequest sets the verified flag. An empty body verifies.
type VerifyRequest struct {
	Verified *bool `json:"verified"`
}

type ServiceFilter struct {
	Type     string
	Location string
}

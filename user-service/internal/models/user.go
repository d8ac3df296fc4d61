package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidID  = errors.New("invalid ID")
	ErrValidation = errors.New("validation error")
	ErrDuplicate  = errors.New("already exists")
)

const (
	MemberTraveler = "traveler"
	MemberGuide    = "guide"
)

// Trust directory categories.
const (
	CategoryAll       = "all"
	CategoryGuides    = "guides"
	CategoryTravelers = "travelers"
	CategoryVerified  = "verified"
)

type Socials struct {
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Website   string `bson:"website,omitempty" json:"website,omitempty"`
}

// User is the public view of a users document. Credentials are not mapped
// and contact details never leave the service except through Self.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Username    string             `bson:"username" json:"username"`
	Email       string             `bson:"email" json:"-"`
	Avatar      string             `bson:"avatar" json:"avatar"`
	Location    string             `bson:"location" json:"location"`
	TrustRating float64            `bson:"trust_rating" json:"trust_rating"`
	Verified    bool               `bson:"verified" json:"verified"`
	MemberSince time.Time          `bson:"member_since" json:"member_since"`
	Badges      []string           `bson:"badges" json:"badges"`
	Bio         string             `bson:"bio" json:"bio"`
	Specialties []string           `bson:"specialties" json:"specialties"`
	Languages   []string           `bson:"languages" json:"languages"`
	Socials     *Socials           `bson:"socials,omitempty" json:"socials,omitempty"`
	MemberType  string             `bson:"member_type" json:"member_type"`
	Role        string             `bson:"role" json:"role"`
	PhoneNumber string             `bson:"phone_number,omitempty" json:"-"`
	DeviceToken string             `bson:"device_token,omitempty" json:"-"`
	LastActive  time.Time          `bson:"last_active" json:"last_active"`
}

// Contact holds the fields only the owner gets to see.
type Contact struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	DeviceToken string `json:"device_token,omitempty"`
}

func (u User) ContactInfo() Contact {
	return Contact{Email: u.Email, PhoneNumber: u.PhoneNumber, DeviceToken: u.DeviceToken}
}

// Self is the caller's own record.
type Self struct {
	User
	Contact
}

// SelfProfile is the caller's own profile.
type SelfProfile struct {
	Profile
	Contact
}

// Profile is a user with the reviews they received.
type Profile struct {
	User
	Reviews []Review    `json:"reviews"`
	Stats   ReviewStats `json:"review_stats"`
}

type TrustDirectory struct {
	Category string         `json:"category"`
	Users    []User         `json:"users"`
	Counts   map[string]int `json:"counts"`
}

type TrustStats struct {
	VerifiedMembers    int     `json:"verified_members"`
	AverageTrustRating float64 `json:"average_trust_rating"`
	LocalGuides        int     `json:"local_guides"`
	TotalReviews       int64   `json:"total_reviews"`
}

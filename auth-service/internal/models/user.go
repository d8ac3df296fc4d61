package models

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidID          = errors.New("invalid ID")
	ErrValidation         = errors.New("validation error")
	ErrDuplicate          = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	MemberTraveler = "traveler"
	MemberGuide    = "guide"

	DefaultLocation    = "Unknown"
	DefaultTrustRating = 5.0
)

type Socials struct {
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Website   string `bson:"website,omitempty" json:"website,omitempty"`
}

// User is the shared users document. The *_lower fields back the
// case-insensitive uniqueness of username and email.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Username      string             `bson:"username" json:"username"`
	UsernameLower string             `bson:"username_lower" json:"-"`
	Email         string             `bson:"email" json:"email"`
	EmailLower    string             `bson:"email_lower" json:"-"`
	Password      string             `bson:"password" json:"-"`
	Avatar        string             `bson:"avatar" json:"avatar"`
	Location      string             `bson:"location" json:"location"`
	TrustRating   float64            `bson:"trust_rating" json:"trust_rating"`
	Verified      bool               `bson:"verified" json:"verified"`
	MemberSince   time.Time          `bson:"member_since" json:"member_since"`
	Badges        []string           `bson:"badges" json:"badges"`
	Bio           string             `bson:"bio" json:"bio"`
	Specialties   []string           `bson:"specialties" json:"specialties"`
	Languages     []string           `bson:"languages" json:"languages"`
	Socials       *Socials           `bson:"socials,omitempty" json:"socials,omitempty"`
	MemberType    string             `bson:"member_type" json:"member_type"`
	Role          string             `bson:"role" json:"role"`
	PhoneNumber   string             `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	DeviceToken   string             `bson:"device_token,omitempty" json:"device_token,omitempty"`
	LastActive    time.Time          `bson:"last_active" json:"last_active"`
}

// NewUser fills in the sign-up defaults.
func NewUser(name, username, email string, now time.Time) *User {
	return &User{
		Name:          name,
		Username:      username,
		UsernameLower: strings.ToLower(username),
		Email:         email,
		EmailLower:    strings.ToLower(email),
		Avatar:        AvatarURL(name),
		Location:      DefaultLocation,
		TrustRating:   DefaultTrustRating,
		MemberSince:   now,
		Badges:        []string{},
		Specialties:   []string{},
		Languages:     []string{},
		MemberType:    MemberTraveler,
		Role:          RoleUser,
		LastActive:    now,
	}
}

func AvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name)
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

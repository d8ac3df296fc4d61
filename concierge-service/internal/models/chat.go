package models

import (
	"errors"
	"time"
)

var (
	ErrValidation = errors.New("validation error")
	ErrUpstream   = errors.New("upstream service unavailable")
)

const (
	TypeAI   = "ai"
	TypeUser = "user"
)

// Source records which responder produced an ai message.
const (
	SourceGreeting = "greeting"
	SourceCanned   = "canned"
	SourceLLM      = "llm"
)

const DefaultLocation = "El Nido, Philippines"

type ChatMessage struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Type      string    `bson:"type" json:"type"`
	Content   string    `bson:"content" json:"content"`
	Source    string    `bson:"source,omitempty" json:"source,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type SendMessageRequest struct {
	Content  string `json:"content" validate:"required,max=2000"`
	Location string `json:"location"`
}

// Exchange is the result of one user turn.
type Exchange struct {
	Message ChatMessage `json:"message"`
	Reply   ChatMessage `json:"reply"`
}

type QuickAction struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

var QuickActions = []QuickAction{
	{Key: "transport", Title: "Find Transportation", Description: "Book buses, vans, or private transfers", Prompt: "I need help finding transportation options"},
	{Key: "activities", Title: "Plan Activities", Description: "Discover tours and local experiences", Prompt: "What activities do you recommend?"},
	{Key: "budget", Title: "Budget Planning", Description: "Get cost estimates and money tips", Prompt: "Help me plan my budget for this trip"},
	{Key: "buddies", Title: "Find Travel Buddies", Description: "Connect with other travelers", Prompt: "I'm looking for travel companions"},
}

// RecommendedService is the subset of a marketplace listing shown in the
// concierge sidebar.
type RecommendedService struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Location string  `json:"location"`
	Rating   float64 `json:"rating"`
	Verified bool    `json:"verified"`
}

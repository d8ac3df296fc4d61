package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"nomadpal/concierge-service/internal/models"
)

const recommendedLimit = 3

type ChatRepository interface {
	AddMessage(ctx context.Context, msg *models.ChatMessage) error
	GetMessages(ctx context.Context, userID string) ([]models.ChatMessage, error)
	DeleteMessages(ctx context.Context, userID string) error
}

type Marketplace interface {
	Recommended(ctx context.Context, location string, limit int) ([]models.RecommendedService, error)
}

type ConciergeService struct {
	repo        ChatRepository
	responder   Responder
	marketplace Marketplace
	now         func() time.Time
}

func NewConciergeService(repo ChatRepository, responder Responder, marketplace Marketplace) *ConciergeService {
	return &ConciergeService{
		repo:        repo,
		responder:   responder,
		marketplace: marketplace,
		now:         time.Now,
	}
}

// Messages returns the conversation. A new conversation is opened with a
// greeting for location.
func (s *ConciergeService) Messages(ctx context.Context, userID, location string) ([]models.ChatMessage, error) {
	history, err := s.repo.GetMessages(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		return history, nil
	}

	greeting := s.newMessage(userID, models.TypeAI, Greeting(orDefault(location)), models.SourceGreeting)
	if err := s.repo.AddMessage(ctx, &greeting); err != nil {
		return nil, err
	}
	return []models.ChatMessage{greeting}, nil
}

// Send stores the user's message and the concierge reply.
func (s *ConciergeService) Send(ctx context.Context, userID string, req models.SendMessageRequest) (*models.Exchange, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is empty", models.ErrValidation)
	}

	history, err := s.repo.GetMessages(ctx, userID)
	if err != nil {
		return nil, err
	}

	msg := s.newMessage(userID, models.TypeUser, content, "")
	if err := s.repo.AddMessage(ctx, &msg); err != nil {
		return nil, err
	}

	reply, err := s.responder.Respond(ctx, Conversation{
		Location: orDefault(req.Location),
		History:  history,
		Message:  content,
	})
	if err != nil {
		return nil, err
	}

	answer := s.newMessage(userID, models.TypeAI, reply.Content, reply.Source)
	if !answer.CreatedAt.After(msg.CreatedAt) {
		answer.CreatedAt = msg.CreatedAt.Add(time.Millisecond)
	}
	if err := s.repo.AddMessage(ctx, &answer); err != nil {
		return nil, err
	}

	return &models.Exchange{Message: msg, Reply: answer}, nil
}

func (s *ConciergeService) Clear(ctx context.Context, userID string) error {
	return s.repo.DeleteMessages(ctx, userID)
}

func (s *ConciergeService) QuickActions() []models.QuickAction {
	return models.QuickActions
}

func (s *ConciergeService) Recommendations(ctx context.Context, location string) ([]models.RecommendedService, error) {
	return s.marketplace.Recommended(ctx, location, recommendedLimit)
}

func (s *ConciergeService) newMessage(userID, typ, content, source string) models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		Content:   content,
		Source:    source,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
}

func orDefault(location string) string {
	if l := strings.TrimSpace(location); l != "" {
		return l
	}
	return models.DefaultLocation
}

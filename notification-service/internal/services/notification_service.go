package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nomadpal/internal/events"
	"nomadpal/notification-service/internal/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByUserID(ctx context.Context, userID string, limit, offset int64) ([]models.Notification, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID) error
}

type RecipientFinder interface {
	FindRecipient(ctx context.Context, userID string) (*models.Recipient, error)
}

type NotificationService struct {
	repo       NotificationRepository
	recipients RecipientFinder
	channels   []Channel
	now        func() time.Time
}

func NewNotificationService(repo NotificationRepository, recipients RecipientFinder, channels ...Channel) *NotificationService {
	return &NotificationService{
		repo:       repo,
		recipients: recipients,
		channels:   channels,
		now:        time.Now,
	}
}

// HandleEvent turns a published event into a stored notification and pushes
// it out through every channel the recipient can be reached on. Delivery
// failures are logged only.
func (s *NotificationService) HandleEvent(ctx context.Context, ev events.Event) error {
	if ev.RecipientID == "" {
		return fmt.Errorf("event %s has no recipient", ev.Type)
	}

	notification := &models.Notification{
		UserID:    ev.RecipientID,
		Type:      notificationType(ev.Type),
		Title:     ev.Title,
		Message:   ev.Message,
		CreatedAt: ev.CreatedAt,
		Metadata:  ev.Metadata,
		Channels:  []models.DeliveryMethod{},
	}
	if notification.Title == "" {
		notification.Title = defaultTitle(notification.Type)
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = s.now().UTC()
	}

	recipient, err := s.recipients.FindRecipient(ctx, ev.RecipientID)
	if err != nil {
		log.Printf("[NOTIFIER] No contact data for %s: %v", ev.RecipientID, err)
		recipient = nil
	}

	var targets []Channel
	if recipient != nil {
		for _, ch := range s.channels {
			if ch.Accepts(recipient) {
				targets = append(targets, ch)
				notification.Channels = append(notification.Channels, ch.Method())
			}
		}
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}

	for _, ch := range targets {
		if err := ch.Deliver(ctx, recipient, notification); err != nil {
			log.Printf("[NOTIFIER] %s delivery to %s failed: %v", ch.Method(), ev.RecipientID, err)
		}
	}

	log.Printf("[NOTIFIER] Notification stored - Type: %s, User: %s, Channels: %v",
		notification.Type, notification.UserID, notification.Channels)
	return nil
}

// GetNotifications returns the user's notifications, newest first.
func (s *NotificationService) GetNotifications(ctx context.Context, userID string, limit, offset int64) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)
	offset = max(offset, 0)
	return s.repo.GetByUserID(ctx, userID, limit, offset)
}

// MarkAsRead marks a notification read for its owner.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}

	notification, err := s.repo.GetByID(ctx, objID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return models.ErrForbidden
	}
	if notification.Read {
		return nil
	}
	return s.repo.MarkAsRead(ctx, objID)
}

func notificationType(eventType string) models.NotificationType {
	switch eventType {
	case events.TypeReplyAdded:
		return models.TypeReplyAdded
	case events.TypeReviewReceived:
		return models.TypeReviewReceived
	default:
		return models.TypeSystemMessage
	}
}

func defaultTitle(t models.NotificationType) string {
	switch t {
	case models.TypeReplyAdded:
		return "New reply on your post"
	case models.TypeReviewReceived:
		return "You received a new review"
	default:
		return "NomadPal notification"
	}
}


package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nomadpal/internal/events"
	"nomadpal/notification-service/internal/models"
)

type fakeRepo struct {
	items      []models.Notification
	limit      int64
	offset     int64
	createErr  error
	markedRead []primitive.ObjectID
}

func (f *fakeRepo) Create(_ context.Context, n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	n.ID = primitive.NewObjectID()
	f.items = append(f.items, *n)
	return nil
}

func (f *fakeRepo) GetByUserID(_ context.Context, userID string, limit, offset int64) ([]models.Notification, error) {
	f.limit, f.offset = limit, offset
	out := []models.Notification{}
	for _, n := range f.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Notification, error) {
	for _, n := range f.items {
		if n.ID == id {
			cp := n
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeRepo) MarkAsRead(_ context.Context, id primitive.ObjectID) error {
	f.markedRead = append(f.markedRead, id)
	return nil
}

type fakeRecipients map[string]*models.Recipient

func (f fakeRecipients) FindRecipient(_ context.Context, userID string) (*models.Recipient, error) {
	if r, ok := f[userID]; ok {
		return r, nil
	}
	return nil, models.ErrNotFound
}

type fakeMailer struct{ to, subject string }

func (m *fakeMailer) SendEmail(to, subject, _ string) error {
	m.to, m.subject = to, subject
	return nil
}

type fakeSMS struct{ err error }

func (s *fakeSMS) SendSMS(string, string) error { return s.err }

type fakePush struct{ token string }

func (p *fakePush) SendPushNotification(_ context.Context, token, _, _ string) error {
	p.token = token
	return nil
}

func TestHandleEventDeliversToReachableChannels(t *testing.T) {
	repo := &fakeRepo{}
	mailer, smsSender, pusher := &fakeMailer{}, &fakeSMS{err: errors.New("twilio down")}, &fakePush{}
	recipients := fakeRecipients{"u1": {Name: "Maria", Email: "maria@example.com", PhoneNumber: "+639171234567"}}

	svc := NewNotificationService(repo, recipients,
		NewEmailChannel(mailer), NewSMSChannel(smsSender), NewPushChannel(pusher))

	err := svc.HandleEvent(context.Background(), events.Event{
		Type:        events.TypeReplyAdded,
		RecipientID: "u1",
		ActorID:     "u2",
		Message:     "Someone replied",
		Metadata:    map[string]string{"post_id": "p1"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(repo.items) != 1 {
		t.Fatalf("stored %d notifications", len(repo.items))
	}
	n := repo.items[0]
	if n.Type != models.TypeReplyAdded || n.Title != "New reply on your post" || n.Read {
		t.Errorf("notification = %+v", n)
	}
	want := []models.DeliveryMethod{models.DeliveryEmail, models.DeliverySMS}
	if !reflect.DeepEqual(n.Channels, want) {
		t.Errorf("channels = %v, want %v", n.Channels, want)
	}
	if mailer.to != "maria@example.com" || mailer.subject != "New reply on your post" {
		t.Errorf("mail = %+v", mailer)
	}
	if pusher.token != "" {
		t.Error("push must not be used without a device token")
	}
}

func TestHandleEventWithoutContactData(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewNotificationService(repo, fakeRecipients{}, NewEmailChannel(&fakeMailer{}))

	if err := svc.HandleEvent(context.Background(), events.Event{Type: events.TypeReviewReceived, RecipientID: "ghost"}); err != nil {
		t.Fatal(err)
	}
	if len(repo.items) != 1 || repo.items[0].Title != "You received a new review" || len(repo.items[0].Channels) != 0 {
		t.Errorf("stored = %+v", repo.items)
	}

	if err := svc.HandleEvent(context.Background(), events.Event{Type: events.TypeReplyAdded}); err == nil {
		t.Error("event without recipient should fail")
	}
}

func TestHandleEventKeepsEventTimestamp(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewNotificationService(repo, fakeRecipients{})
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	_ = svc.HandleEvent(context.Background(), events.Event{Type: "custom", RecipientID: "u1", Title: "Hello", CreatedAt: at})
	if got := repo.items[0]; !got.CreatedAt.Equal(at) || got.Title != "Hello" || got.Type != models.TypeSystemMessage {
		t.Errorf("stored = %+v", got)
	}
}

func TestGetNotificationsPaging(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewNotificationService(repo, fakeRecipients{})

	tests := []struct {
		limit, offset         int64
		wantLimit, wantOffset int64
	}{
		{0, 0, DefaultPageSize, 0},
		{5, 10, 5, 10},
		{500, -3, MaxPageSize, 0},
	}
	for _, tt := range tests {
		if _, err := svc.GetNotifications(context.Background(), "u1", tt.limit, tt.offset); err != nil {
			t.Fatal(err)
		}
		if repo.limit != tt.wantLimit || repo.offset != tt.wantOffset {
			t.Errorf("(%d,%d) -> (%d,%d), want (%d,%d)", tt.limit, tt.offset, repo.limit, repo.offset, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestMarkAsReadOwnerOnly(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewNotificationService(repo, fakeRecipients{})
	_ = svc.HandleEvent(context.Background(), events.Event{Type: events.TypeReplyAdded, RecipientID: "u1"})
	id := repo.items[0].ID.Hex()

	if err := svc.MarkAsRead(context.Background(), "u2", id); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("stranger: got %v", err)
	}
	if err := svc.MarkAsRead(context.Background(), "u1", "bad"); !errors.Is(err, models.ErrInvalidID) {
		t.Errorf("bad id: got %v", err)
	}
	if err := svc.MarkAsRead(context.Background(), "u1", primitive.NewObjectID().Hex()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("missing: got %v", err)
	}
	if err := svc.MarkAsRead(context.Background(), "u1", id); err != nil {
		t.Fatal(err)
	}
	if len(repo.markedRead) != 1 {
		t.Errorf("marked %d", len(repo.markedRead))
	}
}

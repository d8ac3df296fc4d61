package services

import (
	"context"
	"fmt"

	"nomadpal/notification-service/internal/models"
)

// Channel delivers a stored notification outside the app.
type Channel interface {
	Method() models.DeliveryMethod
	Accepts(r *models.Recipient) bool
	Deliver(ctx context.Context, r *models.Recipient, n *models.Notification) error
}

type Mailer interface {
	SendEmail(to, subject, body string) error
}

type SMSSender interface {
	SendSMS(to, body string) error
}

type PushSender interface {
	SendPushNotification(ctx context.Context, token, title, body string) error
}

type emailChannel struct{ mailer Mailer }

func NewEmailChannel(m Mailer) Channel { return emailChannel{mailer: m} }

func (emailChannel) Method() models.DeliveryMethod { return models.DeliveryEmail }

func (emailChannel) Accepts(r *models.Recipient) bool { return r.Email != "" }

func (c emailChannel) Deliver(_ context.Context, r *models.Recipient, n *models.Notification) error {
	body := fmt.Sprintf("Hi %s,\n\n%s\n\nThe NomadPal team", r.Name, n.Message)
	return c.mailer.SendEmail(r.Email, n.Title, body)
}

type smsChannel struct{ sender SMSSender }

func NewSMSChannel(s SMSSender) Channel { return smsChannel{sender: s} }

func (smsChannel) Method() models.DeliveryMethod { return models.DeliverySMS }

func (smsChannel) Accepts(r *models.Recipient) bool { return r.PhoneNumber != "" }

func (c smsChannel) Deliver(_ context.Context, r *models.Recipient, n *models.Notification) error {
	return c.sender.SendSMS(r.PhoneNumber, n.Title+": "+n.Message)
}

type pushChannel struct{ sender PushSender }

func NewPushChannel(s PushSender) Channel { return pushChannel{sender: s} }

func (pushChannel) Method() models.DeliveryMethod { return models.DeliveryPush }

func (pushChannel) Accepts(r *models.Recipient) bool { return r.DeviceToken != "" }

func (c pushChannel) Deliver(ctx context.Context, r *models.Recipient, n *models.Notification) error {
	return c.sender.SendPushNotification(ctx, r.DeviceToken, n.Title, n.Message)
}

package email

import (
	"gopkg.in/gomail.v2"
)

type SMTPClient struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPClient(host string, port int, user, password, from string) *SMTPClient {
	if from == "" {
		from = user
	}
	return &SMTPClient{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (c *SMTPClient) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return c.dialer.DialAndSend(m)
}

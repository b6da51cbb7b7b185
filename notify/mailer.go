//go:generate go run go.uber.org/mock/mockgen -source=mailer.go -destination=../mocks/mock_mailer.go -package=mocks

// Package notify sends best-effort notifications to an administrator
// address. Delivery failures are logged, never retried, and never fatal
// to the transaction that triggered them.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
)

// Notification is an addressed payload for the mail collaborator.
type Notification struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, n Notification) error
}

// SMTPMailer delivers notifications over plain SMTP.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, username: username, password: password, from: from}
}

func (s *SMTPMailer) Send(_ context.Context, n Notification) error {
	msg := []byte("To: " + n.To + "\r\n" +
		"Subject: " + n.Subject + "\r\n" +
		"\r\n" +
		n.Body + "\r\n")

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}
	return smtp.SendMail(addr, auth, s.from, []string{n.To}, msg)
}

// NewUserNotification builds the registration notification from the new
// account's public fields. The password hash is deliberately excluded.
func NewUserNotification(to, username, name string, admin bool) Notification {
	body, _ := json.Marshal(map[string]any{
		"username": username,
		"name":     name,
		"admin":    admin,
	})
	return Notification{
		To:      to,
		Subject: "new user registered: " + username,
		Body:    string(body),
	}
}

package utils

import (
	"YouthHealth/models"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

// SMTPConfig holds outgoing mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	// Inbox receives the getInTouch requests.
	Inbox string
}

// Sender abstracts gomail's DialAndSend so handlers can be tested without SMTP.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer forwards contact requests to the support inbox.
type Mailer struct {
	from   string
	inbox  string
	sender Sender
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{
		from:   cfg.User,
		inbox:  cfg.Inbox,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// NewMailerWithSender is used when the transport is provided by the caller.
func NewMailerWithSender(from, inbox string, sender Sender) *Mailer {
	return &Mailer{from: from, inbox: inbox, sender: sender}
}

// SendContactRequest emails a getInTouch request to the support inbox.
func (m *Mailer) SendContactRequest(req models.ContactRequest) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.inbox)
	msg.SetHeader("Reply-To", req.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Get in touch: %s", req.Name))

	msg.SetBody("text/plain", fmt.Sprintf("From: %s <%s>\nPhone: %s\n\n%s", req.Name, req.Email, req.Phone, req.Message))

	htmlBody := `
	<!DOCTYPE html>
	<html>
	<body style="font-family: Arial, sans-serif;">
		<h2>New contact request</h2>
		<p><strong>Name:</strong> ` + html.EscapeString(req.Name) + `</p>
		<p><strong>Email:</strong> ` + html.EscapeString(req.Email) + `</p>
		<p><strong>Phone:</strong> ` + html.EscapeString(req.Phone) + `</p>
		<p>` + html.EscapeString(req.Message) + `</p>
	</body>
	</html>
	`
	msg.AddAlternative("text/html", htmlBody)

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send contact email: %w", err)
	}
	return nil
}

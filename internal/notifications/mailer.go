package notifications

import (
	"context"
	"errors"
	"fmt"

	"laptoploan/pkg/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var ErrNoRecipient = errors.New("mail has no recipient")

type Mail struct {
	To      string
	ToName  string
	ReplyTo string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

type SendGridMailer struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
}

func NewSendGridMailer(apiKey, fromAddr, fromName string) *SendGridMailer {
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(apiKey),
		fromName: fromName,
		fromAddr: fromAddr,
	}
}

func (s *SendGridMailer) Send(ctx context.Context, m Mail) error {
	if m.To == "" {
		return ErrNoRecipient
	}

	from := sgmail.NewEmail(s.fromName, s.fromAddr)
	to := sgmail.NewEmail(m.ToName, m.To)
	message := sgmail.NewSingleEmail(from, m.Subject, to, m.Body, "")
	if m.ReplyTo != "" {
		message.SetReplyTo(sgmail.NewEmail("", m.ReplyTo))
	}

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}

	return nil
}

// LogMailer writes mails to the log instead of delivering them.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (l *LogMailer) Send(_ context.Context, m Mail) error {
	if m.To == "" {
		return ErrNoRecipient
	}
	l.log.Info("Mail delivery disabled, logging message",
		"to", m.To,
		"subject", m.Subject,
		"body_length", len(m.Body),
	)
	return nil
}

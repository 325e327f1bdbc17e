package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aurixon/api/internal/config"
	"github.com/aurixon/api/internal/logger"
	"github.com/wneessen/go-mail"
)

// Message is a plain-text email with an optional file attachment.
type Message struct {
	To             string
	Subject        string
	Body           string
	AttachmentPath string
	// AttachmentName is the file name shown to the recipient. It defaults to
	// the base name of AttachmentPath.
	AttachmentName string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers messages through an SMTP relay.
type SMTPSender struct {
	cfg     config.SMTPConfig
	timeout time.Duration
	log     *logger.Logger
}

// NewSMTPSender creates a sender for the configured relay.
func NewSMTPSender(cfg config.SMTPConfig, log *logger.Logger) (*SMTPSender, error) {
	if !cfg.Enabled() {
		return nil, errors.New("SMTP_HOST is not set")
	}
	return &SMTPSender{
		cfg:     cfg,
		timeout: 30 * time.Second,
		log:     log,
	}, nil
}

// BuildMessage turns msg into a go-mail message sent from from.
func BuildMessage(from string, msg Message) (*mail.Msg, error) {
	if msg.To == "" {
		return nil, errors.New("recipient is required")
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	if msg.AttachmentPath != "" {
		var opts []mail.FileOption
		if msg.AttachmentName != "" {
			opts = append(opts, mail.WithFileName(msg.AttachmentName))
		}
		m.AttachFile(msg.AttachmentPath, opts...)
	}
	return m, nil
}

func (s *SMTPSender) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTimeout(s.timeout),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	return mail.NewClient(s.cfg.Host, opts...)
}

// Send builds msg and delivers it in a single SMTP session.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := BuildMessage(s.cfg.From, msg)
	if err != nil {
		return err
	}

	c, err := s.client()
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		s.log.Error("Failed to send email", err, map[string]interface{}{
			"host":    s.cfg.Host,
			"to":      msg.To,
			"subject": msg.Subject,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Info("Email sent", map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
	})
	return nil
}

package client

import (
	"bytes"
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"

	"github.com/eventcert/api/internal/config"
)

// MailClient sends a certificate to one participant.
type MailClient interface {
	SendCertificate(ctx context.Context, to, participantName, eventName string, pdf []byte, filename string) error
}

// SMTPClient implements MailClient over authenticated SMTP.
type SMTPClient struct {
	client *mail.Client
	from   string
}

func NewSMTPClient(cfg *config.SMTPConfig) (*SMTPClient, error) {
	c, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPClient{client: c, from: cfg.From}, nil
}

func (c *SMTPClient) SendCertificate(ctx context.Context, to, participantName, eventName string, pdf []byte, filename string) error {
	m := mail.NewMsg()
	if err := m.From(c.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}

	m.Subject(fmt.Sprintf("Your certificate for %s", eventName))
	greeting := participantName
	if greeting == "" {
		greeting = "participant"
	}
	m.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Hello %s,\n\nThank you for taking part in %s. Your certificate is attached.\n",
		greeting, eventName))

	if err := m.AttachReader(filename, bytes.NewReader(pdf)); err != nil {
		return fmt.Errorf("attach certificate: %w", err)
	}

	if err := c.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

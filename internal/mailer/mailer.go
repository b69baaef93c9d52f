// Package mailer delivers visitor credential emails over SMTP.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/eventvms/vms/internal/config"
)

// Message is one credential email to deliver. The QR artifact at
// EmbedPath is attached inline and referenced from the HTML body by
// its content id.
type Message struct {
	To        string
	Subject   string
	Text      string
	HTML      string
	EmbedPath string
}

// qrContentID is the content id the HTML body uses to reference the
// embedded QR image.
const qrContentID = "visitor-qr"

// Mailer is the notification channel used by the registration workflow.
//
// Verify performs a connectivity check against the mail server; Send
// delivers one message and reports its Message-ID. Both return plain
// errors — the registration workflow captures them into the visitor's
// email status instead of failing the request.
type Mailer interface {
	Verify(ctx context.Context) error
	Send(ctx context.Context, msg Message) (messageID string, err error)
}

// Ensure Client implements Mailer
var _ Mailer = (*Client)(nil)

// Client implements Mailer against an SMTP server.
type Client struct {
	cfg  config.SMTP
	from string
}

// New creates an SMTP-backed Client from configuration.
func New(cfg config.SMTP) *Client {
	return &Client{cfg: cfg, from: cfg.From}
}

func (c *Client) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(c.cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if c.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(c.cfg.Username),
			mail.WithPassword(c.cfg.Password),
		)
	}
	client, err := mail.NewClient(c.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return client, nil
}

// Verify dials the SMTP server and disconnects, proving the server is
// reachable and accepts our credentials before a send is attempted.
func (c *Client) Verify(ctx context.Context) error {
	client, err := c.client()
	if err != nil {
		return err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp verify: %w", err)
	}
	if err := client.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	return nil
}

// Send delivers the message with the QR artifact embedded inline and
// returns the generated Message-ID.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	m := mail.NewMsg()
	if err := m.From(c.from); err != nil {
		return "", fmt.Errorf("smtp from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return "", fmt.Errorf("smtp to address: %w", err)
	}
	if c.cfg.ReplyTo != "" {
		if err := m.ReplyTo(c.cfg.ReplyTo); err != nil {
			return "", fmt.Errorf("smtp reply-to address: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	m.EmbedFile(msg.EmbedPath,
		mail.WithFileName("qr.png"),
		mail.WithFileContentID(qrContentID),
	)

	client, err := c.client()
	if err != nil {
		return "", err
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	return m.GetMessageID(), nil
}

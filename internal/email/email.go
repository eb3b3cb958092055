// Package email delivers contact form and account deletion notices to the
// support inbox.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inbucket/html2text"
	"github.com/wneessen/go-mail"

	"parcelpoint-web/internal/config"
)

const SEND_TIMEOUT = 15 * time.Second

var ErrNoRecipients = errors.New("message has no recipients")

// Sender is implemented by *Client.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

type Client struct {
	cfg    config.SMTPConfig
	logger *slog.Logger
}

// Message represents an email message
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string // optional, will be auto-generated from HTML if empty
}

func NewClient(cfg config.SMTPConfig) (*Client, error) {
	if cfg.From == "" {
		return nil, errors.New("email.from is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 25
	}
	return &Client{cfg: cfg, logger: slog.With("component", "email")}, nil
}

// Enabled is false when no SMTP host is configured; Send then only logs.
func (c *Client) Enabled() bool {
	return c.cfg.Host != ""
}

// DefaultRecipient is the support inbox.
func (c *Client) DefaultRecipient() string {
	return c.cfg.To
}

// BuildMsg assembles a multipart/alternative message.
func (c *Client) BuildMsg(msg *Message) (*mail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, ErrNoRecipients
	}
	if msg.Text == "" {
		text, err := htmlToText(msg.HTML)
		if err != nil {
			return nil, fmt.Errorf("failed to convert HTML to text: %w", err)
		}
		msg.Text = text
	}

	m := mail.NewMsg()
	if err := m.From(c.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	return m, nil
}

func (c *Client) Send(ctx context.Context, msg *Message) error {
	m, err := c.BuildMsg(msg)
	if err != nil {
		return err
	}

	if !c.Enabled() {
		c.logger.Info("SMTP host not configured, skipping email", "to", msg.To, "subject", msg.Subject)
		return nil
	}

	opts := []mail.Option{
		mail.WithPort(c.cfg.Port),
		mail.WithTimeout(SEND_TIMEOUT),
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
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Info("Sent email", "to", msg.To, "subject", msg.Subject)
	return nil
}

// htmlToText converts HTML to plain text
func htmlToText(htmlContent string) (string, error) {
	return html2text.FromString(htmlContent, html2text.Options{
		PrettyTables: true,
		OmitLinks:    false,
	})
}

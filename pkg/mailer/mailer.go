package mailer

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Config holds SendGrid credentials and the sender address.
type Config struct {
	APIKey string
	From   string
}

// Client sends email through SendGrid. The plain-text part of every message
// is derived from the HTML body, so callers only supply markup.
type Client struct {
	sg   *sendgrid.Client
	from string
}

// NewClient creates a new SendGrid-backed mail client.
func NewClient(cfg Config) *Client {
	return &Client{
		sg:   sendgrid.NewSendClient(cfg.APIKey),
		from: cfg.From,
	}
}

// Send delivers one message. SendGrid acknowledges accepted messages with
// 202; anything else is reported as a failure so the caller can surface it.
func (c *Client) Send(to, subject, htmlBody string) error {
	from := mail.NewEmail("", c.from)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, HTMLToText(htmlBody), htmlBody)

	resp, err := c.sg.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("sendgrid responded with status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

var (
	brTag  = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTag = regexp.MustCompile(`<[^>]+>`)
)

// HTMLToText derives the plain-text fallback from an HTML body: line breaks
// become newlines, every other tag is stripped, and surrounding whitespace
// is trimmed.
func HTMLToText(html string) string {
	text := brTag.ReplaceAllString(html, "\n")
	text = anyTag.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

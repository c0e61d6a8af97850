// Package email provides the mail-sending client.
//
// It uses Resend (resend-go) as the transport and renders HTML bodies
// from embedded templates. Transport failures are absorbed: Send logs
// the outcome and reports a boolean, so callers never handle
// provider-specific error types.
package email

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/mkravchenko/userhub/internal/config"
)

// transport is the slice of the Resend client that Send depends on.
// Tests substitute a failing implementation.
type transport interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Client wraps the Resend transport, sender identity, and a logger.
type Client struct {
	transport transport
	from      string
	logger    *zerolog.Logger
}

// NewClient creates an email Client backed by the Resend API.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return &Client{
		transport: resend.NewClient(cfg.Email.ResendAPIKey).Emails,
		from:      fmt.Sprintf("%s <%s>", cfg.Email.FromName, cfg.Email.FromAddress),
		logger:    logger,
	}
}

// Send transmits one email to the given recipients, optionally
// attaching files read from the given paths.
//
// It returns true only when the provider acknowledged exactly one
// accepted message (a non-empty message id). Every failure mode
// (unreadable attachment, transport error, missing acknowledgement)
// is logged and reported as false; no error ever propagates.
func (c *Client) Send(ctx context.Context, subject, html string, to []string, attachmentPaths ...string) bool {
	if len(to) == 0 {
		c.logger.Error().Str("subject", subject).Msg("refusing to send email with no recipients")
		return false
	}

	var attachments []*resend.Attachment
	for _, path := range attachmentPaths {
		content, err := os.ReadFile(path)
		if err != nil {
			c.logger.Error().Err(err).
				Str("subject", subject).
				Str("attachment", path).
				Msg("failed to read email attachment")
			return false
		}
		attachments = append(attachments, &resend.Attachment{
			Filename: filepath.Base(path),
			Content:  content,
		})
	}

	c.logger.Debug().
		Strs("to", to).
		Str("subject", subject).
		Strs("attachments", attachmentPaths).
		Msg("sending email")

	sent, err := c.transport.SendWithContext(ctx, &resend.SendEmailRequest{
		From:        c.from,
		To:          to,
		Subject:     subject,
		Html:        html,
		Attachments: attachments,
	})
	if err != nil {
		c.logger.Error().Err(err).
			Strs("to", to).
			Str("subject", subject).
			Msg("email transport error")
		return false
	}

	success := sent != nil && sent.Id != ""
	if !success {
		c.logger.Error().
			Strs("to", to).
			Str("subject", subject).
			Msg("email was not accepted by the provider")
	}
	return success
}

// SendTo is Send for a single recipient; the address is normalized to
// a one-element recipient list.
func (c *Client) SendTo(ctx context.Context, subject, html, to string, attachmentPaths ...string) bool {
	return c.Send(ctx, subject, html, []string{to}, attachmentPaths...)
}

// Render executes the named embedded template with data and returns
// the HTML body.
func (c *Client) Render(templateName Template, data map[string]string) (string, error) {
	body, err := renderTemplate(templateName, data)
	if err != nil {
		return "", errors.Wrapf(err, "failed to render email template %s", templateName)
	}
	return body, nil
}

package email

import "context"

// SendConfirmationEmail sends the registration confirmation message to
// one new user. Reports false when rendering or transport fails.
func (c *Client) SendConfirmationEmail(ctx context.Context, to, confirmationURL string) bool {
	body, err := c.Render(TemplateConfirmation, map[string]string{
		"ConfirmationURL": confirmationURL,
	})
	if err != nil {
		c.logger.Error().Err(err).Str("to", to).Msg("failed to render confirmation email")
		return false
	}

	return c.SendTo(ctx, "Confirm your registration", body, to)
}

// SendAdminDigest sends the daily active-user count to all given admin
// addresses as a single message.
func (c *Client) SendAdminDigest(ctx context.Context, to []string, activeUserCount string) bool {
	body, err := c.Render(TemplateAdminDigest, map[string]string{
		"ActiveUserCount": activeUserCount,
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to render admin digest email")
		return false
	}

	return c.Send(ctx, "Active user count", body, to)
}

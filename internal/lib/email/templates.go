package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateConfirmation corresponds to templates/confirmation.html,
	// the new-user registration confirmation message.
	TemplateConfirmation Template = "confirmation"

	// TemplateAdminDigest corresponds to templates/admin_digest.html,
	// the daily active-user count sent to administrators.
	TemplateAdminDigest Template = "admin_digest"
)

//go:embed templates/*.html
var templateFS embed.FS

// renderTemplate executes an embedded template into a string.
func renderTemplate(name Template, data map[string]string) (string, error) {
	tmpl, err := template.ParseFS(templateFS, fmt.Sprintf("templates/%s.html", name))
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

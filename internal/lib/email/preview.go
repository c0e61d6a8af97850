package email

// PreviewData contains sample template data for local preview and
// manual checks of the embedded templates:
//
//	templateName -> (templateVariableName -> exampleValue)
var PreviewData = map[string]map[string]string{
	"confirmation": {
		"ConfirmationURL": "https://example.com/confirm?token=sample",
	},
	"admin_digest": {
		"ActiveUserCount": "42",
	},
}

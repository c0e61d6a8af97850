package email

import (
	"context"
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	lastRequest *resend.SendEmailRequest
	response    *resend.SendEmailResponse
	err         error
}

func (f *fakeTransport) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.lastRequest = params
	return f.response, f.err
}

func newTestClient(tr *fakeTransport) *Client {
	logger := zerolog.Nop()
	return &Client{
		transport: tr,
		from:      "userhub <noreply@example.com>",
		logger:    &logger,
	}
}

func TestSendSuccess(t *testing.T) {
	tr := &fakeTransport{response: &resend.SendEmailResponse{Id: "msg-1"}}
	c := newTestClient(tr)

	ok := c.Send(context.Background(), "Hello", "<p>hi</p>", []string{"a@example.com"})
	assert.True(t, ok)

	require.NotNil(t, tr.lastRequest)
	assert.Equal(t, []string{"a@example.com"}, tr.lastRequest.To)
	assert.Equal(t, "Hello", tr.lastRequest.Subject)
	assert.Equal(t, "userhub <noreply@example.com>", tr.lastRequest.From)
}

func TestSendTransportErrorReturnsFalse(t *testing.T) {
	tr := &fakeTransport{err: errors.New("connection refused")}
	c := newTestClient(tr)

	// Transport failures are absorbed into a boolean, never an error.
	ok := c.Send(context.Background(), "Hello", "<p>hi</p>", []string{"a@example.com"})
	assert.False(t, ok)
}

func TestSendNoAcknowledgementReturnsFalse(t *testing.T) {
	tr := &fakeTransport{response: &resend.SendEmailResponse{}}
	c := newTestClient(tr)

	ok := c.Send(context.Background(), "Hello", "<p>hi</p>", []string{"a@example.com"})
	assert.False(t, ok)
}

func TestSendNoRecipientsReturnsFalse(t *testing.T) {
	tr := &fakeTransport{response: &resend.SendEmailResponse{Id: "msg-1"}}
	c := newTestClient(tr)

	ok := c.Send(context.Background(), "Hello", "<p>hi</p>", nil)
	assert.False(t, ok)
	assert.Nil(t, tr.lastRequest)
}

func TestSendUnreadableAttachmentReturnsFalse(t *testing.T) {
	tr := &fakeTransport{response: &resend.SendEmailResponse{Id: "msg-1"}}
	c := newTestClient(tr)

	ok := c.Send(context.Background(), "Hello", "<p>hi</p>", []string{"a@example.com"}, "/nonexistent/report.pdf")
	assert.False(t, ok)
	assert.Nil(t, tr.lastRequest)
}

func TestSendToNormalizesSingleRecipient(t *testing.T) {
	tr := &fakeTransport{response: &resend.SendEmailResponse{Id: "msg-1"}}
	c := newTestClient(tr)

	ok := c.SendTo(context.Background(), "Hello", "<p>hi</p>", "solo@example.com")
	assert.True(t, ok)
	require.NotNil(t, tr.lastRequest)
	assert.Equal(t, []string{"solo@example.com"}, tr.lastRequest.To)
}

func TestConfirmationEmailRenders(t *testing.T) {
	tr := &fakeTransport{response: &resend.SendEmailResponse{Id: "msg-1"}}
	c := newTestClient(tr)

	ok := c.SendConfirmationEmail(context.Background(), "new@example.com", "https://example.com/confirm")
	assert.True(t, ok)
	require.NotNil(t, tr.lastRequest)
	assert.Contains(t, tr.lastRequest.Html, "https://example.com/confirm")
}

func TestEmbeddedTemplatesRenderWithPreviewData(t *testing.T) {
	for name, data := range PreviewData {
		body, err := renderTemplate(Template(name), data)
		require.NoError(t, err, "template %s", name)
		for _, value := range data {
			assert.Contains(t, body, value, "template %s", name)
		}
	}
}

func TestAdminDigestRenders(t *testing.T) {
	tr := &fakeTransport{response: &resend.SendEmailResponse{Id: "msg-1"}}
	c := newTestClient(tr)

	ok := c.SendAdminDigest(context.Background(), []string{"admin@example.com"}, "17")
	assert.True(t, ok)
	require.NotNil(t, tr.lastRequest)
	assert.Contains(t, tr.lastRequest.Html, "17")
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravchenko/userhub/internal/errs"
	"github.com/mkravchenko/userhub/internal/model"
	"github.com/mkravchenko/userhub/internal/service"
)

type fakeAuthenticator struct {
	user      *model.User
	err       error
	gotTokens []string
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, token string) (*model.User, error) {
	f.gotTokens = append(f.gotTokens, token)
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func newAuthTestContext(authHeader string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func requireAuth(auth *fakeAuthenticator, next echo.HandlerFunc) echo.HandlerFunc {
	logger := zerolog.Nop()
	mw := NewAuthMiddleware(auth, &logger)
	return mw.RequireAuth(next)
}

func TestRequireAuthMissingHeader(t *testing.T) {
	auth := &fakeAuthenticator{}
	h := requireAuth(auth, func(c echo.Context) error { return nil })

	err := h(newAuthTestContext(""))

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
	assert.Empty(t, auth.gotTokens)
}

func TestRequireAuthWrongScheme(t *testing.T) {
	auth := &fakeAuthenticator{}
	h := requireAuth(auth, func(c echo.Context) error { return nil })

	err := h(newAuthTestContext("Basic dXNlcjpwYXNz"))

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	auth := &fakeAuthenticator{err: service.ErrInvalidToken}
	h := requireAuth(auth, func(c echo.Context) error { return nil })

	err := h(newAuthTestContext("Bearer bad-token"))

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
	assert.Equal(t, []string{"bad-token"}, auth.gotTokens)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	auth := &fakeAuthenticator{err: service.ErrTokenExpired}
	h := requireAuth(auth, func(c echo.Context) error { return nil })

	err := h(newAuthTestContext("Bearer stale-token"))

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
	assert.Contains(t, httpErr.Message, "expired")
}

func TestRequireAuthStoresIdentityInContext(t *testing.T) {
	user := &model.User{ID: 7, Email: "alice@example.com", IsActive: true}
	auth := &fakeAuthenticator{user: user}

	var seenUser *model.User
	var seenID int64
	h := requireAuth(auth, func(c echo.Context) error {
		seenUser = GetUser(c)
		seenID = GetUserID(c)
		return nil
	})

	c := newAuthTestContext("Bearer good-token")
	require.NoError(t, h(c))

	require.NotNil(t, seenUser)
	assert.Equal(t, int64(7), seenUser.ID)
	assert.Equal(t, int64(7), seenID)
	assert.Equal(t, []string{"good-token"}, auth.gotTokens)
}

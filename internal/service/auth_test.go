package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkravchenko/userhub/internal/model"
	"github.com/mkravchenko/userhub/internal/repository"
)

type fakeCredentialStore struct {
	byEmail map[string]*model.User
	byID    map[int64]*model.User
}

func newFakeCredentialStore(users ...*model.User) *fakeCredentialStore {
	s := &fakeCredentialStore{
		byEmail: make(map[string]*model.User),
		byID:    make(map[int64]*model.User),
	}
	for _, u := range users {
		s.byEmail[u.Email] = u
		s.byID[u.ID] = u
	}
	return s
}

func (s *fakeCredentialStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if u, ok := s.byEmail[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeCredentialStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if u, ok := s.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repository.ErrUserNotFound
}

type fakeTokenStore struct {
	revoked map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{revoked: make(map[string]bool)}
}

func (s *fakeTokenStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	s.revoked[tokenID] = true
	return nil
}

func (s *fakeTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthService(store *fakeCredentialStore, tokens *fakeTokenStore, expiry time.Duration) *AuthService {
	logger := zerolog.Nop()
	return NewAuthService(store, tokens, "test-secret-key", expiry, &logger)
}

func TestIssueTokenAndAuthenticate(t *testing.T) {
	user := &model.User{
		ID:           1,
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "password123"),
		IsActive:     true,
	}
	svc := newAuthService(newFakeCredentialStore(user), newFakeTokenStore(), time.Hour)

	token, err := svc.IssueToken(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestIssueTokenWrongPassword(t *testing.T) {
	user := &model.User{
		ID:           1,
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "password123"),
		IsActive:     true,
	}
	svc := newAuthService(newFakeCredentialStore(user), newFakeTokenStore(), time.Hour)

	_, err := svc.IssueToken(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIssueTokenUnknownEmail(t *testing.T) {
	svc := newAuthService(newFakeCredentialStore(), newFakeTokenStore(), time.Hour)

	_, err := svc.IssueToken(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestInactiveAccountCannotObtainTokenUntilReactivated(t *testing.T) {
	user := &model.User{
		ID:           1,
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "password123"),
		IsActive:     false,
	}
	store := newFakeCredentialStore(user)
	svc := newAuthService(store, newFakeTokenStore(), time.Hour)

	_, err := svc.IssueToken(context.Background(), "alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// The same credentials succeed once the account is reactivated.
	user.IsActive = true

	token, err := svc.IssueToken(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestAuthenticateRejectsDeactivatedUser(t *testing.T) {
	user := &model.User{
		ID:           1,
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "password123"),
		IsActive:     true,
	}
	store := newFakeCredentialStore(user)
	svc := newAuthService(store, newFakeTokenStore(), time.Hour)

	token, err := svc.IssueToken(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)

	user.IsActive = false

	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	user := &model.User{
		ID:           1,
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "password123"),
		IsActive:     true,
	}
	svc := newAuthService(newFakeCredentialStore(user), newFakeTokenStore(), -time.Hour)

	token, err := svc.IssueToken(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := newAuthService(newFakeCredentialStore(), newFakeTokenStore(), time.Hour)

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokedTokenIsRejected(t *testing.T) {
	user := &model.User{
		ID:           1,
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "password123"),
		IsActive:     true,
	}
	tokens := newFakeTokenStore()
	svc := newAuthService(newFakeCredentialStore(user), tokens, time.Hour)

	token, err := svc.IssueToken(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeToken(context.Background(), token))
	assert.Len(t, tokens.revoked, 1)

	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

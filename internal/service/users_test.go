package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	errspkg "github.com/mkravchenko/userhub/internal/errs"
	"github.com/mkravchenko/userhub/internal/model"
)

type fakeUserStore struct {
	users map[int64]model.User

	createdBatches [][]model.NewUser
	createErr      error

	updatedBatches [][]model.User
	updateErr      error

	nextID int64
}

func newFakeUserStore(users ...model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[int64]model.User), nextID: 1}
	for _, u := range users {
		s.users[u.ID] = u
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
	return s
}

func (s *fakeUserStore) List(ctx context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *fakeUserStore) GetByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	var out []model.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) CreateBatch(ctx context.Context, users []model.NewUser) ([]model.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.createdBatches = append(s.createdBatches, users)

	out := make([]model.User, 0, len(users))
	for _, nu := range users {
		u := model.User{
			ID:           s.nextID,
			Email:        nu.Email,
			PasswordHash: nu.PasswordHash,
			FirstName:    nu.FirstName,
			LastName:     nu.LastName,
			IsActive:     true,
		}
		s.nextID++
		s.users[u.ID] = u
		out = append(out, u)
	}
	return out, nil
}

func (s *fakeUserStore) UpdateBatch(ctx context.Context, users []model.User) ([]model.User, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.updatedBatches = append(s.updatedBatches, users)

	for _, u := range users {
		s.users[u.ID] = u
	}
	return users, nil
}

type fakeEnqueuer struct {
	batches [][]string
}

func (f *fakeEnqueuer) EnqueueNewUsersEmail(ctx context.Context, emails []string) {
	f.batches = append(f.batches, emails)
}

func newUserService(store *fakeUserStore, tasks *fakeEnqueuer) *UserService {
	logger := zerolog.Nop()
	return NewUserService(store, tasks, &logger)
}

func TestCreateUsersSingleDispatchForBatch(t *testing.T) {
	store := newFakeUserStore()
	tasks := &fakeEnqueuer{}
	svc := newUserService(store, tasks)

	created, err := svc.CreateUsers(context.Background(), []CreateUserInput{
		{Email: "alice@example.com", Password: "password123"},
		{Email: "bob@example.com", Password: "password123"},
		{Email: "carol@example.com", Password: "password123"},
	})
	require.NoError(t, err)
	require.Len(t, created, 3)

	// Batch creation results in exactly one notification dispatch
	// carrying every created address.
	require.Len(t, tasks.batches, 1)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com", "carol@example.com"}, tasks.batches[0])
}

func TestCreateUsersHashesPasswords(t *testing.T) {
	store := newFakeUserStore()
	svc := newUserService(store, &fakeEnqueuer{})

	created, err := svc.CreateUsers(context.Background(), []CreateUserInput{
		{Email: "alice@example.com", Password: "s3cret-password"},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)

	hash := created[0].PasswordHash
	assert.NotEqual(t, "s3cret-password", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-password")))
}

func TestCreateUsersStoreFailureSkipsDispatch(t *testing.T) {
	store := newFakeUserStore()
	store.createErr = errors.New("unique violation")
	tasks := &fakeEnqueuer{}
	svc := newUserService(store, tasks)

	_, err := svc.CreateUsers(context.Background(), []CreateUserInput{
		{Email: "alice@example.com", Password: "password123"},
	})
	require.Error(t, err)
	assert.Empty(t, tasks.batches)
}

func TestUpdateUsersAppliesOnlyTargetedFields(t *testing.T) {
	store := newFakeUserStore(
		model.User{ID: 1, Email: "alice@example.com", FirstName: "Alice", LastName: "Smith", IsActive: true},
		model.User{ID: 2, Email: "bob@example.com", FirstName: "Bob", IsActive: true},
	)
	svc := newUserService(store, &fakeEnqueuer{})

	newName := "Alicia"
	updated, err := svc.UpdateUsers(context.Background(), []UpdateUserInput{
		{ID: 1, FirstName: &newName},
	})
	require.NoError(t, err)
	require.Len(t, updated, 1)

	assert.Equal(t, "Alicia", updated[0].FirstName)
	assert.Equal(t, "alice@example.com", updated[0].Email)
	assert.Equal(t, "Smith", updated[0].LastName)

	// The untargeted user is untouched.
	assert.Equal(t, "Bob", store.users[2].FirstName)
}

func TestUpdateUsersPreservesInputOrder(t *testing.T) {
	store := newFakeUserStore(
		model.User{ID: 1, Email: "alice@example.com", IsActive: true},
		model.User{ID: 2, Email: "bob@example.com", IsActive: true},
	)
	svc := newUserService(store, &fakeEnqueuer{})

	active := false
	updated, err := svc.UpdateUsers(context.Background(), []UpdateUserInput{
		{ID: 2, IsActive: &active},
		{ID: 1, IsActive: &active},
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)

	assert.Equal(t, int64(2), updated[0].ID)
	assert.Equal(t, int64(1), updated[1].ID)
}

func TestUpdateUsersUnknownIDRejectsWholeRequest(t *testing.T) {
	store := newFakeUserStore(
		model.User{ID: 1, Email: "alice@example.com", FirstName: "Alice", IsActive: true},
	)
	svc := newUserService(store, &fakeEnqueuer{})

	newName := "Changed"
	_, err := svc.UpdateUsers(context.Background(), []UpdateUserInput{
		{ID: 1, FirstName: &newName},
		{ID: 42, FirstName: &newName},
		{ID: 99, FirstName: &newName},
	})
	require.Error(t, err)

	var httpErr *errspkg.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Status)
	assert.Contains(t, httpErr.Message, "42, 99")

	// Nothing was written, including the row whose id existed.
	assert.Empty(t, store.updatedBatches)
	assert.Equal(t, "Alice", store.users[1].FirstName)
}

func TestUpdateUsersRehashesChangedPassword(t *testing.T) {
	oldHash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	require.NoError(t, err)

	store := newFakeUserStore(
		model.User{ID: 1, Email: "alice@example.com", PasswordHash: string(oldHash), IsActive: true},
	)
	svc := newUserService(store, &fakeEnqueuer{})

	newPassword := "new-password-123"
	updated, err := svc.UpdateUsers(context.Background(), []UpdateUserInput{
		{ID: 1, Password: &newPassword},
	})
	require.NoError(t, err)
	require.Len(t, updated, 1)

	assert.NotEqual(t, string(oldHash), updated[0].PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated[0].PasswordHash), []byte(newPassword)))
}

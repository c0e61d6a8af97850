package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkravchenko/userhub/internal/errs"
	"github.com/mkravchenko/userhub/internal/model"
)

// bcryptCost is the hashing cost for stored passwords.
const bcryptCost = 12

// UserStore is the slice of the user repository the user service
// depends on.
type UserStore interface {
	List(ctx context.Context) ([]model.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.User, error)
	CreateBatch(ctx context.Context, users []model.NewUser) ([]model.User, error)
	UpdateBatch(ctx context.Context, users []model.User) ([]model.User, error)
}

// TaskEnqueuer dispatches background work. Enqueue is fire-and-forget:
// implementations log broker failures and never return them.
type TaskEnqueuer interface {
	EnqueueNewUsersEmail(ctx context.Context, emails []string)
}

// CreateUserInput carries the validated fields for one user to create.
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateUserInput carries a partial update for one existing user.
// Nil fields are left untouched.
type UpdateUserInput struct {
	ID          int64
	Email       *string
	Password    *string
	FirstName   *string
	LastName    *string
	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
}

// UserService implements user listing and batch create/update.
type UserService struct {
	store  UserStore
	tasks  TaskEnqueuer
	logger *zerolog.Logger
}

// NewUserService constructs a UserService.
func NewUserService(store UserStore, tasks TaskEnqueuer, logger *zerolog.Logger) *UserService {
	return &UserService{
		store:  store,
		tasks:  tasks,
		logger: logger,
	}
}

// ListUsers returns all user records.
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.store.List(ctx)
}

// CreateUsers persists all inputs all-or-nothing and enqueues a single
// confirmation-email task carrying every created address: one dispatch
// per request, however many users it created.
func (s *UserService) CreateUsers(ctx context.Context, inputs []CreateUserInput) ([]model.User, error) {
	newUsers := make([]model.NewUser, 0, len(inputs))
	for _, in := range inputs {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password for %s: %w", in.Email, err)
		}
		newUsers = append(newUsers, model.NewUser{
			Email:        in.Email,
			PasswordHash: string(hash),
			FirstName:    in.FirstName,
			LastName:     in.LastName,
		})
	}

	created, err := s.store.CreateBatch(ctx, newUsers)
	if err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(created))
	for _, u := range created {
		emails = append(emails, u.Email)
	}
	s.tasks.EnqueueNewUsersEmail(ctx, emails)

	s.logger.Info().Int("count", len(created)).Msg("created users")

	return created, nil
}

// UpdateUsers applies partial updates to existing users.
//
// Every referenced id must resolve to an existing row; unknown ids
// reject the whole request before anything is written. All rows are
// resolved against stored state first and persisted in one
// transaction, so a failure on any row leaves every row untouched.
// The result preserves input order.
func (s *UserService) UpdateUsers(ctx context.Context, inputs []UpdateUserInput) ([]model.User, error) {
	ids := make([]int64, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.ID)
	}

	existing, err := s.store.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]model.User, len(existing))
	for _, u := range existing {
		byID[u.ID] = u
	}

	if missing := missingIDs(ids, byID); len(missing) > 0 {
		return nil, errs.NewBadRequestError(
			fmt.Sprintf("user(s) not found: %s", joinIDs(missing)),
			true, nil, nil, nil)
	}

	rows := make([]model.User, 0, len(inputs))
	for _, in := range inputs {
		u := byID[in.ID]

		patch := model.UserPatch{
			ID:          in.ID,
			Email:       in.Email,
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			IsActive:    in.IsActive,
			IsStaff:     in.IsStaff,
			IsSuperuser: in.IsSuperuser,
		}
		if in.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
			if err != nil {
				return nil, fmt.Errorf("hashing password for user %d: %w", in.ID, err)
			}
			hashed := string(hash)
			patch.PasswordHash = &hashed
		}

		patch.Apply(&u)
		rows = append(rows, u)
	}

	updated, err := s.store.UpdateBatch(ctx, rows)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("count", len(updated)).Msg("updated users")

	return updated, nil
}

func missingIDs(requested []int64, found map[int64]model.User) []int64 {
	var missing []int64
	seen := make(map[int64]bool, len(requested))
	for _, id := range requested {
		if _, ok := found[id]; !ok && !seen[id] {
			missing = append(missing, id)
			seen[id] = true
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return strings.Join(parts, ", ")
}

package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravchenko/userhub/internal/model"
)

// ErrUserNotFound is returned when a lookup matches no user row.
var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, email, password_hash, first_name, last_name, is_active, is_staff, is_superuser, created_at, updated_at`

// UserRepository performs all reads and writes on the users table.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a UserRepository over the shared pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.IsActive,
		&u.IsStaff,
		&u.IsSuperuser,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func collectUsers(rows pgx.Rows) ([]model.User, error) {
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// List returns all users ordered by id.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// GetByID returns one user, or ErrUserNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns one user by email, or ErrUserNotFound.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDs returns the users whose ids appear in ids, ordered by id.
// Missing ids are simply absent from the result; the caller decides
// whether that is an error.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// CreateBatch inserts all rows inside one transaction, all-or-nothing:
// a constraint violation on any row (duplicate email, for example)
// rolls back every row. Returns the stored rows in input order.
func (r *UserRepository) CreateBatch(ctx context.Context, users []model.NewUser) ([]model.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created := make([]model.User, 0, len(users))
	for _, nu := range users {
		u, err := scanUser(tx.QueryRow(ctx,
			`INSERT INTO users (email, password_hash, first_name, last_name)
			 VALUES ($1, $2, $3, $4)
			 RETURNING `+userColumns,
			nu.Email, nu.PasswordHash, nu.FirstName, nu.LastName))
		if err != nil {
			return nil, err
		}
		created = append(created, u)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateBatch persists the given rows inside one transaction and
// returns them in input order. Rows are full entities: the service
// layer resolves partial patches against stored state first.
func (r *UserRepository) UpdateBatch(ctx context.Context, users []model.User) ([]model.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	updated := make([]model.User, 0, len(users))
	for _, u := range users {
		stored, err := scanUser(tx.QueryRow(ctx,
			`UPDATE users
			 SET email = $2,
			     password_hash = $3,
			     first_name = $4,
			     last_name = $5,
			     is_active = $6,
			     is_staff = $7,
			     is_superuser = $8,
			     updated_at = now()
			 WHERE id = $1
			 RETURNING `+userColumns,
			u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName,
			u.IsActive, u.IsStaff, u.IsSuperuser))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		if err != nil {
			return nil, err
		}
		updated = append(updated, stored)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// CountActive returns the number of users with the active flag set.
func (r *UserRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE is_active`).Scan(&count)
	return count, err
}

// ActiveAdminEmails returns the emails of users that are both active
// and superusers.
func (r *UserRepository) ActiveAdminEmails(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT email FROM users WHERE is_active AND is_superuser ORDER BY email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

// Package model defines the persistent entities and their wire
// representations.
package model

import "time"

// User is the account entity. Email is the login identifier; there is
// no username field. PasswordHash never leaves the server.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserResponse is the outbound representation of a User.
// The password is accepted on input only and is never serialized out.
type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ToResponse maps the entity onto its wire representation.
func (u User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// NewUser carries the validated fields for a user row about to be
// inserted. The password is already hashed by the service layer.
type NewUser struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
}

// UserPatch carries a partial update for one user row. Nil fields are
// left untouched; the service layer resolves the patch against the
// stored row before persisting.
type UserPatch struct {
	ID           int64
	Email        *string
	PasswordHash *string
	FirstName    *string
	LastName     *string
	IsActive     *bool
	IsStaff      *bool
	IsSuperuser  *bool
}

// Apply folds the patch into the stored row.
func (p UserPatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.IsStaff != nil {
		u.IsStaff = *p.IsStaff
	}
	if p.IsSuperuser != nil {
		u.IsSuperuser = *p.IsSuperuser
	}
}

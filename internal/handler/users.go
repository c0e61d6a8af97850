package handler

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/mkravchenko/userhub/internal/lib/batch"
	"github.com/mkravchenko/userhub/internal/model"
	"github.com/mkravchenko/userhub/internal/server"
	"github.com/mkravchenko/userhub/internal/service"
	"github.com/mkravchenko/userhub/internal/validation"
)

// UsersHandler serves the /users collection: listing, batch create,
// and batch partial update. Create and update accept either a single
// JSON object or an array; the response mirrors the shape the client
// sent.
type UsersHandler struct {
	Handler
	users *service.UserService
}

// NewUsersHandler constructs a UsersHandler.
func NewUsersHandler(s *server.Server, users *service.UserService) *UsersHandler {
	return &UsersHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

// ListUsersRequest is the empty payload for the list endpoint.
type ListUsersRequest struct{}

func (r *ListUsersRequest) Validate() error {
	return nil
}

// CreateUserPayload is one user to create. Password is accepted here
// and never serialized back out.
type CreateUserPayload struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

// CreateUsersRequest accepts a single user object or an array of them.
type CreateUsersRequest struct {
	batch.Items[CreateUserPayload]
}

// Validate checks every row against the payload schema. For array
// requests, field errors carry the row index ("[1].email") so the
// client can match errors to rows.
func (r *CreateUsersRequest) Validate() error {
	if r.Len() == 0 {
		return validation.CustomValidationErrors{{
			Field: "", Message: "at least one user is required",
		}}
	}

	var errs validation.CustomValidationErrors
	for i, item := range r.Values {
		errs = append(errs, validateRow(r.Items, i, item)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateUserPayload is one partial update. ID is a pointer so a
// missing id is distinguishable from id 0.
type UpdateUserPayload struct {
	ID          *int64  `json:"id"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Password    *string `json:"password" validate:"omitempty,min=8"`
	FirstName   *string `json:"first_name" validate:"omitempty,max=150"`
	LastName    *string `json:"last_name" validate:"omitempty,max=150"`
	IsActive    *bool   `json:"is_active"`
	IsStaff     *bool   `json:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser"`
}

// UpdateUsersRequest accepts a single update object or an array of
// them.
type UpdateUsersRequest struct {
	batch.Items[UpdateUserPayload]
}

// Validate enforces the update preconditions in order: every row must
// carry an id, ids must be pairwise distinct within the request, and
// only then is each row checked against the field schema. Any failure
// rejects the whole request.
func (r *UpdateUsersRequest) Validate() error {
	if r.Len() == 0 {
		return validation.CustomValidationErrors{{
			Field: "", Message: "at least one update is required",
		}}
	}

	var errs validation.CustomValidationErrors

	for i, item := range r.Values {
		if item.ID == nil {
			errs = append(errs, validation.CustomValidationError{
				Field:   rowField(r.Items, i, "id"),
				Message: "is required",
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}

	seen := make(map[int64]bool, r.Len())
	for i, item := range r.Values {
		if seen[*item.ID] {
			errs = append(errs, validation.CustomValidationError{
				Field:   rowField(r.Items, i, "id"),
				Message: fmt.Sprintf("multiple updates to the same id: %d", *item.ID),
			})
		}
		seen[*item.ID] = true
	}
	if len(errs) > 0 {
		return errs
	}

	for i, item := range r.Values {
		errs = append(errs, validateRow(r.Items, i, item)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListUsers returns all user records.
func (h *UsersHandler) ListUsers(c echo.Context, req *ListUsersRequest) ([]model.UserResponse, error) {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}

	return responses, nil
}

// CreateUsers persists the posted user(s) and responds with the
// created representation(s) in the shape the client sent.
func (h *UsersHandler) CreateUsers(c echo.Context, req *CreateUsersRequest) (batch.Items[model.UserResponse], error) {
	inputs := make([]service.CreateUserInput, 0, req.Len())
	for _, item := range req.Values {
		inputs = append(inputs, service.CreateUserInput{
			Email:     item.Email,
			Password:  item.Password,
			FirstName: item.FirstName,
			LastName:  item.LastName,
		})
	}

	created, err := h.users.CreateUsers(c.Request().Context(), inputs)
	if err != nil {
		return batch.Items[model.UserResponse]{}, err
	}

	return usersResponse(req.Many, created), nil
}

// UpdateUsers applies the posted partial update(s) and responds with
// the updated representation(s), preserving input order and shape.
func (h *UsersHandler) UpdateUsers(c echo.Context, req *UpdateUsersRequest) (batch.Items[model.UserResponse], error) {
	inputs := make([]service.UpdateUserInput, 0, req.Len())
	for _, item := range req.Values {
		inputs = append(inputs, service.UpdateUserInput{
			ID:          *item.ID,
			Email:       item.Email,
			Password:    item.Password,
			FirstName:   item.FirstName,
			LastName:    item.LastName,
			IsActive:    item.IsActive,
			IsStaff:     item.IsStaff,
			IsSuperuser: item.IsSuperuser,
		})
	}

	updated, err := h.users.UpdateUsers(c.Request().Context(), inputs)
	if err != nil {
		return batch.Items[model.UserResponse]{}, err
	}

	return usersResponse(req.Many, updated), nil
}

// usersResponse wraps service results in the shape tag of the request
// that produced them.
func usersResponse(many bool, users []model.User) batch.Items[model.UserResponse] {
	out := batch.Items[model.UserResponse]{Many: many, Values: make([]model.UserResponse, 0, len(users))}
	for _, u := range users {
		out.Values = append(out.Values, u.ToResponse())
	}
	return out
}

// validateRow runs the tag validator over one row and prefixes field
// names with the row index for array requests.
func validateRow[T any](items batch.Items[T], i int, row T) validation.CustomValidationErrors {
	err := validation.Validate.Struct(row)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return validation.CustomValidationErrors{{Field: "", Message: err.Error()}}
	}

	out := make(validation.CustomValidationErrors, 0, len(verrs))
	for _, verr := range verrs {
		out = append(out, validation.CustomValidationError{
			Field:   rowField(items, i, verr.Field()),
			Message: validation.TagMessage(verr),
		})
	}
	return out
}

// rowField renders a field reference, index-prefixed for array
// requests: "email" for a single object, "[1].email" for row 1.
func rowField[T any](items batch.Items[T], i int, field string) string {
	if !items.Many {
		return field
	}
	return fmt.Sprintf("[%d].%s", i, field)
}

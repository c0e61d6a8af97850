package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravchenko/userhub/internal/model"
	"github.com/mkravchenko/userhub/internal/validation"
)

func decodeCreate(t *testing.T, body string) *CreateUsersRequest {
	t.Helper()
	var req CreateUsersRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func decodeUpdate(t *testing.T, body string) *UpdateUsersRequest {
	t.Helper()
	var req UpdateUsersRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func fieldErrors(t *testing.T, err error) validation.CustomValidationErrors {
	t.Helper()
	require.Error(t, err)
	verrs, ok := err.(validation.CustomValidationErrors)
	require.True(t, ok, "expected CustomValidationErrors, got %T", err)
	return verrs
}

func TestCreateRequestSingleObject(t *testing.T) {
	req := decodeCreate(t, `{"email":"a@example.com","password":"password123","first_name":"A"}`)

	assert.False(t, req.Many)
	require.Equal(t, 1, req.Len())
	assert.NoError(t, req.Validate())
}

func TestCreateRequestArray(t *testing.T) {
	req := decodeCreate(t, `[
		{"email":"a@example.com","password":"password123"},
		{"email":"b@example.com","password":"password123"}
	]`)

	assert.True(t, req.Many)
	assert.Equal(t, 2, req.Len())
	assert.NoError(t, req.Validate())
}

func TestCreateRequestRejectsScalarBody(t *testing.T) {
	var req CreateUsersRequest
	err := json.Unmarshal([]byte(`"alice"`), &req)
	assert.Error(t, err)
}

func TestCreateRequestFieldErrorsCarryRowIndex(t *testing.T) {
	req := decodeCreate(t, `[
		{"email":"a@example.com","password":"password123"},
		{"email":"not-an-email","password":"short"}
	]`)

	verrs := fieldErrors(t, req.Validate())

	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.Contains(t, fields, "[1].email")
	assert.Contains(t, fields, "[1].password")
	assert.NotContains(t, fields, "[0].email")
}

func TestCreateRequestSingleObjectFieldsUnprefixed(t *testing.T) {
	req := decodeCreate(t, `{"email":"bad","password":"password123"}`)

	verrs := fieldErrors(t, req.Validate())
	require.Len(t, verrs, 1)
	assert.Equal(t, "email", verrs[0].Field)
}

func TestCreateRequestRejectsEmptyBatch(t *testing.T) {
	req := decodeCreate(t, `[]`)
	assert.Error(t, req.Validate())
}

func TestUpdateRequestMissingIDRejectsWholeRequest(t *testing.T) {
	req := decodeUpdate(t, `[
		{"id":1,"first_name":"A"},
		{"first_name":"B"}
	]`)

	verrs := fieldErrors(t, req.Validate())
	require.Len(t, verrs, 1)
	assert.Equal(t, "[1].id", verrs[0].Field)
	assert.Equal(t, "is required", verrs[0].Message)
}

func TestUpdateRequestDuplicateIDsRejected(t *testing.T) {
	req := decodeUpdate(t, `[
		{"id":7,"first_name":"A"},
		{"id":8,"first_name":"B"},
		{"id":7,"first_name":"C"}
	]`)

	verrs := fieldErrors(t, req.Validate())
	require.Len(t, verrs, 1)
	assert.Equal(t, "[2].id", verrs[0].Field)
	assert.Contains(t, verrs[0].Message, "multiple updates to the same id")
}

func TestUpdateRequestIDZeroIsPresent(t *testing.T) {
	// id 0 is present, just unknown; presence validation must not
	// confuse it with a missing id.
	req := decodeUpdate(t, `{"id":0,"first_name":"A"}`)
	assert.NoError(t, req.Validate())
}

func TestUpdateRequestSingleObject(t *testing.T) {
	req := decodeUpdate(t, `{"id":3,"email":"new@example.com"}`)

	assert.False(t, req.Many)
	require.Equal(t, 1, req.Len())
	assert.NoError(t, req.Validate())
	assert.Equal(t, int64(3), *req.Values[0].ID)
}

func TestUpdateRequestFieldValidationAfterIDChecks(t *testing.T) {
	req := decodeUpdate(t, `[{"id":1,"email":"not-an-email"}]`)

	verrs := fieldErrors(t, req.Validate())
	require.Len(t, verrs, 1)
	assert.Equal(t, "[0].email", verrs[0].Field)
}

func TestUsersResponseMirrorsShape(t *testing.T) {
	users := []model.User{
		{ID: 1, Email: "a@example.com", FirstName: "A"},
		{ID: 2, Email: "b@example.com", FirstName: "B"},
	}

	single := usersResponse(false, users[:1])
	data, err := json.Marshal(single)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"email":"a@example.com","first_name":"A","last_name":""}`, string(data))

	many := usersResponse(true, users)
	data, err = json.Marshal(many)
	require.NoError(t, err)

	var arr []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &arr))
	assert.Len(t, arr, 2)
}

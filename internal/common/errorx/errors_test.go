package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithParam_CopiesAndRenders(t *testing.T) {
	err := ErrInvalidField.WithParam("Field", "email")

	assert.Equal(t, "Invalid value for field email.", err.DefaultMessage())
	assert.Equal(t, "[E1005] Invalid value for field email.", err.Error())
	// the shared value is untouched
	assert.Empty(t, ErrInvalidField.Data)
	assert.Equal(t, "Invalid value for field {{.Field}}.", ErrInvalidField.DefaultMessage())
}

func TestIs_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("lookup: %w", ErrUserNotFound.WithParam("ID", "x"))
	assert.True(t, errors.Is(err, ErrUserNotFound))
	assert.False(t, errors.Is(err, ErrEntityNotFound))
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("redis down")
	err := ErrInternal.Wrap(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "redis down")
	assert.Nil(t, ErrInternal.Unwrap())
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	api := From(fmt.Errorf("ctx: %w", ErrForbidden))
	assert.Equal(t, http.StatusForbidden, api.HTTPStatus)
	assert.Equal(t, CategoryAuthorization, api.Category)

	plain := From(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, plain.HTTPStatus)
	assert.Equal(t, "ErrorInternal", plain.MessageID)
	assert.Contains(t, plain.Error(), "boom")
}

func TestCategoriesMapToStatus(t *testing.T) {
	cases := []struct {
		err    *APIError
		status int
	}{
		{ErrInvalidBody, http.StatusBadRequest},
		{ErrSuperAdminDelete, http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrRoleChangeForbidden, http.StatusForbidden},
		{ErrWorkItemNotFound, http.StatusNotFound},
		{ErrUsernameExists, http.StatusConflict},
		{ErrInternal, http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, c.err.HTTPStatus, c.err.Code)
	}
}

package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryValidation     ErrorCategory = "validation"
	CategoryAuthentication ErrorCategory = "authentication"
	CategoryAuthorization  ErrorCategory = "authorization"
	CategoryNotFound       ErrorCategory = "not_found"
	CategoryConflict       ErrorCategory = "conflict"
	CategoryInternal       ErrorCategory = "internal"
)

// APIError is an error that knows its HTTP status and how to be translated.
// Message is the English text used when no translation exists; it may
// reference Data entries as {{.Key}}.
type APIError struct {
	Code       string
	MessageID  string
	Message    string
	Category   ErrorCategory
	HTTPStatus int
	Data       map[string]any

	cause error
}

func newAPIError(code, msgID, msg string, category ErrorCategory, status int) *APIError {
	return &APIError{
		Code:       code,
		MessageID:  msgID,
		Message:    msg,
		Category:   category,
		HTTPStatus: status,
	}
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.DefaultMessage(), e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.DefaultMessage())
}

// DefaultMessage renders Message with Data substituted
func (e *APIError) DefaultMessage() string {
	msg := e.Message
	for k, v := range e.Data {
		msg = strings.ReplaceAll(msg, "{{."+k+"}}", fmt.Sprint(v))
	}
	return msg
}

// Unwrap returns the wrapped cause, if any
func (e *APIError) Unwrap() error {
	return e.cause
}

// Is matches two APIErrors by code so that copies made by WithParam and
// Wrap still match the predefined value.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func (e *APIError) clone() *APIError {
	cp := *e
	cp.Data = make(map[string]any, len(e.Data)+1)
	for k, v := range e.Data {
		cp.Data[k] = v
	}
	return &cp
}

// WithParam returns a copy of the error carrying a template parameter
func (e *APIError) WithParam(key string, value any) *APIError {
	cp := e.clone()
	cp.Data[key] = value
	return cp
}

// Wrap returns a copy of the error with err attached as its cause
func (e *APIError) Wrap(err error) *APIError {
	cp := e.clone()
	cp.cause = err
	return cp
}

// From converts any error to an APIError. Unknown errors become ErrInternal
// with the original error kept as cause.
func From(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return ErrInternal.Wrap(err)
}

// Validation Errors (E1000-E1999)
var (
	ErrInvalidBody         = newAPIError("E1001", "ErrorInvalidBody", "Invalid request body.", CategoryValidation, http.StatusBadRequest)
	ErrCredentialsRequired = newAPIError("E1002", "ErrorCredentialsRequired", "Username and password are required.", CategoryValidation, http.StatusBadRequest)
	ErrUserFieldsRequired  = newAPIError("E1003", "ErrorUserFieldsRequired", "Username, password, and role are required.", CategoryValidation, http.StatusBadRequest)
	ErrInvalidRole         = newAPIError("E1004", "ErrorInvalidRole", "Invalid user role.", CategoryValidation, http.StatusBadRequest)
	ErrInvalidField        = newAPIError("E1005", "ErrorInvalidField", "Invalid value for field {{.Field}}.", CategoryValidation, http.StatusBadRequest)
	ErrTimeOrder           = newAPIError("E1006", "ErrorTimeOrder", "End time must be after start time.", CategoryValidation, http.StatusBadRequest)
	ErrSuperAdminDelete    = newAPIError("E1007", "ErrorSuperAdminDelete", "Super Admin cannot be deleted.", CategoryValidation, http.StatusBadRequest)
)

// Authentication Errors (E2000-E2999)
var (
	ErrUnauthorized       = newAPIError("E2001", "ErrorUnauthorized", "Authentication required.", CategoryAuthentication, http.StatusUnauthorized)
	ErrInvalidCredentials = newAPIError("E2002", "ErrorInvalidCredentials", "Invalid credentials.", CategoryAuthentication, http.StatusUnauthorized)
	ErrUnknownCaller      = newAPIError("E2003", "ErrorUnknownCaller", "Unknown user {{.UserID}}.", CategoryAuthentication, http.StatusUnauthorized)
)

// Authorization Errors (E3000-E3999)
var (
	ErrForbidden               = newAPIError("E3001", "ErrorForbidden", "You do not have permission to perform this action.", CategoryAuthorization, http.StatusForbidden)
	ErrRoleChangeForbidden     = newAPIError("E3002", "ErrorRoleChangeForbidden", "Only Level 3 users can change roles.", CategoryAuthorization, http.StatusForbidden)
	ErrUsernameChangeForbidden = newAPIError("E3003", "ErrorUsernameChangeForbidden", "Only Level 2 or Level 3 users can change usernames.", CategoryAuthorization, http.StatusForbidden)
)

// Not Found Errors (E4000-E4999)
var (
	ErrEntityNotFound   = newAPIError("E4001", "ErrorEntityNotFound", "Entity not found.", CategoryNotFound, http.StatusNotFound)
	ErrUserNotFound     = newAPIError("E4002", "ErrorUserNotFound", "User not found.", CategoryNotFound, http.StatusNotFound)
	ErrEntryNotFound    = newAPIError("E4003", "ErrorEntryNotFound", "Tracking entry not found.", CategoryNotFound, http.StatusNotFound)
	ErrWorkItemNotFound = newAPIError("E4004", "ErrorWorkItemNotFound", "Work item not found.", CategoryNotFound, http.StatusNotFound)
	ErrRouteNotFound    = newAPIError("E4005", "ErrorRouteNotFound", "Not found.", CategoryNotFound, http.StatusNotFound)
)

// Conflict Errors (E4090-E4099)
var (
	ErrUsernameExists = newAPIError("E4091", "ErrorUsernameExists", "Username already exists.", CategoryConflict, http.StatusConflict)
)

// Internal Errors (E5000-E5999)
var (
	ErrInternal = newAPIError("E5001", "ErrorInternal", "Internal server error.", CategoryInternal, http.StatusInternalServerError)
)

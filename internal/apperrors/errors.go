package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindValidation      Kind = "VALIDATION_ERROR"
	KindConflict        Kind = "CONFLICT"
	KindStorage         Kind = "STORAGE_ERROR"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind and message so wrapped copies still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Storage wraps an unexpected persistence failure.
func Storage(err error, message string) *Error {
	return Wrap(err, KindStorage, message)
}

var (
	ErrInvalidCredentials = New(KindUnauthenticated, "invalid credentials")
	ErrUsernameTaken      = New(KindConflict, "Username is already registered")
	ErrUserNotFound       = New(KindNotFound, "User not found")
	ErrUsernameLength     = New(KindValidation, "Username must be 2-32 characters")
	ErrUsernameMarkup     = New(KindValidation, "Username must not contain markup")

	ErrSelfReference         = New(KindValidation, "Cannot add yourself")
	ErrDuplicateRelationship = New(KindValidation, "Request already exists")
	ErrRelationshipNotFound  = New(KindNotFound, "Friendship not found")
	ErrNotParticipant        = New(KindForbidden, "Not authorized")

	ErrSelfMessage    = New(KindValidation, "Cannot message yourself")
	ErrEmptyContent   = New(KindValidation, "Message content is required")
	ErrContentTooLong = New(KindValidation, "Message content must be at most 2000 characters")
	ErrMissingTarget  = New(KindValidation, "receiverId is required")
	ErrNotFriends     = New(KindForbidden, "You must be friends to message")
)

// KindOf returns the kind of the first *Error in the chain, or KindStorage.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorage
}

// MessageOf returns the client-facing message for err.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindStorage {
		return appErr.Message
	}
	return "internal server error"
}

// HTTPStatus maps a kind onto the status code the API surfaces.
// Conflict is reported as 400 to match the registration contract.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var (
	ErrMissingFile      = New(KindValidation, "profilePicture file is required")
	ErrFileTooLarge     = New(KindValidation, "File too large")
	ErrUnsupportedImage = New(KindValidation, "Only image files are allowed")
)

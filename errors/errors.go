package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUserAlreadyExists      = fmt.Errorf("user already exists")
	ErrInvalidCredentials     = fmt.Errorf("invalid credentials")
	ErrInvalidPassword        = fmt.Errorf("password does not meet complexity rules")
	ErrInvalidRole            = fmt.Errorf("invalid role")
	ErrTokenGeneration        = fmt.Errorf("token generation failed")
	ErrValidation             = fmt.Errorf("validation failed")
	ErrUnknownCause           = fmt.Errorf("unknown cause tag")
	ErrProfileNotFound        = fmt.Errorf("profile not found")
	ErrProfileIncomplete      = fmt.Errorf("profile is not complete")
	ErrProfileAlreadyComplete = fmt.Errorf("profile setup already done")
	ErrUnsupportedImage       = fmt.Errorf("unsupported image content")
	ErrConversationNotFound   = fmt.Errorf("conversation not found")
	ErrSelfConversation       = fmt.Errorf("cannot start a conversation with yourself")
	ErrNotParticipant         = fmt.Errorf("user is not a participant of this conversation")
	ErrEmptyMessage           = fmt.Errorf("message text is empty")
	ErrMessageTooLong         = fmt.Errorf("message text exceeds the maximum length")
	ErrWorkerPanic            = fmt.Errorf("worker panic")
)

// MapToHTTPStatus translates domain sentinels into transport status codes.
// Anything unmapped is a 500: store failures are reported, never re-thrown.
func MapToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidPassword),
		errors.Is(err, ErrInvalidRole),
		errors.Is(err, ErrUnknownCause),
		errors.Is(err, ErrEmptyMessage),
		errors.Is(err, ErrMessageTooLong),
		errors.Is(err, ErrSelfConversation),
		errors.Is(err, ErrUnsupportedImage):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrTokenGeneration):
		return http.StatusUnauthorized
	case errors.Is(err, ErrProfileIncomplete), errors.Is(err, ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, ErrProfileNotFound), errors.Is(err, ErrConversationNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUserAlreadyExists), errors.Is(err, ErrProfileAlreadyComplete):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

package ai

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindInvalidCredentials Kind = "invalid_credentials"
	KindQuotaExceeded      Kind = "quota_exceeded"
	KindInvalidRequest     Kind = "invalid_request"
	KindInvalidVoice       Kind = "invalid_voice"
	KindProviderError      Kind = "provider_error"
)

// Error is the failure every AI provider reports. Status is the upstream HTTP
// status when one was received, 0 otherwise.
type Error struct {
	Kind   Kind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ai: %s", e.Kind)
	}
	return fmt.Sprintf("ai: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindQuotaExceeded:
		return http.StatusTooManyRequests
	case KindInvalidRequest, KindInvalidVoice:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message is safe to show to API clients.
func (e *Error) Message() string {
	switch e.Kind {
	case KindInvalidCredentials:
		return "AI provider rejected the configured credentials"
	case KindQuotaExceeded:
		return "AI provider quota exceeded, try again later"
	case KindInvalidRequest:
		return "AI provider rejected the request"
	case KindInvalidVoice:
		return "invalid voice"
	default:
		return "AI provider error"
	}
}

func FromStatus(status int, err error) *Error {
	var kind Kind
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = KindInvalidCredentials
	case http.StatusTooManyRequests:
		kind = KindQuotaExceeded
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = KindInvalidRequest
	default:
		kind = KindProviderError
	}
	return &Error{Kind: kind, Status: status, Err: err}
}

func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable reports a transport-level failure: the server could not
	// be reached or did not answer in time.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized reports a rejected credential or bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInviteInvalid reports an invite token the server would not accept,
	// whether unknown, already consumed or expired. The client does not
	// distinguish the sub-reasons.
	ErrInviteInvalid = errors.New("invite token invalid or expired")
)

// APIError is a domain rejection from the platform API. Reason carries the
// server-supplied human-readable detail when present.
type APIError struct {
	Status int
	Reason string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Reason, e.Status)
	}
	return fmt.Sprintf("api: request rejected (status %d)", e.Status)
}

// Unwrap lets callers match rejected-credential responses with
// errors.Is(err, ErrUnauthorized) while still reaching the reason.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case 401, 403:
		return ErrUnauthorized
	default:
		return nil
	}
}

// Reason extracts the server-supplied detail from an error chain, if any.
func Reason(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Reason
	}
	return ""
}

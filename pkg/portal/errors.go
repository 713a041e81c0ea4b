package portal

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or missing input. It is raised before any
// network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AuthorizationError reports that the actor lacks the relationship or role
// required for the action. It is raised before any network call is made.
type AuthorizationError struct {
	Action string
	Actor  string
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s not allowed for %s: %s", e.Action, e.Actor, e.Reason)
}

// RateLimitedError is returned when the server answers 429. It is transient
// and, on the status-poll path, absorbed by the export orchestrator.
type RateLimitedError struct {
	Op string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: rate limited", e.Op)
}

// NetworkError wraps a connectivity failure (no HTTP response received).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError carries a non-2xx HTTP status and the server-provided message.
type ServerError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: server returned %d", e.Op, e.StatusCode)
}

// IsRateLimited reports whether err is a transient 429 response.
func IsRateLimited(err error) bool {
	var rl *RateLimitedError
	return errors.As(err, &rl)
}

// IsUnauthorized reports whether err is an expired/absent-credential response.
// Callers surface it as an auth failure instead of retrying.
func IsUnauthorized(err error) bool {
	var se *ServerError
	return errors.As(err, &se) && se.StatusCode == 401
}

// StatusCode extracts the HTTP status from a server error, or 0.
func StatusCode(err error) int {
	var se *ServerError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

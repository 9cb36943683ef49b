package fetch

import "time"

// ErrorKind classifies a fetch failure. Every error surfaced by a strategy
// or the pipeline carries exactly one kind; callers branch on the kind, not
// the message text.
type ErrorKind string

const (
	ErrNoStrategy         ErrorKind = "no_available_strategy"
	ErrAuthRequired       ErrorKind = "authentication_required"
	ErrInvalidCredentials ErrorKind = "invalid_credentials"
	ErrNetwork            ErrorKind = "network_error"
	ErrParse              ErrorKind = "parse_error"
	ErrTimeout            ErrorKind = "timeout"
	ErrRateLimited        ErrorKind = "rate_limited"
	ErrCommandFailed      ErrorKind = "command_failed"
	ErrAPI                ErrorKind = "api_error"
	ErrNotRunning         ErrorKind = "not_running"
	ErrMissingAuthToken   ErrorKind = "missing_auth_token"
	ErrPortDetection      ErrorKind = "port_detection_failed"
	ErrCancelled          ErrorKind = "cancelled"
)

// Error is a classified fetch failure. Errors are data: they travel inside
// attempts and outcomes and never abort the process.
type Error struct {
	Kind       ErrorKind      `json:"kind"`
	Message    string         `json:"message"`
	RetryAfter *time.Duration `json:"retry_after,omitempty"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is reports kind equality, so errors.Is(err, &Error{Kind: k}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func Errorf(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func RateLimitedError(msg string, retryAfter *time.Duration) *Error {
	return &Error{Kind: ErrRateLimited, Message: msg, RetryAfter: retryAfter}
}

// KindOf returns the kind of a fetch error, or empty for nil/foreign errors.
func KindOf(err error) ErrorKind {
	if fe, ok := err.(*Error); ok {
		return fe.Kind
	}
	return ""
}

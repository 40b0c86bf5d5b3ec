package veracity

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// Codes map one-to-one onto the classes callers see at the system boundary.
// They are transport-agnostic; the http package owns the mapping
// to status codes.
const (
	ECONFIG     = "config"     // backend credential missing
	EEXTRACTION = "extraction" // URL fetch, parse or content failure
	EINTERNAL   = "internal"   // unclassified failure
	EINVALID    = "invalid"    // malformed or insufficient request
	EMODEL      = "model"      // backend auth, quota or schema failure
	ENOTFOUND   = "not_found"
	ETIMEOUT    = "timeout" // fetch or backend deadline exceeded
)

// Reason subdivides an error code by cause.
type Reason string

// Error reasons.
const (
	ReasonNone                Reason = ""
	ReasonMissingInput        Reason = "missing_input"
	ReasonTooShort            Reason = "too_short"
	ReasonInvalidURL          Reason = "invalid_url"
	ReasonForbidden           Reason = "forbidden"
	ReasonNotFound            Reason = "not_found"
	ReasonServerUnavailable   Reason = "server_unavailable"
	ReasonFetchFailed         Reason = "fetch_failed"
	ReasonNetworkUnreachable  Reason = "network_unreachable"
	ReasonNotHTML             Reason = "not_html"
	ReasonInsufficientContent Reason = "insufficient_content"
	ReasonMissingCredential   Reason = "missing_credential"
	ReasonAuthFailed          Reason = "auth_failed"
	ReasonRateLimited         Reason = "rate_limited"
	ReasonSchemaViolation     Reason = "schema_violation"
	ReasonTimeout             Reason = "timeout"
)

// Error represents an application-specific error. Message is safe to show to
// end users; Err holds the underlying cause for logs and is never surfaced.
type Error struct {
	Code    string
	Reason  Reason
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("veracity error: code=%s reason=%s message=%s: %v", e.Code, e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("veracity error: code=%s reason=%s message=%s", e.Code, e.Reason, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Reasonf returns an Error with a code, a reason and a formatted message.
func Reasonf(code string, reason Reason, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap attaches an underlying cause to e and returns it.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorReason unwraps an application error and returns its reason.
func ErrorReason(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ReasonNone
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

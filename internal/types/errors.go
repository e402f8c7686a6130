package types

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies relay failures.
type ErrorKind string

// Error kinds
const (
	KindInvalidInput      ErrorKind = "invalid_input"
	KindMissingModel      ErrorKind = "missing_model"
	KindUnknownModel      ErrorKind = "unknown_model"
	KindMissingCredential ErrorKind = "missing_credential"
	KindUpstream          ErrorKind = "upstream_error"
	KindTransport         ErrorKind = "transport_error"
	KindMethodNotAllowed  ErrorKind = "method_not_allowed"
	KindServer            ErrorKind = "server_error"
)

// Error is a typed relay failure. Message is safe to show to the caller;
// Err carries the underlying cause for logging.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, &Error{Kind: k}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// AsError returns err as a typed *Error, wrapping unknown errors as server errors.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrServer(err)
}

// WriteError serializes err as {"error": message} with its status code.
func WriteError(w http.ResponseWriter, err error) {
	e := AsError(err)
	WriteJSON(w, e.Status, ErrorResponse{Error: e.Message})
}

// ErrInvalidInput creates an invalid request body error.
func ErrInvalidInput(message string, cause error) *Error {
	return &Error{Kind: KindInvalidInput, Status: http.StatusBadRequest, Message: message, Err: cause}
}

// ErrBodyTooLarge creates an error for request bodies over the size limit.
func ErrBodyTooLarge(cause error) *Error {
	return &Error{Kind: KindInvalidInput, Status: http.StatusRequestEntityTooLarge, Message: "Request body too large", Err: cause}
}

// ErrMissingModel creates an error for a request without a model key.
func ErrMissingModel() *Error {
	return &Error{Kind: KindMissingModel, Status: http.StatusBadRequest, Message: "Model not specified"}
}

// ErrUnknownModel creates an error for a model key with no route.
func ErrUnknownModel(model string) *Error {
	return &Error{Kind: KindUnknownModel, Status: http.StatusBadRequest, Message: "Unknown model: " + model}
}

// ErrMissingCredential creates an error for a provider without a configured secret.
func ErrMissingCredential(provider string) *Error {
	return &Error{
		Kind:    KindMissingCredential,
		Status:  http.StatusInternalServerError,
		Message: provider + " API key not configured",
	}
}

// ErrUpstream creates an error carrying the upstream's own status code.
func ErrUpstream(status int, message string) *Error {
	return &Error{Kind: KindUpstream, Status: status, Message: message}
}

// ErrInvalidUpstreamResponse creates an error for a 2xx body without a reply.
func ErrInvalidUpstreamResponse(provider string, cause error) *Error {
	return &Error{
		Kind:    KindUpstream,
		Status:  http.StatusInternalServerError,
		Message: "Invalid response from " + provider + " API",
		Err:     cause,
	}
}

// ErrTransport creates an error for a failed upstream round trip.
// Any occurrence of secret is masked in the caller-visible message.
func ErrTransport(cause error, secret string) *Error {
	return &Error{
		Kind:    KindTransport,
		Status:  http.StatusInternalServerError,
		Message: "Server error: " + Redact(cause.Error(), secret),
		Err:     cause,
	}
}

// Redact masks every occurrence of secret in text.
func Redact(text, secret string) string {
	if secret == "" {
		return text
	}
	return strings.ReplaceAll(text, secret, "[REDACTED]")
}

// ErrMethodNotAllowed creates an error for unsupported HTTP methods.
func ErrMethodNotAllowed() *Error {
	return &Error{Kind: KindMethodNotAllowed, Status: http.StatusMethodNotAllowed, Message: "Method not allowed"}
}

// ErrServer wraps an unexpected failure.
func ErrServer(cause error) *Error {
	return &Error{
		Kind:    KindServer,
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf("Server error: %v", cause),
		Err:     cause,
	}
}

package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed gateway call. Only KindNetwork failures are
// retried; every other kind is terminal for the call.
type Kind int

const (
	// KindUnknown covers anything the other kinds do not.
	KindUnknown Kind = iota
	// KindNetwork is a timeout or transport-level failure.
	KindNetwork
	// KindAuthentication is a 401 or 403 from the far end.
	KindAuthentication
	// KindValidation is any other 4xx.
	KindValidation
	// KindAPI is a 5xx or otherwise unclassified non-2xx.
	KindAPI
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "NETWORK_ERROR"
	case KindAuthentication:
		return "AUTHENTICATION_ERROR"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindAPI:
		return "API_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Error is a classified gateway failure.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	cause      error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %d - %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Retryable reports whether the fetch client may retry after this error.
func (e *Error) Retryable() bool {
	return e.Kind == KindNetwork
}

// networkError wraps a transport failure.
func networkError(message string, cause error) *Error {
	return &Error{Kind: KindNetwork, Message: message, cause: cause}
}

// classifyStatus maps a well-formed error response to its kind.
func classifyStatus(status int, message string) *Error {
	kind := KindAPI
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindAuthentication
	case status >= 400 && status < 500:
		kind = KindValidation
	}
	if message == "" {
		message = "Unknown error"
	}
	return &Error{Kind: kind, StatusCode: status, Message: message}
}

// KindOf extracts the kind from any error, defaulting to KindUnknown.
func KindOf(err error) Kind {
	var gatewayErr *Error
	if errors.As(err, &gatewayErr) {
		return gatewayErr.Kind
	}
	return KindUnknown
}

package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnknownCode means the backend answered a lookup but had no destination for the code
var ErrUnknownCode = errors.New("short code has no destination")

// TransportError means a request never produced a usable response
type TransportError struct {
	Op  string // "shorten", "links", "analytics", "lookup"
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RejectionError is a non-success HTTP status from the backend
type RejectionError struct {
	Op         string
	StatusCode int
	Detail     string // Backend-supplied explanation, if any
	Cached     bool   // Replayed from the unknown-code cache
}

func (e *RejectionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP Error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("HTTP Error %d", e.StatusCode)
}

// IsTransport reports whether err is a transport failure
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsRejection reports whether err is a non-success HTTP status
func IsRejection(err error) bool {
	var re *RejectionError
	return errors.As(err, &re)
}

// IsUnknownCode reports whether err says the code does not exist.
// The backend signals that with a 404 carrying a detail message.
func IsUnknownCode(err error) bool {
	if errors.Is(err, ErrUnknownCode) {
		return true
	}
	var re *RejectionError
	return errors.As(err, &re) && re.StatusCode == http.StatusNotFound && re.Detail != ""
}

// Detail extracts the backend-supplied explanation from err, if any
func Detail(err error) string {
	var re *RejectionError
	if errors.As(err, &re) {
		return re.Detail
	}
	return ""
}

package todoapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrItemNotFound is returned when the API answers 404.
var ErrItemNotFound = errors.New("item not found")

// UnknownError reports any non-200, non-404 status, or a 200 whose body
// could not be decoded.
type UnknownError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UnknownError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: unknown error (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: unknown error (status %d)", e.Op, e.StatusCode)
}

func (e *UnknownError) Unwrap() error { return e.Err }

// NetworkError reports a transport failure: no HTTP status was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNotFound reports whether err signals a missing item.
func IsNotFound(err error) bool { return errors.Is(err, ErrItemNotFound) }

// IsUnknown reports whether err is an *UnknownError.
func IsUnknown(err error) bool {
	var ue *UnknownError
	return errors.As(err, &ue)
}

// IsNetwork reports whether err is a *NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// statusError maps a response status to the error returned for op.
// 200 is the only success status, including for creation.
func statusError(op string, status int) error {
	switch status {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrItemNotFound)
	default:
		return &UnknownError{Op: op, StatusCode: status}
	}
}

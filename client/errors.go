package client

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// The gateway surfaces every failure as one of five error kinds. Callers
// branch with errors.As; nothing is retried inside the client.

// ValidationError is bad input the client or server detected before any
// state changed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return "validation: " + e.Message }

// AuthError is bad credentials or an expired session.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return "auth: " + e.Message }

// ForbiddenError is a role-mismatched signup or transition attempt.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return "forbidden: " + e.Message }

// NotFoundError means no matching order or profile exists.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return "not found: " + e.Message }

// ConflictError means a concurrent writer got there first, e.g. an order
// acceptance race or a duplicate email.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return "conflict: " + e.Message }

// NetworkError wraps transport failures not otherwise classified.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// classify maps an HTTP failure to the error taxonomy.
func classify(status int, body []byte) error {
	var eb errorBody
	msg := fmt.Sprintf("HTTP %d", status)
	if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
		msg = eb.Error
		if eb.Reason != "" {
			msg += ": " + eb.Reason
		}
	}

	switch {
	case status == http.StatusUnauthorized:
		return &AuthError{Message: msg}
	case status == http.StatusForbidden:
		return &ForbiddenError{Message: msg}
	case status == http.StatusNotFound:
		return &NotFoundError{Message: msg}
	case status == http.StatusConflict:
		return &ConflictError{Message: msg}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return &ValidationError{Message: msg}
	default:
		return &NetworkError{Err: fmt.Errorf("%s", msg)}
	}
}

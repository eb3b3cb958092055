package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed API call so callers can branch without reading messages.
type Kind int

const (
	KindTransient Kind = iota
	KindNotFound
	KindConflict
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid"
	}
	return "transient"
}

// Sentinels for errors.Is against an *Error of the matching kind.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrInvalid   = errors.New("invalid request")
	ErrTransient = errors.New("transient failure")
)

// Error is returned for every failed request. Message carries the server's
// "error" field when there is one.
type Error struct {
	Kind       Kind
	StatusCode int // 0 when the request never got a response
	Message    string
	Err        error // underlying transport or decode error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrInvalid:
		return e.Kind == KindInvalid
	case ErrTransient:
		return e.Kind == KindTransient
	}
	return false
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindInvalid
	}
	return KindTransient
}

func newStatusError(status int, serverMessage string) *Error {
	msg := serverMessage
	if msg == "" {
		msg = fmt.Sprintf("API request failed: %s", http.StatusText(status))
	}
	return &Error{
		Kind:       kindForStatus(status),
		StatusCode: status,
		Message:    msg,
	}
}

func newTransportError(err error) *Error {
	return &Error{
		Kind:    KindTransient,
		Message: fmt.Sprintf("API request failed: %v", err),
		Err:     err,
	}
}

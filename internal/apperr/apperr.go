package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	Unauthorized Kind = "unauthorized"
	Forbidden    Kind = "forbidden"
	Invalid      Kind = "invalid"
	NotFound     Kind = "not_found"
	Backend      Kind = "backend"
	Internal     Kind = "internal"
)

const fallbackMessage = "Something went wrong, please try again"

// AppError carries a message that is safe to show the operator next to the
// underlying cause, which only goes to the log.
type AppError struct {
	Kind      Kind
	PublicMsg string
	Field     string
	Status    int
	Err       error
}

func (e *AppError) Error() string {
	msg := e.PublicMsg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *AppError) Unwrap() error { return e.Err }

func UnauthorizedErr(publicMsg string) *AppError {
	return &AppError{Kind: Unauthorized, PublicMsg: publicMsg, Status: http.StatusUnauthorized}
}

func ForbiddenErr(publicMsg string) *AppError {
	return &AppError{Kind: Forbidden, PublicMsg: publicMsg, Status: http.StatusForbidden}
}

// InvalidErr reports a single local validation violation. The request it
// guards is never sent.
func InvalidErr(field, publicMsg string) *AppError {
	return &AppError{Kind: Invalid, Field: field, PublicMsg: publicMsg}
}

func NotFoundErr(publicMsg string) *AppError {
	return &AppError{Kind: NotFound, PublicMsg: publicMsg, Status: http.StatusNotFound}
}

// BackendErr maps a failed backend response. msg is the backend-provided
// message and may be empty.
func BackendErr(status int, msg string, err error) *AppError {
	kind := Backend
	switch status {
	case http.StatusUnauthorized:
		kind = Unauthorized
	case http.StatusForbidden:
		kind = Forbidden
	case http.StatusNotFound:
		kind = NotFound
	}
	return &AppError{Kind: kind, PublicMsg: msg, Status: status, Err: err}
}

func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if ae, ok := As(err); ok {
		return ae
	}
	return &AppError{Kind: Internal, Err: err}
}

func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func Is(err error, kind Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == kind
}

// IsAuth reports whether err means the operator has to log in again.
func IsAuth(err error) bool {
	return Is(err, Unauthorized) || Is(err, Forbidden)
}

func PublicMessage(err error) string {
	if ae, ok := As(err); ok && ae.PublicMsg != "" {
		return ae.PublicMsg
	}
	return fallbackMessage
}

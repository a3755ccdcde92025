// Package server provides the HTTP API of the OneLink portfolio service.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/onelink/portfolio-api/internal/db"
	"github.com/onelink/portfolio-api/internal/ingestion"
)

// Client-facing messages for errors that must not leak internals.
const (
	msgUnsupportedType = "Only PDF and DOCX files are supported"
	msgTooLarge        = "File too large"
	msgUserGone        = "User not found"
	msgInternal        = "Internal server error"
)

// statusCoder is implemented by the service errors below. Anything else maps
// to 500 unless it is one of the ingestion or transport errors handled in
// HTTPStatus.
type statusCoder interface {
	StatusCode() int
}

type ErrEmailAlreadyExists struct{ Email string }

func (e *ErrEmailAlreadyExists) Error() string   { return "email already registered: " + e.Email }
func (e *ErrEmailAlreadyExists) StatusCode() int { return http.StatusConflict }

// ErrInvalidCredentials covers both an unknown email and a wrong password so
// that login does not reveal which accounts exist.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string   { return "invalid email or password" }
func (e *ErrInvalidCredentials) StatusCode() int { return http.StatusUnauthorized }

type ErrUserNotFound struct{ UserID uuid.UUID }

func (e *ErrUserNotFound) Error() string   { return fmt.Sprintf("user not found: %s", e.UserID) }
func (e *ErrUserNotFound) StatusCode() int { return http.StatusNotFound }

type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string   { return "current password is incorrect" }
func (e *ErrPasswordMismatch) StatusCode() int { return http.StatusUnauthorized }

// ErrValidation names the first request field that failed validation and
// the rule it broke.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}
func (e *ErrValidation) StatusCode() int { return http.StatusBadRequest }

// HTTPStatus picks the response status for err, looking through wrapping.
func HTTPStatus(err error) int {
	var (
		coded    statusCoder
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &coded):
		return coded.StatusCode()
	case errors.Is(err, ingestion.ErrUnsupportedMediaType):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrNotFound):
		// The token outlived its account.
		return http.StatusNotFound
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// publicMessage returns the error text shown to clients. Server errors,
// including ingestion.PersistenceError, collapse to a generic message.
func publicMessage(err error) string {
	switch status := HTTPStatus(err); {
	case status == http.StatusInternalServerError:
		return msgInternal
	case status == http.StatusRequestEntityTooLarge:
		return msgTooLarge
	case errors.Is(err, ingestion.ErrUnsupportedMediaType):
		return msgUnsupportedType
	case status == http.StatusNotFound && errors.Is(err, db.ErrNotFound):
		return msgUserGone
	}
	return err.Error()
}

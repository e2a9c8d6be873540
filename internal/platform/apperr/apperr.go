// Package apperr defines the error taxonomy shared by all domain services:
// NotFound, Conflict, Validation and Integrity. Handlers translate these into
// HTTP status codes through the echo error handler in this package; repos
// translate raw pgx errors into them through FromPG.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindValidation
	KindIntegrity
)

// Error is a typed, caller-reportable failure. Anything that is not an
// *Error is treated as an unexpected persistence failure and surfaced
// generically.
type Error struct {
	Kind    Kind
	Message string
	err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.err }

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Integrity(msg string) *Error {
	return &Error{Kind: KindIntegrity, Message: msg}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Postgres SQLSTATE codes the repos care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// FromPG translates a pgx-level error into the taxonomy. entity names the
// affected row for the resulting message.
func FromPG(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound(entity)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &Error{Kind: KindConflict, Message: entity + " already exists", err: err}
		case pgForeignKeyViolation:
			return &Error{Kind: KindIntegrity, Message: entity + " is referenced by other records", err: err}
		}
	}
	return err
}

// HTTPErrorHandler maps taxonomy errors to status codes and logs anything
// unexpected. Wire it as echo's HTTPErrorHandler in the server bootstrap.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		var appErr *Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = statusFor(appErr.Kind)
			message = appErr.Message
		case errors.As(err, &httpErr):
			status = httpErr.Code
			message = fmt.Sprintf("%v", httpErr.Message)
		default:
			logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, map[string]string{"detail": message})
	}
}

func statusFor(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	case KindIntegrity:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

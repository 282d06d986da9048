package response

import (
	"errors"
	"net/http"

	"github.com/campushive/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Kind classifies an AppError. It is returned to clients as error_kind.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindTooManyRequests Kind = "too_many_requests"
	KindUnexpected      Kind = "unexpected"
)

// Response is the unified API response envelope.
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	ErrorKind Kind        `json:"error_kind,omitempty"`
}

// AppError is a typed failure returned by services.
type AppError struct {
	HTTPStatus int
	Kind       Kind
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches another AppError of the same kind, so callers can write
// errors.Is(err, response.ErrForbidden).
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Kind-only values for errors.Is checks.
var (
	ErrValidation      = &AppError{Kind: KindValidation}
	ErrUnauthenticated = &AppError{Kind: KindUnauthenticated}
	ErrForbidden       = &AppError{Kind: KindForbidden}
	ErrNotFound        = &AppError{Kind: KindNotFound}
	ErrConflict        = &AppError{Kind: KindConflict}
	ErrUnexpected      = &AppError{Kind: KindUnexpected}
)

func NewValidation(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Kind: KindValidation, Message: msg}
}

func NewUnauthenticated(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Kind: KindUnauthenticated, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Kind: KindForbidden, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Kind: KindNotFound, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusConflict, Kind: KindConflict, Message: msg}
}

func NewTooManyRequests(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusTooManyRequests, Kind: KindTooManyRequests, Message: msg}
}

func NewUnexpected(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Kind: KindUnexpected, Message: msg}
}

// --- Gin response helpers ---

// Success sends a 200 OK response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// Created sends a 201 Created response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// Message sends a 200 OK response carrying only a message.
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: msg})
}

// Error sends a failure envelope. Anything that is not an *AppError is
// logged and reported as a generic unexpected error.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		Fail(c, appErr)
		return
	}
	logger.Error().Err(err).
		Str("request_id", logger.RequestID(c)).
		Str("path", c.Request.URL.Path).
		Msg("unexpected error")
	Fail(c, NewUnexpected("internal server error"))
}

// Fail writes appErr and aborts the handler chain.
func Fail(c *gin.Context, appErr *AppError) {
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, Response{
		Success:   false,
		Message:   appErr.Message,
		ErrorKind: appErr.Kind,
	})
}

// Convenience error response functions

func BadRequest(c *gin.Context, msg string) {
	Fail(c, NewValidation(msg))
}

func Unauthorized(c *gin.Context, msg string) {
	Fail(c, NewUnauthenticated(msg))
}

func Forbidden(c *gin.Context, msg string) {
	Fail(c, NewForbidden(msg))
}

func NotFound(c *gin.Context, msg string) {
	Fail(c, NewNotFound(msg))
}

func ServerError(c *gin.Context, msg string) {
	Fail(c, NewUnexpected(msg))
}

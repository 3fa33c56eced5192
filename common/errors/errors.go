package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-service/common/logger"
)

// Kind classifies an application error independently of its message.
type Kind string

const (
	KindBadRequest          Kind = "bad_request"
	KindNotFound            Kind = "not_found"
	KindConstraintViolation Kind = "constraint_violation"
	KindStoreUnavailable    Kind = "store_unavailable"
	KindInternal            Kind = "internal"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match when target is an *Error of the same kind, so the
// sentinels below work with errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code int, kind Kind, message string, err error) *Error {
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of base with its own message and cause.
func Wrap(base *Error, message string, err error) *Error {
	if message == "" {
		message = base.Message
	}
	return New(base.Code, base.Kind, message, err)
}

// Common error types
var (
	ErrBadRequest          = New(http.StatusBadRequest, KindBadRequest, "Bad request", nil)
	ErrNotFound            = New(http.StatusNotFound, KindNotFound, "Not found", nil)
	ErrConstraintViolation = New(http.StatusConflict, KindConstraintViolation, "Constraint violation", nil)
	ErrStoreUnavailable    = New(http.StatusServiceUnavailable, KindStoreUnavailable, "Store unavailable", nil)
	ErrInternalServer      = New(http.StatusInternalServerError, KindInternal, "Internal server error", nil)
)

// BadRequest, NotFound, ConstraintViolation and StoreUnavailable build errors of
// the matching kind.
func BadRequest(message string) *Error { return Wrap(ErrBadRequest, message, nil) }

func NotFound(message string) *Error { return Wrap(ErrNotFound, message, nil) }

func ConstraintViolation(message string, err error) *Error {
	return Wrap(ErrConstraintViolation, message, err)
}

func StoreUnavailable(err error) *Error { return Wrap(ErrStoreUnavailable, "", err) }

// As extracts the *Error from err, falling back to an internal server error.
func As(err error) *Error {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(ErrInternalServer, "", err)
}

// ErrorMiddleware renders the last error attached to the gin context.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		appErr := As(c.Errors.Last().Err)
		if appErr.Code >= http.StatusInternalServerError {
			logger.Error(c, "Request failed", appErr.Err,
				zap.String("kind", string(appErr.Kind)),
				zap.String("path", c.FullPath()),
			)
		}
		c.AbortWithStatusJSON(appErr.Code, gin.H{
			"code":    appErr.Code,
			"error":   appErr.Message,
			"kind":    appErr.Kind,
			"message": appErr.Message,
		})
	}
}

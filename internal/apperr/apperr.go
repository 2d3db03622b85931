package apperr

import (
	"errors"
	"net/http"
)

// E 统一业务错误：Code 即 HTTP 状态码
type E struct {
	Code int
	Msg  string
	Err  error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *E) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &E{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &E{Code: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &E{Code: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &E{Code: http.StatusNotFound, Msg: msg} }
func Conflict(msg string) error     { return &E{Code: http.StatusConflict, Msg: msg} }
func Internal(msg string, err error) error {
	return &E{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// Status maps any error to an HTTP status. Unknown errors are 500.
func Status(err error) int {
	var e *E
	if errors.As(err, &e) {
		return e.Code
	}
	return http.StatusInternalServerError
}

// Detail returns the wrapped cause, if any. Only exposed outside production.
func Detail(err error) string {
	var e *E
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

func IsCode(err error, code int) bool { return Status(err) == code }

// Package errors holds the error type every service returns for failures a
// client should see. Anything else is rendered as a generic 500.
package errors

import (
	stderrors "errors"
	"net/http"
)

// AppError pairs an HTTP status with the user-facing (Vietnamese) message.
type AppError struct {
	Code     int    `json:"-"`
	Message  string `json:"message"`
	IsBanned bool   `json:"isBanned,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// As finds the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// StatusOf returns the HTTP status err maps to.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

var (
	ErrInvalidRequest = New(http.StatusBadRequest, "Dữ liệu không hợp lệ")
	ErrUnauthorized   = New(http.StatusUnauthorized, "Chưa đăng nhập")
	ErrForbidden      = New(http.StatusForbidden, "Bạn không có quyền thực hiện thao tác này")
	ErrInternalServer = New(http.StatusInternalServerError, "Lỗi máy chủ, vui lòng thử lại sau")
	ErrRateLimit      = New(http.StatusTooManyRequests, "Quá nhiều yêu cầu, vui lòng thử lại sau")
)

const BannedMessage = "Tài khoản của bạn đã bị khóa do vi phạm điều khoản dịch vụ. Vui lòng liên hệ admin để được hỗ trợ."

func BadRequest(msg string) *AppError   { return New(http.StatusBadRequest, msg) }
func NotFound(msg string) *AppError     { return New(http.StatusNotFound, msg) }
func Unauthorized(msg string) *AppError { return New(http.StatusUnauthorized, msg) }
func Forbidden(msg string) *AppError    { return New(http.StatusForbidden, msg) }

// Conflict is reported as 400, the status clients already handle for duplicates.
func Conflict(msg string) *AppError { return New(http.StatusBadRequest, msg) }

func Banned() *AppError {
	return &AppError{Code: http.StatusForbidden, Message: BannedMessage, IsBanned: true}
}

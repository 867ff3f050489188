package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

const (
	UnknownCode    int32 = 500
	DefaultStatus  int32 = http.StatusInternalServerError
	UnknownReason        = "UNKNOWN"
	UnknownMessage       = "unknown error"
)

// Error 带错误码的错误, 由 transport 层按 HttpStatus 写回客户端
type Error interface {
	error
	Code() int32
	HttpStatus() int32
	Reason() string
	Message() string
	Unwrap() error
}

type statusError struct {
	code    int32
	status  int32
	reason  string
	message string
	cause   error
}

// New 创建一个错误, 同一 code 和 reason 的错误通过 errors.Is 判定为相等
func New(code int32, status int32, reason, message string) Error {
	return &statusError{
		code:    code,
		status:  status,
		reason:  reason,
		message: message,
	}
}

// Newf 同 New, message 支持格式化
func Newf(code int32, status int32, reason, format string, args ...any) Error {
	return New(code, status, reason, fmt.Sprintf(format, args...))
}

// FromError 使用指定的错误码包装 cause
func FromError(code int32, status int32, reason, message string, cause error) Error {
	return &statusError{
		code:    code,
		status:  status,
		reason:  reason,
		message: message,
		cause:   cause,
	}
}

// Wrap 复用 e 的错误码和原因, 附加 cause
func Wrap(e Error, cause error) Error {
	return FromError(e.Code(), e.HttpStatus(), e.Reason(), e.Message(), cause)
}

func (e *statusError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("error: code = %d reason = %s message = %s cause = %v", e.code, e.reason, e.message, e.cause)
	}
	return fmt.Sprintf("error: code = %d reason = %s message = %s", e.code, e.reason, e.message)
}

func (e *statusError) Code() int32 {
	return e.code
}

func (e *statusError) HttpStatus() int32 {
	return e.status
}

func (e *statusError) Reason() string {
	return e.reason
}

func (e *statusError) Message() string {
	return e.message
}

func (e *statusError) Unwrap() error {
	return e.cause
}

func (e *statusError) Is(target error) bool {
	t, ok := target.(Error)
	if !ok {
		return false
	}

	return t.Code() == e.code && t.Reason() == e.reason
}

func (e *statusError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Code    int32  `json:"code"`
		Reason  string `json:"reason"`
		Message string `json:"message"`
	}{
		Code:    e.code,
		Reason:  e.reason,
		Message: e.message,
	})
}

// FromAny 将任意错误转换为 Error, 无法识别的错误转换为 UNKNOWN
func FromAny(err error) Error {
	if err == nil {
		return nil
	}

	var e Error
	if stderrors.As(err, &e) {
		return e
	}

	return FromError(UnknownCode, DefaultStatus, UnknownReason, UnknownMessage, err)
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Package errorx 带错误码的错误类型。
// errors.Is 只比较错误码，因此可以用 New(code, "") 作为哨兵错误。
package errorx

import (
	"errors"
	"fmt"

	"lsqsolve/infra/errorx/errCode"
)

type Error struct {
	Code  errCode.Code
	Msg   string
	cause error
}

func New(code errCode.Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

func Newf(code errCode.Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap 保留底层错误, 可通过 errors.Unwrap / errors.As 取回
func Wrap(code errCode.Code, msg string, err error) *Error {
	return &Error{Code: code, Msg: msg, cause: err}
}

func (e *Error) Error() string {
	s := e.Code.String()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf 取出错误链上第一个 errorx 错误码, 非 errorx 错误返回 OK=false
func CodeOf(err error) (errCode.Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return errCode.OK, false
}

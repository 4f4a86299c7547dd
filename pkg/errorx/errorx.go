package errorx

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/scholarbee/admissions-core-api/pkg/errorx/code"
)

// StatusError 携带业务错误码的错误
// 最佳实践:
// - 业务处理链路的末端返回StatusError, PostProcess据此给出用户友好的响应
// - 其余error照常包装传递, 不吞错误
type StatusError interface {
	error
	Code() int32
	Msg() string
}

type statusError struct {
	code  int32
	msg   string
	extra map[string]string
	cause error
	stack string
}

type Option func(*statusError)

// KV 为错误附加上下文键值对, 只进入日志, 不进入给前端的msg
func KV(k, v string) Option {
	return func(e *statusError) {
		if e.extra == nil {
			e.extra = make(map[string]string)
		}
		e.extra[k] = v
	}
}

func newStatusError(c int32, cause error, opts ...Option) *statusError {
	e := &statusError{code: c, cause: cause, stack: string(debug.Stack())}
	if d, ok := code.Definition(c); ok {
		e.msg = d.Message
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// New 根据已注册的错误码构造StatusError
func New(c int32, opts ...Option) error {
	return newStatusError(c, nil, opts...)
}

// WrapByCode 用错误码包装底层错误, err为nil时返回nil
func WrapByCode(err error, c int32, opts ...Option) error {
	if err == nil {
		return nil
	}
	return newStatusError(c, err, opts...)
}

func (e *statusError) Code() int32 { return e.code }

func (e *statusError) Msg() string { return e.msg }

func (e *statusError) Unwrap() error { return e.cause }

func (e *statusError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("code=%d msg=%s", e.code, e.msg))
	for k, v := range e.extra {
		sb.WriteString(fmt.Sprintf(" %s=%s", k, v))
	}
	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}
	sb.WriteString("\nstacktrace:\n")
	sb.WriteString(e.stack)
	return sb.String()
}

// ErrorWithoutStack 返回不含堆栈的错误描述, 用于单行日志
func ErrorWithoutStack(err error) string {
	if err == nil {
		return ""
	}
	var se *statusError
	if errors.As(err, &se) {
		s := se.Error()
		if i := strings.Index(s, "\nstacktrace:"); i >= 0 {
			return s[:i]
		}
		return s
	}
	return err.Error()
}

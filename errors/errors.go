package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// PlatformError is implemented by every error created by this package.
type PlatformError interface {
	error

	// Code returns the error's classification.
	Code() ErrorCode

	// Message returns the message without the cause appended.
	Message() string

	// Context returns a copy of the key/value context attached to the error.
	Context() map[string]interface{}

	// Unwrap returns the underlying cause, if any.
	Unwrap() error
}

type platformError struct {
	code    ErrorCode
	message string
	context map[string]interface{}
	cause   error
}

// New creates an error with the given code and message.
//
//nolint:ireturn // PlatformError is the package's public contract.
func New(code ErrorCode, message string) PlatformError {
	return &platformError{code: code, message: message}
}

// Newf creates an error with a formatted message.
//
//nolint:ireturn // PlatformError is the package's public contract.
func Newf(code ErrorCode, format string, args ...interface{}) PlatformError {
	return &platformError{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to cause. Returns nil if cause is nil.
func Wrap(cause error, code ErrorCode, message string) error {
	if cause == nil {
		return nil
	}
	return &platformError{code: code, message: message, cause: cause}
}

// WrapWithContext is Wrap with additional key/value context.
func WrapWithContext(cause error, code ErrorCode, message string, ctx map[string]interface{}) error {
	if cause == nil {
		return nil
	}
	return &platformError{code: code, message: message, context: copyContext(ctx), cause: cause}
}

// WithContext returns a copy of err with the given context merged in.
// Errors not created by this package are wrapped with CodeUnknown.
func WithContext(err error, ctx map[string]interface{}) error {
	if err == nil {
		return nil
	}
	var pe *platformError
	if !stderrors.As(err, &pe) {
		return WrapWithContext(err, CodeUnknown, "error", ctx)
	}
	merged := copyContext(pe.context)
	if merged == nil {
		merged = make(map[string]interface{}, len(ctx))
	}
	for k, v := range ctx {
		merged[k] = v
	}
	return &platformError{code: pe.code, message: pe.message, context: merged, cause: pe.cause}
}

// Error implements error. Context keys are rendered in sorted order.
func (e *platformError) Error() string {
	var b strings.Builder
	b.WriteString(e.message)
	if len(e.context) > 0 {
		keys := make([]string, 0, len(e.context))
		for k := range e.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" [")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.context[k])
		}
		b.WriteString("]")
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

func (e *platformError) Code() ErrorCode { return e.code }

func (e *platformError) Message() string { return e.message }

func (e *platformError) Context() map[string]interface{} { return copyContext(e.context) }

func (e *platformError) Unwrap() error { return e.cause }

// Is reports a match when target is a PlatformError carrying the same code
// and no message, so New(code, "") can be used as a code-only sentinel.
func (e *platformError) Is(target error) bool {
	t, ok := target.(*platformError)
	if !ok {
		return false
	}
	if t.message == "" {
		return t.code == e.code
	}
	return t.code == e.code && t.message == e.message
}

// CodeOf returns the code of the outermost PlatformError in err's chain,
// or CodeUnknown.
func CodeOf(err error) ErrorCode {
	var pe PlatformError
	if stderrors.As(err, &pe) {
		return pe.Code()
	}
	return CodeUnknown
}

// HasCode reports whether any PlatformError in err's chain has the code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if pe, ok := err.(PlatformError); ok && pe.Code() == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Is, As and Unwrap mirror the standard library so callers need a single import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return stderrors.As(err, target) }

// Unwrap returns the result of calling Unwrap on err.
func Unwrap(err error) error { return stderrors.Unwrap(err) }

func copyContext(ctx map[string]interface{}) map[string]interface{} {
	if ctx == nil {
		return nil
	}
	out := make(map[string]interface{}, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}

// Package apperr carries the error taxonomy used across services. Handlers
// map kinds to HTTP status codes; repositories and services attach a kind
// instead of encoding it in the message text.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindAuthorization
	KindValidation
	KindCapacity
	KindPayment
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Authorization(format string, args ...any) error {
	return &Error{Kind: KindAuthorization, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func Capacity(format string, args ...any) error {
	return &Error{Kind: KindCapacity, Msg: fmt.Sprintf(format, args...)}
}

func Payment(msg string, err error) error {
	return &Error{Kind: KindPayment, Msg: msg, Err: err}
}

// KindOf reports the kind of err, unwrapping as needed. Errors without a
// kind are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

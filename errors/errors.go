package errors

import (
	"fmt"
)

type Error interface {
	error

	Code() int
	Message() string
	Cause() error
}

// DefaultCode is used when no code is given. It is set to 500 so that
// an unclassified failure never passes for an auth or validation error.
var DefaultCode = 500

type clientError struct {
	code    int
	msg     string
	network bool
	cause   *clientError
}

func (err *clientError) Error() string {
	if err.cause == nil {
		return err.msg
	}

	return fmt.Sprintf("%s: %v", err.msg, err.cause)
}

func (err *clientError) Code() int {
	return err.code
}

func (err *clientError) Message() string {
	return err.msg
}

func (err *clientError) Cause() error {
	if err.cause == nil {
		return nil
	}
	return err.cause
}

type ErrorEnricher func(error) error

// WithCode sets the HTTP code the backend answered with.
func WithCode(code int) ErrorEnricher {
	return func(err error) error {
		if err == nil {
			return nil
		}

		if cErr, ok := err.(*clientError); ok {
			cErr.code = code
			return cErr
		}

		return &clientError{
			msg:  err.Error(),
			code: code,
		}
	}
}

// Network marks the error as a transport failure: the request never got
// an HTTP answer.
func Network() ErrorEnricher {
	return func(err error) error {
		if err == nil {
			return nil
		}

		if cErr, ok := err.(*clientError); ok {
			cErr.network = true
			return cErr
		}

		return &clientError{
			msg:     err.Error(),
			code:    DefaultCode,
			network: true,
		}
	}
}

func WithCause(cause error) ErrorEnricher {
	var cCause *clientError
	switch cause := cause.(type) {
	case *clientError:
		cCause = cause
	default:
		cCause = &clientError{msg: cause.Error(), code: DefaultCode}
	}

	return func(err error) error {
		if err == nil {
			return nil
		}

		if cErr, ok := err.(*clientError); ok {
			cErr.cause = cCause
			return cErr
		}

		return &clientError{
			msg:   err.Error(),
			code:  cCause.code,
			cause: cCause,
		}
	}
}

func New(msg string, fs ...ErrorEnricher) error {
	var err error
	err = &clientError{
		msg:  msg,
		code: DefaultCode,
	}

	for _, f := range fs {
		err = f(err)
	}

	return err
}

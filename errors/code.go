package errors

import (
	"net/http"
)

func BadRequest() ErrorEnricher   { return WithCode(http.StatusBadRequest) }
func Unauthorized() ErrorEnricher { return WithCode(http.StatusUnauthorized) }
func Forbidden() ErrorEnricher    { return WithCode(http.StatusForbidden) }
func NotFound() ErrorEnricher     { return WithCode(http.StatusNotFound) }

// IsNetwork reports whether err is a transport failure, i.e. the call
// never reached the backend.
func IsNetwork(err error) bool {
	cErr, ok := err.(*clientError)
	return ok && cErr.network
}

// IsAuth reports whether the backend refused the credential. Missing,
// invalid and expired tokens are indistinguishable here.
func IsAuth(err error) bool {
	cErr, ok := err.(Error)
	if !ok {
		return false
	}
	return cErr.Code() == http.StatusUnauthorized || cErr.Code() == http.StatusForbidden
}

// IsValidation reports whether the backend rejected the input itself,
// e.g. a weak password or an already registered email.
func IsValidation(err error) bool {
	cErr, ok := err.(Error)
	if !ok {
		return false
	}
	return cErr.Code() == http.StatusBadRequest || cErr.Code() == http.StatusUnprocessableEntity
}

package internal

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Mas20150/DisciteOmnes/errors"
)

// Success reports whether the backend accepted the call. The membership
// and plan writes answer 201 or 204, so anything in the 2xx range
// counts.
func Success(res *http.Response) bool {
	return res.StatusCode >= 200 && res.StatusCode < 300
}

// CallError turns a non-2xx response into an error carrying the HTTP
// code. The auth endpoints and the table endpoints use different error
// payloads, so every known message field is probed.
func CallError(res *http.Response) error {
	var callErr struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	// A body that does not decode is not worth failing over, the code
	// is the signal.
	_ = json.NewDecoder(res.Body).Decode(&callErr)

	msg := callErr.Message
	if msg == "" {
		msg = callErr.Msg
	}
	if msg == "" {
		msg = callErr.ErrorDescription
	}
	if msg == "" {
		msg = res.Status
	}

	return errors.New(fmt.Sprintf("error in call: %v", msg), errors.WithCode(res.StatusCode))
}

// NetworkError wraps a transport failure: the request never reached the
// backend, there is no HTTP code to report.
func NetworkError(err error) error {
	return errors.New("request failed", errors.Network(), errors.WithCause(err))
}

// Eq renders a PostgREST equality filter, e.g. Eq(3) -> "eq.3".
func Eq(v interface{}) string {
	return fmt.Sprintf("eq.%v", v)
}

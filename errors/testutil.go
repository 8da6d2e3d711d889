package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertCode checks the HTTP code carried by err. A plain error only
// matches the default code.
func AssertCode(t *testing.T, err error, code int) {
	cerr, ok := err.(Error)
	if !ok {
		if code != DefaultCode {
			assert.Fail(t, fmt.Sprintf("error %v carries no code, expected %d", err, code))
		}
		return
	}

	assert.Equal(t, code, cerr.Code(), "code should be equal")
}

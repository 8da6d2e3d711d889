package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mas20150/DisciteOmnes/errors"
)

func TestParseArgs(t *testing.T) {
	tts := map[string]struct {
		input string
		args  []string
	}{
		"single word":      {"tasks", []string{"tasks"}},
		"plain arguments":  {"login me@example.com s3cret", []string{"login", "me@example.com", "s3cret"}},
		"quoted argument":  {`task add "Read chapter 1" 2025-11-01`, []string{"task", "add", "Read chapter 1", "2025-11-01"}},
		"extra whitespace": {"group   use  2", []string{"group", "use", "2"}},
		"empty quotes drop": {`group create ""`, []string{"group", "create"}},
	}

	for name, tt := range tts {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.args, parseArgs(tt.input))
		})
	}
}

func TestDescribe(t *testing.T) {
	tts := map[string]struct {
		err  error
		text string
	}{
		"validation": {
			err:  errors.New("group name is required", errors.BadRequest()),
			text: "group name is required",
		},
		"auth": {
			err:  errors.New("invalid credentials", errors.Unauthorized()),
			text: "not allowed: invalid credentials",
		},
		"network": {
			err:  errors.New("request failed", errors.Network()),
			text: "could not reach the server (request failed)",
		},
	}

	for name, tt := range tts {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.text, describe(tt.err))
		})
	}
}

func TestPosition1(t *testing.T) {
	index, err := position1("2", 3)
	assert.NoError(t, err)
	assert.Equal(t, 1, index)

	for _, arg := range []string{"0", "4", "x", "-1"} {
		_, err := position1(arg, 3)
		assert.Error(t, err, arg)
		assert.True(t, errors.IsValidation(err), arg)
	}
}

package screens

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mas20150/DisciteOmnes/errors"
)

func TestRunFlow(t *testing.T) {
	var ran []string
	step := func(name string, err error) FlowStep {
		return FlowStep{
			Name: name,
			Run: func(context.Context) error {
				ran = append(ran, name)
				return err
			},
		}
	}

	name, err := RunFlow(context.Background(), []FlowStep{
		step("one", nil),
		step("two", nil),
		step("three", nil),
	})
	require.NoError(t, err)
	assert.Empty(t, name)
	assert.Equal(t, []string{"one", "two", "three"}, ran)
}

func TestRunFlow_ShortCircuit(t *testing.T) {
	var ran []string
	boom := errors.New("boom", errors.Unauthorized())
	steps := []FlowStep{
		{Name: "first", Run: func(context.Context) error { ran = append(ran, "first"); return nil }},
		{Name: "second", Run: func(context.Context) error { ran = append(ran, "second"); return boom }},
		{Name: "third", Run: func(context.Context) error { ran = append(ran, "third"); return nil }},
	}

	name, err := RunFlow(context.Background(), steps)
	require.Error(t, err)
	assert.Equal(t, "second", name)
	assert.Equal(t, []string{"first", "second"}, ran, "the failing step must stop the flow")

	// The step's error comes back untouched, keeping its taxonomy.
	assert.True(t, errors.IsAuth(err))
}

func TestLoop_Order(t *testing.T) {
	loop := NewLoop()

	var got []int
	loop.Post(func() { got = append(got, 1) })
	loop.Post(func() { got = append(got, 2) })

	loop.Step()
	assert.Equal(t, []int{1}, got)

	loop.Drain()
	assert.Equal(t, []int{1, 2}, got)

	// Drain on an empty loop returns immediately.
	loop.Drain()
	assert.Equal(t, []int{1, 2}, got)
}

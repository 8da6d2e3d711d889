package screens

import (
	"context"
)

// FlowStep is one stage of a sequential workflow: create-then-join,
// login-then-fetch-user-then-fetch-group. Steps run in order and the
// first failure short-circuits the rest; there is no compensation, a
// partial flow leaves whatever the completed steps wrote.
type FlowStep struct {
	Name string
	Run  func(context.Context) error
}

// RunFlow executes the steps in order. On failure it returns the name
// of the failing step together with the step's own error, untouched, so
// the caller can still classify it.
func RunFlow(ctx context.Context, steps []FlowStep) (string, error) {
	for _, step := range steps {
		if err := step.Run(ctx); err != nil {
			return step.Name, err
		}
	}
	return "", nil
}

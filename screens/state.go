package screens

// State is the display state of a screen. Unauthenticated is not a
// state: a controller that finds the session incomplete routes away
// before loading anything.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return "unknown"
}

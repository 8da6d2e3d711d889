// Package screens holds one controller per use case. Controllers read
// the session store, drive the backend clients and keep an in-memory
// display list; every network call runs in its own goroutine and its
// completion is delivered back on the UI loop.
package screens

// Loop serializes completion callbacks onto the single UI goroutine.
// Gateway goroutines Post, the UI goroutine Steps or Drains. There is
// no other cross-goroutine state, so controllers need no locking.
type Loop struct {
	ch chan func()
}

func NewLoop() *Loop {
	return &Loop{
		ch: make(chan func(), 64),
	}
}

// Post queues f for execution on the UI goroutine.
func (l *Loop) Post(f func()) {
	l.ch <- f
}

// Step blocks until one callback arrives and runs it. Callers know how
// many completions they are owed: one per triggered operation.
func (l *Loop) Step() {
	f := <-l.ch
	f()
}

// Drain runs whatever callbacks are already queued, without blocking.
func (l *Loop) Drain() {
	for {
		select {
		case f := <-l.ch:
			f()
		default:
			return
		}
	}
}

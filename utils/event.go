package utils

import "sync"

// Event signals a one-time occurrence, e.g. the abort of a run, to any
// number of goroutines. Signal may be called repeatedly and concurrently;
// only the first call has an effect.
type Event interface {
	// HasHappened reports whether Signal has been called.
	HasHappened() bool
	// Wait returns a channel that is closed once the event occurred.
	Wait() <-chan struct{}
	// Signal triggers the event.
	Signal()
}

func MakeEvent() Event {
	return &event{done: make(chan struct{})}
}

type event struct {
	once sync.Once
	done chan struct{}
}

func (e *event) HasHappened() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

func (e *event) Wait() <-chan struct{} {
	return e.done
}

func (e *event) Signal() {
	e.once.Do(func() { close(e.done) })
}

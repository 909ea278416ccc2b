// Package lifecycle holds start-up signals shared between the server and its
// dependants.
package lifecycle

import (
	"context"
	"sync"
)

// Ready is a one-shot future. It is resolved at most once; every waiter,
// past or future, observes the same outcome.
type Ready struct {
	once sync.Once
	done chan struct{}
	err  error
}

func NewReady() *Ready {
	return &Ready{done: make(chan struct{})}
}

// Resolve marks the application ready. Later calls are ignored.
func (r *Ready) Resolve() bool {
	return r.settle(nil)
}

// Fail resolves the future with err. Later calls are ignored.
func (r *Ready) Fail(err error) bool {
	return r.settle(err)
}

func (r *Ready) settle(err error) bool {
	settled := false
	r.once.Do(func() {
		r.err = err
		close(r.done)
		settled = true
	})
	return settled
}

// Done is closed once the future is resolved.
func (r *Ready) Done() <-chan struct{} {
	return r.done
}

// IsReady reports whether the future resolved without error.
func (r *Ready) IsReady() bool {
	select {
	case <-r.done:
		return r.err == nil
	default:
		return false
	}
}

// Wait blocks until the future resolves or ctx ends.
func (r *Ready) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

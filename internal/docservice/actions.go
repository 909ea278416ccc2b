package docservice

import (
	"context"
	"fmt"
	"sort"
	"sync"

	errors "github.com/frahmantamala/custom-timesheet/internal"
)

// ActionFunc implements a named server action. The result is encoded as JSON.
type ActionFunc func(ctx context.Context, args Record) (any, error)

type Actions struct {
	mu      sync.RWMutex
	actions map[string]ActionFunc
}

func NewActions() *Actions {
	return &Actions{actions: make(map[string]ActionFunc)}
}

func (a *Actions) Register(name string, fn ActionFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions[name] = fn
}

func (a *Actions) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.actions))
	for name := range a.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *Actions) Call(ctx context.Context, name string, args Record) (any, error) {
	a.mu.RLock()
	fn, ok := a.actions[name]
	a.mu.RUnlock()
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("Unknown action %q", name), errors.ErrCodeActionNotFound)
	}
	if args == nil {
		args = Record{}
	}
	return fn(ctx, args)
}

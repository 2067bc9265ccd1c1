package memory

import (
	"context"
	"sync"
)

// RunLock provides in-process run serialization with the same
// non-blocking semantics as the advisory lock backend.
type RunLock struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewRunLock() *RunLock {
	return &RunLock{held: make(map[string]bool)}
}

func (l *RunLock) Acquire(_ context.Context, jobName string) (func(context.Context) error, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held[jobName] {
		return nil, false, nil
	}
	l.held[jobName] = true

	release := func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()

		delete(l.held, jobName)
		return nil
	}
	return release, true, nil
}

package syncrun

import "context"

// RunLock serializes sync runs across processes. Acquire is
// non-blocking: acquired=false means another run holds the lock.
type RunLock interface {
	Acquire(ctx context.Context, jobName string) (release func(context.Context) error, acquired bool, err error)
}

// Package lease provides a cross-instance mutual exclusion primitive for the
// monthly generation run. With several replicas behind a load balancer only
// the lease holder executes the run.
package lease

import (
	"context"
	"time"
)

// Lease guards a named critical section across service instances.
type Lease interface {
	// Acquire tries to take the lease. It returns a release function on
	// success and ok=false when another holder owns it.
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error)
}

// Noop always grants the lease. Used when no Redis is configured and the
// in-process guard is enough.
type Noop struct{}

func (Noop) Acquire(_ context.Context, _ string, _ time.Duration) (func(), bool, error) {
	return func() {}, true, nil
}

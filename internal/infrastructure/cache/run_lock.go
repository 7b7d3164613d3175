package cache

import (
	"context"
	"sync"
	"time"
)

// RunLock serialises reconciliation runs. Only one holder may own a
// named lock at a time; locks expire after their TTL so a crashed run
// cannot block forever.
type RunLock interface {
	// Acquire tries to take the named lock. Returns false when another
	// holder currently owns it.
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)

	// Release gives the lock back. Releasing an expired or foreign lock
	// is a no-op.
	Release(ctx context.Context, name string) error
}

// InMemoryRunLock is a single-process RunLock for development, tests
// and sqlite deployments.
type InMemoryRunLock struct {
	mu      sync.Mutex
	expiry  map[string]time.Time
	nowFunc func() time.Time
}

func NewInMemoryRunLock() *InMemoryRunLock {
	return &InMemoryRunLock{
		expiry:  make(map[string]time.Time),
		nowFunc: time.Now,
	}
}

func (l *InMemoryRunLock) Acquire(_ context.Context, name string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	if deadline, held := l.expiry[name]; held && now.Before(deadline) {
		return false, nil
	}
	l.expiry[name] = now.Add(ttl)
	return true, nil
}

func (l *InMemoryRunLock) Release(_ context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.expiry, name)
	return nil
}

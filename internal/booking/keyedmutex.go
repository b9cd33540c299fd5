package booking

import (
	"context"
	"sync"
	"time"
)

// KeyedMutex is an in-process Locker: one slot per key, waiters queue on a channel.
// Enough for a single API process; use the Redis locker when several processes book.
type KeyedMutex struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{slots: make(map[string]*slot)}
}

func (m *KeyedMutex) Acquire(ctx context.Context, key string, wait, lease time.Duration) (Guard, error) {
	s := m.ref(key)

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case s.ch <- struct{}{}:
	case <-timer.C:
		m.unref(key, s)
		return nil, ErrLockTimeout
	case <-ctx.Done():
		m.unref(key, s)
		return nil, ctx.Err()
	}

	g := &localGuard{m: m, key: key, s: s}
	g.lease = time.AfterFunc(lease, g.expire)
	return g, nil
}

// Held reports how many callers currently hold or wait for key.
func (m *KeyedMutex) Held(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.slots[key]; ok {
		return s.refs
	}
	return 0
}

func (m *KeyedMutex) ref(key string) *slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		m.slots[key] = s
	}
	s.refs++
	return s
}

func (m *KeyedMutex) unref(key string, s *slot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(m.slots, key)
	}
}

type localGuard struct {
	m     *KeyedMutex
	key   string
	s     *slot
	lease *time.Timer

	once    sync.Once
	expired bool
}

func (g *localGuard) unlock() {
	<-g.s.ch
	g.m.unref(g.key, g.s)
}

func (g *localGuard) expire() {
	g.once.Do(func() {
		g.expired = true
		g.unlock()
	})
}

func (g *localGuard) Release(context.Context) error {
	released := false
	g.once.Do(func() {
		g.lease.Stop()
		g.unlock()
		released = true
	})
	if !released && g.expired {
		return ErrLeaseExpired
	}
	return nil
}

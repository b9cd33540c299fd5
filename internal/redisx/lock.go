package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-office-rentals.git/internal/booking"
)

const DefaultRetryInterval = 25 * time.Millisecond

// Deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Locker is a lease lock shared by every API process talking to the same Redis.
type Locker struct {
	rdb   *redis.Client
	retry time.Duration
}

func NewLocker(rdb *redis.Client) *Locker {
	return &Locker{rdb: rdb, retry: DefaultRetryInterval}
}

// WithRetryInterval changes how often a waiting Acquire polls.
func (l *Locker) WithRetryInterval(d time.Duration) *Locker {
	if d > 0 {
		l.retry = d
	}
	return l
}

func (l *Locker) Acquire(ctx context.Context, key string, wait, lease time.Duration) (booking.Guard, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(wait)

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, lease).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			return &guard{rdb: l.rdb, key: key, token: token}, nil
		}
		if !time.Now().Before(deadline) {
			return nil, booking.ErrLockTimeout
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

type guard struct {
	rdb   *redis.Client
	key   string
	token string
}

func (g *guard) Release(ctx context.Context) error {
	n, err := releaseScript.Run(ctx, g.rdb, []string{g.key}, g.token).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis unlock %s: %w", g.key, err)
	}
	if n == 0 {
		return booking.ErrLeaseExpired
	}
	return nil
}

// Package lock provides a mutex shared between processes through Redis.
package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrLockNotAcquired = errors.New("lock not acquired")

// releaseScript deletes the key only while it still holds the caller's token.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

// extendScript resets the TTL only while the key still holds the caller's token.
const extendScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
end
return 0`

// Client is the part of a Redis client used by Mutex.
type Client interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
}

type Options struct {
	// Timeout is how long a held lock lives before Redis expires it.
	Timeout time.Duration
	// MaxWait bounds how long Acquire keeps retrying.
	MaxWait       time.Duration
	RetryInterval time.Duration
}

type Mutex struct {
	client Client
	opts   Options
}

// Token identifies one holder of a lock.
type Token struct {
	Key   string
	Value string
}

func NewMutex(client Client, opts Options) *Mutex {
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 100 * time.Millisecond
	}
	return &Mutex{client: client, opts: opts}
}

// Acquire takes the lock named key, retrying until MaxWait has passed.
func (m *Mutex) Acquire(ctx context.Context, key string) (*Token, error) {
	token := &Token{Key: key, Value: uuid.NewString()}

	waitCtx, cancel := context.WithTimeout(ctx, m.opts.MaxWait)
	defer cancel()

	ticker := time.NewTicker(m.opts.RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := m.client.SetNX(waitCtx, key, token.Value, m.opts.Timeout).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			slog.Debug("Lock acquired.", "key", key)
			return token, nil
		}

		select {
		case <-waitCtx.Done():
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("acquire lock %s: %w", key, err)
			}
			return nil, fmt.Errorf("acquire lock %s within %s: %w", key, m.opts.MaxWait, ErrLockNotAcquired)
		case <-ticker.C:
		}
	}
}

// Release frees the lock if token still holds it. It reports false when the
// lock had already expired or passed to another holder.
func (m *Mutex) Release(ctx context.Context, token *Token) (bool, error) {
	n, err := m.client.Eval(ctx, releaseScript, []string{token.Key}, token.Value).Int64()
	if err != nil {
		return false, fmt.Errorf("release lock %s: %w", token.Key, err)
	}

	if n == 0 {
		slog.Warn("Lock was no longer held at release.", "key", token.Key)
		return false, nil
	}

	slog.Debug("Lock released.", "key", token.Key)
	return true, nil
}

// Extend resets the lock's TTL to Timeout if token still holds it. It reports
// false when the lock had already expired or passed to another holder.
func (m *Mutex) Extend(ctx context.Context, token *Token) (bool, error) {
	n, err := m.client.Eval(ctx, extendScript, []string{token.Key}, token.Value, m.opts.Timeout.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("extend lock %s: %w", token.Key, err)
	}
	return n == 1, nil
}

// WithLock runs fn while holding the lock named key. The lock is extended
// every Timeout/2 until fn returns.
func (m *Mutex) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) (err error) {
	token, err := m.Acquire(ctx, key)
	if err != nil {
		return err
	}

	refreshCtx, stop := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.refresh(refreshCtx, token)
	}()

	defer func() {
		stop()
		wg.Wait()
		if _, relErr := m.Release(context.WithoutCancel(ctx), token); relErr != nil {
			err = errors.Join(err, relErr)
		}
	}()

	return fn(ctx)
}

// refresh keeps token alive until ctx is done or the lock is lost.
func (m *Mutex) refresh(ctx context.Context, token *Token) {
	interval := m.opts.Timeout / 2
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok, err := m.Extend(ctx, token)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Warn("Failed to extend lock.", "key", token.Key, "error", err)
				continue
			}
			if !ok {
				slog.Warn("Lock lost before work finished.", "key", token.Key)
				return
			}
			slog.Debug("Lock extended.", "key", token.Key)
		}
	}
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/telas-api/internal/application/inventory"
	"github.com/jhoicas/telas-api/internal/domain"
)

var (
	_ inventory.Locker = (*RedisLocker)(nil)
	_ inventory.Locker = (*KeyedLocker)(nil)
)

// Espera común de ambos candados: hasta lockRetries reintentos cada lockRetryInterval (unos 2 s).
const (
	lockRetryInterval = 100 * time.Millisecond
	lockRetries       = 20
)

// RedisLocker candado distribuido con redislock (varias instancias del API).
type RedisLocker struct {
	client *redislock.Client
}

// NewRedisLocker construye el candado sobre el cliente Redis.
func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb)}
}

// Obtain reintenta unas pocas veces antes de rendirse con ConflictError.
func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(lockRetryInterval), lockRetries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, &domain.ConflictError{Resource: "order_lock", Value: key}
	}
	if err != nil {
		return nil, fmt.Errorf("obtener candado %s: %w", key, err)
	}
	return func(ctx context.Context) error {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return err
		}
		return nil
	}, nil
}

// KeyedLocker candado por clave en proceso con la misma espera que RedisLocker.
type KeyedLocker struct {
	mu       sync.Mutex
	held     map[string]struct{}
	interval time.Duration
	retries  int
}

// NewKeyedLocker construye el candado en memoria.
func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{held: make(map[string]struct{}), interval: lockRetryInterval, retries: lockRetries}
}

func (l *KeyedLocker) tryObtain(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return false
	}
	l.held[key] = struct{}{}
	return true
}

func (l *KeyedLocker) Obtain(ctx context.Context, key string, _ time.Duration) (func(context.Context) error, error) {
	for attempt := 0; ; attempt++ {
		if l.tryObtain(key) {
			break
		}
		if attempt >= l.retries {
			return nil, &domain.ConflictError{Resource: "order_lock", Value: key}
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("obtener candado %s: %w", key, ctx.Err())
		case <-time.After(l.interval):
		}
	}
	return func(context.Context) error {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
		return nil
	}, nil
}

package lease

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lease key only when the stored token matches, so
// an expired holder cannot release a lease someone else re-acquired.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisLease implements Lease on a shared Redis with SET NX and a fenced
// release.
type RedisLease struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisLease builds a lease manager from a Redis URL.
func NewRedisLease(redisURL string, logger *slog.Logger) (*RedisLease, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisLease{client: redis.NewClient(opts), logger: logger}, nil
}

func (l *RedisLease) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, name, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// Release runs after the guarded work, which may outlive the
		// request context.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.client.Eval(ctx, releaseScript, []string{name}, token).Err(); err != nil {
			l.logger.Warn("Failed to release scheduler lease", slog.String("lease", name), slog.String("error", err.Error()))
		}
	}
	return release, true, nil
}

// Close releases the underlying Redis connection.
func (l *RedisLease) Close() error {
	return l.client.Close()
}

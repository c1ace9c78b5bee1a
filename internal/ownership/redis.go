package ownership

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ttl is the lifetime of an ownership set member, refreshed on every claim
// and successful non-last-owner release (spec.md §6: default 7 days).
const ttl = 7 * 24 * time.Hour

const (
	connectTimeout = 5 * time.Second
	syncTimeout    = 3 * time.Second
	keyPrefix      = "seedr:owners:"
)

// releaseScript removes instanceTag from the owner set and, atomically,
// reports whether the set is now empty. It returns 1 (this caller was the
// last owner — the key has been deleted) or 0 (other owners remain and the
// TTL has been refreshed).
var releaseScript = redis.NewScript(`
redis.call('SREM', KEYS[1], ARGV[1])
local remaining = redis.call('SCARD', KEYS[1])
if remaining == 0 then
	redis.call('DEL', KEYS[1])
	return 1
end
redis.call('EXPIRE', KEYS[1], ARGV[2])
return 0
`)

// RedisRegistry is the default Registry implementation, backed by a single
// shared *redis.Client multiplexed across all callers in the process.
// Reconnection is handled transparently by the client; RedisRegistry never
// panics out of a caller-facing operation — ClaimOwnership logs and returns
// its error, IsOwnedByMe and ReleaseOwnership log theirs and fold them into
// Unknown.
type RedisRegistry struct {
	client      *redis.Client
	instanceTag string
	logger      *slog.Logger
}

var _ Registry = (*RedisRegistry)(nil)

// NewRedisRegistry builds a registry from a connection string (e.g.
// "redis://localhost:6379/0") and this instance's tag. One *redis.Client is
// created and shared by every caller for the lifetime of the process.
func NewRedisRegistry(connectionString, instanceTag string, logger *slog.Logger) (*RedisRegistry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts, err := redis.ParseURL(connectionString)
	if err != nil {
		return nil, fmt.Errorf("ownership: parsing redis connection string: %w", err)
	}

	opts.DialTimeout = connectTimeout
	opts.ReadTimeout = syncTimeout
	opts.WriteTimeout = syncTimeout

	return &RedisRegistry{
		client:      redis.NewClient(opts),
		instanceTag: instanceTag,
		logger:      logger,
	}, nil
}

func ownerKey(infoHash string) string {
	return keyPrefix + strings.ToUpper(infoHash)
}

func (r *RedisRegistry) ClaimOwnership(ctx context.Context, infoHash string) error {
	key := ownerKey(infoHash)

	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, key, r.instanceTag)
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("claiming ownership failed", slog.String("info_hash", infoHash), slog.String("error", err.Error()))
		return fmt.Errorf("ownership: claiming %s: %w", infoHash, err)
	}

	return nil
}

func (r *RedisRegistry) IsOwnedByMe(ctx context.Context, infoHash string) Tri {
	ok, err := r.client.SIsMember(ctx, ownerKey(infoHash), r.instanceTag).Result()
	if err != nil {
		r.logger.Warn("checking ownership failed", slog.String("info_hash", infoHash), slog.String("error", err.Error()))
		return Unknown
	}

	if ok {
		return True
	}

	return False
}

func (r *RedisRegistry) ReleaseOwnership(ctx context.Context, infoHash string) Tri {
	key := ownerKey(infoHash)

	result, err := releaseScript.Run(ctx, r.client, []string{key}, r.instanceTag, int(ttl.Seconds())).Int()
	if err != nil {
		r.logger.Warn("releasing ownership failed", slog.String("info_hash", infoHash), slog.String("error", err.Error()))
		return Unknown
	}

	if result == 1 {
		return True
	}

	return False
}

func (r *RedisRegistry) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ownership: redis ping: %w", err)
	}

	return nil
}

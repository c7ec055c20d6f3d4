package feature

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash that holds flag values when no key is configured.
const DefaultRedisKey = "consolekit:feature:flags"

const (
	redisTrue  = "1"
	redisFalse = "0"
)

// setFlagScript compares and writes a single hash field atomically so the
// store can report whether the value changed.
// ARGV[2] == "" deletes the field.
var setFlagScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], ARGV[1])
if ARGV[2] == '' then
	return redis.call('HDEL', KEYS[1], ARGV[1])
end
if cur == ARGV[2] then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return 1
`)

// RedisStore keeps flags in a Redis hash so several console replicas
// observe the same detector results.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisKey overrides the hash key used to store flags.
func WithRedisKey(key string) RedisStoreOption {
	return func(s *RedisStore) {
		if key != "" {
			s.key = key
		}
	}
}

// NewRedisStore creates a flag store backed by the given client.
// The client is owned by the caller and is not closed by Close.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) (*RedisStore, error) {
	if client == nil {
		return nil, errors.Join(ErrOperationFailed, errors.New("redis client cannot be nil"))
	}
	s := &RedisStore{
		client: client,
		key:    DefaultRedisKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Set stores the value. Unset deletes the hash field.
func (s *RedisStore) Set(ctx context.Context, name string, value Value) (bool, error) {
	if name == "" {
		return false, errors.Join(ErrInvalidFlag, errors.New("flag name cannot be empty"))
	}

	arg := ""
	if b, ok := value.Bool(); ok {
		arg = redisFalse
		if b {
			arg = redisTrue
		}
	}

	n, err := setFlagScript.Run(ctx, s.client, []string{s.key}, name, arg).Int()
	if err != nil {
		return false, errors.Join(ErrOperationFailed, err)
	}
	return n > 0, nil
}

// Get returns the asserted value of the flag.
func (s *RedisStore) Get(ctx context.Context, name string) (bool, error) {
	v, err := s.client.HGet(ctx, s.key, name).Result()
	if errors.Is(err, redis.Nil) {
		return false, ErrFlagNotFound
	}
	if err != nil {
		return false, errors.Join(ErrOperationFailed, err)
	}
	return v == redisTrue, nil
}

// List returns every asserted flag.
func (s *RedisStore) List(ctx context.Context) (map[string]bool, error) {
	raw, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, errors.Join(ErrOperationFailed, err)
	}
	flags := make(map[string]bool, len(raw))
	for name, v := range raw {
		flags[name] = v == redisTrue
	}
	return flags, nil
}

// Close is a no-op; the Redis client belongs to the caller.
func (s *RedisStore) Close() error {
	return nil
}

package pagecache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisTimeout = 2 * time.Second

// RedisStore keeps pages in Redis under KeyPrefix.
type RedisStore struct {
	client *redis.Client
	log    *zap.SugaredLogger
}

// NewRedisStore returns a store backed by client.
func NewRedisStore(client *redis.Client, log *zap.SugaredLogger) *RedisStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &RedisStore{client: client, log: log}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	b, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warnw("page cache get failed", "key", key, "err", err)
		}
		return nil, false
	}
	return b, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.log.Warnw("page cache set failed", "key", key, "err", err)
	}
}

// Clear deletes every key under KeyPrefix using SCAN.
func (s *RedisStore) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*redisTimeout)
	defer cancel()
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, KeyPrefix+"*", 1000).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			pipe := s.client.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			if _, err := pipe.Exec(ctx); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

package cache

import (
	"context"
	"errors"
	"time"

	"cortex_edu/internal/domain/model"
	"cortex_edu/internal/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Snapshots stores encoded catalog records under "<prefix>:<key>". Entries are read
// back through model.Decode, so an entry written by an older schema is evicted
// instead of being served.
type Snapshots[T any] struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
	log    *logger.Logger
}

func NewSnapshots[T any](rdb redis.Cmdable, prefix string, ttl time.Duration, log *logger.Logger) *Snapshots[T] {
	if log == nil {
		log = logger.Nop()
	}
	return &Snapshots[T]{rdb: rdb, prefix: prefix, ttl: ttl, log: log.With("cache", prefix)}
}

func (s *Snapshots[T]) key(k string) string {
	return s.prefix + ":" + k
}

// Get never fails: redis errors and undecodable entries are logged and reported as misses.
func (s *Snapshots[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	if s == nil || s.rdb == nil {
		return zero, false
	}

	data, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("cache.get_failed", "key", key, "error", err)
		}
		return zero, false
	}

	v, err := model.Decode[T](data)
	if err != nil {
		s.log.Warn("cache.evict_undecodable", "key", key, "error", err)
		s.rdb.Del(ctx, s.key(key))
		return zero, false
	}
	return v, true
}

func (s *Snapshots[T]) Set(ctx context.Context, key string, v T) {
	if s == nil || s.rdb == nil {
		return
	}
	data, err := model.Encode(v)
	if err != nil {
		s.log.Error("cache.encode_failed", "key", key, "error", err)
		return
	}
	if err := s.rdb.Set(ctx, s.key(key), data, s.ttl).Err(); err != nil {
		s.log.Warn("cache.set_failed", "key", key, "error", err)
	}
}

func (s *Snapshots[T]) Invalidate(ctx context.Context, keys ...string) {
	if s == nil || s.rdb == nil || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.rdb.Del(ctx, full...).Err(); err != nil {
		s.log.Warn("cache.invalidate_failed", "keys", keys, "error", err)
	}
}

// InvalidateAll drops every entry under the prefix.
func (s *Snapshots[T]) InvalidateAll(ctx context.Context) {
	if s == nil || s.rdb == nil {
		return
	}
	iter := s.rdb.Scan(ctx, 0, s.prefix+":*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			s.rdb.Del(ctx, batch...)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		s.log.Warn("cache.scan_failed", "error", err)
	}
	if len(batch) > 0 {
		s.rdb.Del(ctx, batch...)
	}
}

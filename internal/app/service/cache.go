package service

import "context"

// SnapshotCache is the read-through cache services put assembled records in.
// cache.Snapshots satisfies it.
type SnapshotCache[T any] interface {
	Get(ctx context.Context, key string) (T, bool)
	Set(ctx context.Context, key string, v T)
	Invalidate(ctx context.Context, keys ...string)
	InvalidateAll(ctx context.Context)
}

type noopCache[T any] struct{}

func (noopCache[T]) Get(context.Context, string) (T, bool) {
	var zero T
	return zero, false
}

func (noopCache[T]) Set(context.Context, string, T) {}

func (noopCache[T]) Invalidate(context.Context, ...string) {}

func (noopCache[T]) InvalidateAll(context.Context) {}

func cacheOrNoop[T any](c SnapshotCache[T]) SnapshotCache[T] {
	if c == nil {
		return noopCache[T]{}
	}
	return c
}

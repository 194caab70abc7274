package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// RequestCache memoizes reads for the lifetime of one request. It is never
// shared across requests and is dropped with the request context.
type RequestCache struct {
	mu     sync.Mutex
	values map[string]any
	group  singleflight.Group
}

func NewRequestCache() *RequestCache {
	return &RequestCache{values: make(map[string]any)}
}

// Do returns the memoized value for key, calling fn at most once per key.
// Concurrent callers for the same key share one call. Errors are not memoized.
func (rc *RequestCache) Do(key string, fn func() (any, error)) (any, error) {
	rc.mu.Lock()
	if v, ok := rc.values[key]; ok {
		rc.mu.Unlock()
		return v, nil
	}
	rc.mu.Unlock()

	v, err, _ := rc.group.Do(key, func() (any, error) {
		rc.mu.Lock()
		if v, ok := rc.values[key]; ok {
			rc.mu.Unlock()
			return v, nil
		}
		rc.mu.Unlock()

		v, err := fn()
		if err != nil {
			return nil, err
		}
		rc.mu.Lock()
		rc.values[key] = v
		rc.mu.Unlock()
		return v, nil
	})
	return v, err
}

// Len returns the number of memoized keys.
func (rc *RequestCache) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.values)
}

type requestKey struct{}

// WithRequestCache attaches rc to ctx.
func WithRequestCache(ctx context.Context, rc *RequestCache) context.Context {
	return context.WithValue(ctx, requestKey{}, rc)
}

// RequestCacheFrom returns the cache attached to ctx, or nil.
func RequestCacheFrom(ctx context.Context) *RequestCache {
	rc, _ := ctx.Value(requestKey{}).(*RequestCache)
	return rc
}

// Memo runs fn through the request cache in ctx, or directly when there is none.
func Memo[T any](ctx context.Context, key string, fn func() (T, error)) (T, error) {
	rc := RequestCacheFrom(ctx)
	if rc == nil {
		return fn()
	}
	v, err := rc.Do(key, func() (any, error) { return fn() })
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

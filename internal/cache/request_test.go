package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestMemoWithoutCacheCallsThrough(t *testing.T) {
	calls := 0
	for i := 0; i < 2; i++ {
		v, err := Memo(context.Background(), "k", func() (int, error) { calls++; return 7, nil })
		if err != nil || v != 7 {
			t.Fatalf("got %d, %v", v, err)
		}
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls without a request cache, got %d", calls)
	}
}

func TestMemoWithCache(t *testing.T) {
	ctx := WithRequestCache(context.Background(), NewRequestCache())
	calls := 0
	for i := 0; i < 3; i++ {
		v, err := Memo(ctx, "k", func() ([]string, error) { calls++; return []string{"a"}, nil })
		if err != nil || len(v) != 1 {
			t.Fatalf("got %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestMemoErrorsNotCached(t *testing.T) {
	rc := NewRequestCache()
	ctx := WithRequestCache(context.Background(), rc)
	boom := errors.New("boom")
	if _, err := Memo(ctx, "k", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if rc.Len() != 0 {
		t.Fatalf("error should not be memoized")
	}
	if v, _ := Memo(ctx, "k", func() (int, error) { return 3, nil }); v != 3 {
		t.Fatalf("expected retry to succeed, got %d", v)
	}
}

func TestRequestCacheConcurrent(t *testing.T) {
	rc := NewRequestCache()
	var calls int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = rc.Do("same", func() (any, error) {
				atomic.AddInt32(&calls, 1)
				return 1, nil
			})
		}()
	}
	wg.Wait()
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected one fetch, got %d", calls)
	}
}

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_SetGetDelete(t *testing.T) {
	t.Parallel()

	s := NewStore(0)
	ctx := context.Background()

	if _, ok := s.Get(ctx, "versions"); ok {
		t.Fatal("expected miss on empty store")
	}

	s.Set(ctx, "versions", "15.17.1")
	got, ok := s.Get(ctx, "versions")
	if !ok || got != "15.17.1" {
		t.Fatalf("expected hit with 15.17.1, got %v ok=%v", got, ok)
	}

	s.Delete(ctx, "versions")
	if _, ok := s.Get(ctx, "versions"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	t.Parallel()

	s := NewStore(15 * time.Millisecond)
	ctx := context.Background()

	s.Set(ctx, "k", 1)
	if _, ok := s.Get(ctx, "k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(25 * time.Millisecond)
	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatal("expected miss after expiry")
	}
}

func TestStore_GetOrLoadLoadsOnce(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Minute)
	ctx := context.Background()
	var loads int32

	const callers = 10
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			val, err := s.GetOrLoad(ctx, "ddragon-version", func(context.Context) (any, error) {
				atomic.AddInt32(&loads, 1)
				time.Sleep(5 * time.Millisecond)
				return "15.17.1", nil
			})
			if err != nil || val != "15.17.1" {
				t.Errorf("unexpected result: %v %v", val, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&loads); got != 1 {
		t.Fatalf("expected single load, got %d", got)
	}
}

func TestStore_GetOrLoadPropagatesError(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Minute)
	wantErr := errors.New("upstream down")

	_, err := s.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected loader error, got %v", err)
	}

	// Errors must not be cached.
	val, err := s.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) {
		return "ok", nil
	})
	if err != nil || val != "ok" {
		t.Fatalf("expected retry to succeed, got %v %v", val, err)
	}
}

package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakePurger struct {
	calls     atomic.Int32
	retention time.Duration
	purged    int
	err       error
}

func (f *fakePurger) PurgeOlderThan(ctx context.Context, retention time.Duration) (int, error) {
	f.calls.Add(1)
	f.retention = retention
	return f.purged, f.err
}

func TestGarbageCollector_PurgeExpired(t *testing.T) {
	t.Parallel()

	purger := &fakePurger{purged: 3}
	gc := NewGarbageCollector(purger, time.Minute, 7*24*time.Hour, zap.NewNop())

	if err := gc.purgeExpired(context.Background()); err != nil {
		t.Fatalf("purgeExpired: %v", err)
	}
	if purger.calls.Load() != 1 {
		t.Errorf("PurgeOlderThan called %d times, want 1", purger.calls.Load())
	}
	if purger.retention != 7*24*time.Hour {
		t.Errorf("retention = %v, want 168h", purger.retention)
	}
}

func TestGarbageCollector_PurgeExpired_NilPurger(t *testing.T) {
	t.Parallel()

	gc := NewGarbageCollector(nil, time.Minute, 24*time.Hour, zap.NewNop())
	if err := gc.purgeExpired(context.Background()); err != nil {
		t.Errorf("purgeExpired with nil purger: %v", err)
	}
}

func TestGarbageCollector_PurgeExpired_BrokerError(t *testing.T) {
	t.Parallel()

	purger := &fakePurger{err: errors.New("channel closed")}
	gc := NewGarbageCollector(purger, time.Minute, time.Hour, zap.NewNop())

	if err := gc.purgeExpired(context.Background()); err == nil {
		t.Error("Expected broker error to propagate")
	}
}

func TestGarbageCollector_Start_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	gc := NewGarbageCollector(&fakePurger{}, 24*time.Hour, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := gc.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Start returned %v, want context.Canceled", err)
	}
}

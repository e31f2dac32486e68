package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vladlyt/mj/internal/logger"
)

type countingTarget struct {
	calls atomic.Int32
	err   error
}

func (c *countingTarget) Reload() error {
	c.calls.Add(1)
	return c.err
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestConfigReloader_ManualTrigger(t *testing.T) {
	target := &countingTarget{}
	trigger := make(chan struct{}, 1)
	reloader := NewConfigReloader(target, logger.NewNop(), time.Hour, trigger)

	if err := reloader.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer reloader.Stop()

	if got := target.calls.Load(); got != 1 {
		t.Errorf("Start() reloaded %d times, want 1", got)
	}

	trigger <- struct{}{}
	waitFor(t, func() bool { return target.calls.Load() == 2 })
}

func TestConfigReloader_Ticks(t *testing.T) {
	target := &countingTarget{}
	reloader := NewConfigReloader(target, logger.NewNop(), 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := reloader.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	waitFor(t, func() bool { return target.calls.Load() >= 3 })
	reloader.Stop()
	reloader.Stop()
}

func TestConfigReloader_InitialFailure(t *testing.T) {
	target := &countingTarget{err: errors.New("disk gone")}
	reloader := NewConfigReloader(target, logger.NewNop(), time.Hour, nil)

	if err := reloader.Start(context.Background()); err == nil {
		t.Error("Start() should fail when the initial reload fails")
	}
}

func TestConfigReloader_InvalidInterval(t *testing.T) {
	reloader := NewConfigReloader(&countingTarget{}, logger.NewNop(), 0, nil)
	if err := reloader.Start(context.Background()); err == nil {
		t.Error("Start() should reject a zero interval")
	}
}

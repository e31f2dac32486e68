package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vladlyt/mj/internal/logger"
)

// Reloadable is anything that can re-read its backing source.
type Reloadable interface {
	Reload() error
}

// ConfigReloader periodically re-reads the config document so that aliases
// added by other mj invocations are served without a restart.
type ConfigReloader struct {
	target        Reloadable
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger <-chan struct{}
}

// NewConfigReloader creates a new config reloader
func NewConfigReloader(
	target Reloadable,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *ConfigReloader {
	return &ConfigReloader{
		target:        target,
		logger:        log.With(logger.Component("config_reloader")),
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start reloads once, then keeps reloading on every tick or manual trigger
// until Stop is called or ctx is done.
func (cr *ConfigReloader) Start(ctx context.Context) error {
	if cr.interval <= 0 {
		return fmt.Errorf("reload interval must be > 0, got %v", cr.interval)
	}
	if err := cr.target.Reload(); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cr.reload()
			case <-cr.manualTrigger:
				cr.logger.Info("manual reload triggered")
				cr.reload()
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader. It is safe to call more than once.
func (cr *ConfigReloader) Stop() {
	cr.stopOnce.Do(func() { close(cr.stopCh) })
}

func (cr *ConfigReloader) reload() {
	if err := cr.target.Reload(); err != nil {
		cr.logger.Error("failed to reload config",
			logger.Error(err))
		return
	}
	cr.logger.Debug("config reloaded")
}

package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Expirer moves overdue requests to EXPIRED.
type Expirer interface {
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
}

// ExpiryWorker runs the expiry sweep once at start-up and then on every tick.
type ExpiryWorker struct {
	expirer  Expirer
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewExpiryWorker builds the worker.
func NewExpiryWorker(expirer Expirer, interval time.Duration, logger *zap.Logger) *ExpiryWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpiryWorker{expirer: expirer, interval: interval, logger: logger, now: time.Now}
}

// Run blocks until ctx is cancelled. Sweep failures are logged and retried on the next tick.
func (w *ExpiryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	expired, err := w.expirer.ExpireOverdue(ctx, w.now())
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("expiry sweep failed", zap.Error(err), zap.Int("expired", expired))
		}
		return
	}
	if expired > 0 {
		w.logger.Info("expired overdue blood requests", zap.Int("expired", expired))
	}
}

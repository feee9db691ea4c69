package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/platefit/fulfillment/internal/logger"
	"github.com/platefit/fulfillment/internal/models"
)

// SweeperService runs one expiry sweep
type SweeperService interface {
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

// StageService repairs stalled preparation pipelines
type StageService interface {
	ResumeStalled(ctx context.Context) (int, error)
}

// RecoveryService surfaces stuck orders
type RecoveryService interface {
	FindStuckOrders(ctx context.Context, lookback time.Duration) ([]models.Order, error)
}

// ExpiryWorker drives the recurring expiry sweep. It is the single
// authoritative scheduler for sweeping; on-demand expiry goes through the
// admin API instead.
type ExpiryWorker struct {
	svc      SweeperService
	interval time.Duration
}

// NewExpiryWorker creates new ExpiryWorker instance
func NewExpiryWorker(svc SweeperService, interval time.Duration) *ExpiryWorker {
	return &ExpiryWorker{svc: svc, interval: interval}
}

// Run sweeps expired assignments until the context is done
func (ew *ExpiryWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(ew.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("expiry worker is done")
			return
		case <-ticker.C:
			if _, err := ew.svc.SweepExpired(ctx, time.Now()); err != nil {
				logger.Log.Error("expiry sweep failed", zap.Error(err))
			}
		}
	}
}

// RecoveryWorker periodically repairs stalled preparation pipelines and logs
// stuck orders for operator attention. Reprocessing stays operator-triggered.
type RecoveryWorker struct {
	stages   StageService
	recovery RecoveryService
	interval time.Duration
	lookback time.Duration
}

// NewRecoveryWorker creates new RecoveryWorker instance
func NewRecoveryWorker(stages StageService, recovery RecoveryService, interval, lookback time.Duration) *RecoveryWorker {
	return &RecoveryWorker{
		stages:   stages,
		recovery: recovery,
		interval: interval,
		lookback: lookback,
	}
}

// Run performs recovery passes until the context is done
func (rw *RecoveryWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(rw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("recovery worker is done")
			return
		case <-ticker.C:
			if _, err := rw.stages.ResumeStalled(ctx); err != nil {
				logger.Log.Error("resume stalled preparation failed", zap.Error(err))
			}

			stuck, err := rw.recovery.FindStuckOrders(ctx, rw.lookback)
			if err != nil {
				logger.Log.Error("find stuck orders failed", zap.Error(err))
				continue
			}
			for _, order := range stuck {
				logger.Log.Warn("order stuck without assignments",
					zap.String("order", order.ID.String()),
					zap.Time("created_at", order.CreatedAt))
			}
		}
	}
}

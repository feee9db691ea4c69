package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platefit/fulfillment/internal/logger"
	"github.com/platefit/fulfillment/internal/models"
)

// Broadcaster re-runs candidate broadcast for an order
type Broadcaster interface {
	Broadcast(ctx context.Context, orderID uuid.UUID) ([]models.Assignment, error)
}

// RecoveryService remediates the two defined failure modes of the ledger:
// orders that never got an assignment batch, and orphaned assignment rows
// with a NULL restaurant reference
type RecoveryService struct {
	orders         OrderRepository
	assignments    AssignmentRepository
	history        HistoryRepository
	broadcaster    Broadcaster
	stuckThreshold time.Duration
}

// NewRecoveryService creates new RecoveryService instance
func NewRecoveryService(orders OrderRepository, assignments AssignmentRepository, history HistoryRepository, broadcaster Broadcaster, stuckThreshold time.Duration) *RecoveryService {
	return &RecoveryService{
		orders:         orders,
		assignments:    assignments,
		history:        history,
		broadcaster:    broadcaster,
		stuckThreshold: stuckThreshold,
	}
}

// CleanupOrphanedAssignments deletes assignment rows with a NULL restaurant
// reference, scoped to one order when orderID is non-nil. Such rows are never
// created by correct code paths; deletion is the designated remediation.
func (rs *RecoveryService) CleanupOrphanedAssignments(ctx context.Context, orderID *uuid.UUID) (int64, error) {
	removed, err := rs.assignments.DeleteOrphaned(ctx, orderID)
	if err != nil {
		return 0, err
	}

	if removed > 0 && orderID != nil {
		event := models.HistoryEvent{
			OrderID:   *orderID,
			EventType: models.EventOrphansCleaned,
			Detail:    map[string]any{"removed": removed},
		}
		if err := rs.history.AppendEvent(ctx, &event); err != nil {
			logger.Log.Error("append history event",
				zap.String("order", orderID.String()), zap.Error(err))
		}
	}

	if removed > 0 {
		logger.Log.Info("cleaned orphaned assignments", zap.Int64("removed", removed))
	}

	return removed, nil
}

// FindStuckOrders returns orders that have coordinates but never received an
// assignment batch within the lookback window, for operator visibility or
// automated retry
func (rs *RecoveryService) FindStuckOrders(ctx context.Context, lookback time.Duration) ([]models.Order, error) {
	now := time.Now()
	return rs.orders.GetStuckOrders(ctx, now.Add(-lookback), now.Add(-rs.stuckThreshold))
}

// ReprocessStuckOrder re-runs candidate broadcast for an order that never got
// assignments. Refuses when any assignment row already exists, which prevents
// duplicate broadcasts.
func (rs *RecoveryService) ReprocessStuckOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := rs.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.HasCoordinates() {
		return models.ErrNoCoordinates
	}

	existing, err := rs.assignments.CountByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if existing > 0 {
		return models.ErrAlreadyBroadcast
	}

	event := models.HistoryEvent{
		OrderID:   orderID,
		EventType: models.EventOrderReprocessed,
	}
	if err := rs.history.AppendEvent(ctx, &event); err != nil {
		logger.Log.Error("append history event",
			zap.String("order", orderID.String()), zap.Error(err))
	}

	logger.Log.Info("reprocessing stuck order", zap.String("order", orderID.String()))

	_, err = rs.broadcaster.Broadcast(ctx, orderID)
	return err
}

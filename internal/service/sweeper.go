package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platefit/fulfillment/internal/logger"
	"github.com/platefit/fulfillment/internal/models"
)

// SweeperService resolves assignments whose offer window has closed. The
// sweep is advisory cleanup, not the authority on acceptance: an accept that
// lands before the sweep reaches the row simply wins the conditional update
// and the sweep skips it.
type SweeperService struct {
	orders      OrderRepository
	assignments AssignmentRepository
	history     HistoryRepository
	publisher   EventPublisher
}

// NewSweeperService creates new SweeperService instance
func NewSweeperService(orders OrderRepository, assignments AssignmentRepository, history HistoryRepository, publisher EventPublisher) *SweeperService {
	return &SweeperService{
		orders:      orders,
		assignments: assignments,
		history:     history,
		publisher:   publisher,
	}
}

// SweepExpired transitions every pending assignment past its deadline to
// expired and cascades exhausted orders to no_restaurant_accepted. Safe to
// run repeatedly and concurrently with itself: the pending-status guard on
// each row prevents double processing. Returns how many assignments expired.
func (sw *SweeperService) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := sw.assignments.GetExpiredPending(ctx, now)
	if err != nil {
		return 0, err
	}

	return sw.expire(ctx, expired), nil
}

// ForceExpire immediately expires every pending assignment of one order,
// following the same cascade as the scheduled sweep. Returns how many
// assignments expired.
func (sw *SweeperService) ForceExpire(ctx context.Context, orderID uuid.UUID) (int, error) {
	if _, err := sw.orders.GetOrder(ctx, orderID); err != nil {
		return 0, err
	}

	pending, err := sw.assignments.GetPendingByOrder(ctx, orderID)
	if err != nil {
		return 0, err
	}

	return sw.expire(ctx, pending), nil
}

func (sw *SweeperService) expire(ctx context.Context, assignments []models.Assignment) int {
	count := 0
	affected := map[uuid.UUID]struct{}{}

	for _, a := range assignments {
		ok, err := sw.assignments.Expire(ctx, a.ID)
		if err != nil {
			logger.Log.Error("expire assignment",
				zap.String("assignment", a.ID.String()), zap.Error(err))
			continue
		}
		if !ok {
			// resolved by a response between the scan and the write
			continue
		}

		count++
		affected[a.OrderID] = struct{}{}
		sw.recordEvent(ctx, a.OrderID, models.EventAssignmentExpired, a.RestaurantID, map[string]any{
			"assignment_id": a.ID,
			"target_status": models.AssignmentStatusExpired,
		})
	}

	for orderID := range affected {
		if err := sw.cascadeOrder(ctx, orderID); err != nil {
			logger.Log.Error("cascade expired order",
				zap.String("order", orderID.String()), zap.Error(err))
		}
	}

	if count > 0 {
		logger.Log.Info("swept expired assignments", zap.Int("expired", count))
	}

	return count
}

// cascadeOrder moves an order to no_restaurant_accepted once it has neither
// pending nor accepted assignments left
func (sw *SweeperService) cascadeOrder(ctx context.Context, orderID uuid.UUID) error {
	pending, accepted, err := sw.assignments.CountLiveByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if pending > 0 || accepted > 0 {
		return nil
	}

	order, err := sw.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !models.CanTransition(order.Status, models.OrderStatusNoRestaurantAccepted) {
		return nil
	}

	ok, err := sw.orders.UpdateOrderStatus(ctx, orderID, order.Status, models.OrderStatusNoRestaurantAccepted, nil)
	if err != nil {
		return err
	}
	if ok {
		sw.recordEvent(ctx, orderID, models.EventNoRestaurantAccepted, nil, nil)
		if err := sw.publisher.PublishStatusChange(ctx, orderID, models.OrderStatusNoRestaurantAccepted); err != nil {
			logger.Log.Warn("publish status change",
				zap.String("order", orderID.String()), zap.Error(err))
		}
	}

	return nil
}

func (sw *SweeperService) recordEvent(ctx context.Context, orderID uuid.UUID, eventType string, restaurantID *uuid.UUID, detail map[string]any) {
	event := models.HistoryEvent{
		OrderID:      orderID,
		EventType:    eventType,
		RestaurantID: restaurantID,
		Detail:       detail,
	}
	if err := sw.history.AppendEvent(ctx, &event); err != nil {
		logger.Log.Error("append history event",
			zap.String("order", orderID.String()),
			zap.String("event", eventType),
			zap.Error(err))
		return
	}
	if err := sw.publisher.PublishHistory(ctx, event); err != nil {
		logger.Log.Warn("publish history event",
			zap.String("order", orderID.String()), zap.Error(err))
	}
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platefit/fulfillment/internal/logger"
	"github.com/platefit/fulfillment/internal/models"
)

// Assigner hands a freshly created order to the assignment ledger
type Assigner interface {
	Broadcast(ctx context.Context, orderID uuid.UUID) ([]models.Assignment, error)
	CreateDirectAssignment(ctx context.Context, orderID, restaurantID uuid.UUID, metadata map[string]any) (*models.Assignment, error)
}

// CreateOrderCommand carries everything needed to place an order. A non-nil
// RestaurantID pre-determines the fulfilling restaurant and skips the
// competitive broadcast.
type CreateOrderCommand struct {
	Latitude     *float64
	Longitude    *float64
	TotalCents   int64
	Source       string
	RestaurantID *uuid.UUID
	Metadata     map[string]any
}

// OrderService implements order lifecycle operations
type OrderService struct {
	orders      OrderRepository
	assignments AssignmentRepository
	history     HistoryRepository
	assigner    Assigner
	publisher   EventPublisher
}

// NewOrderService creates new OrderService instance
func NewOrderService(orders OrderRepository, assignments AssignmentRepository, history HistoryRepository, assigner Assigner, publisher EventPublisher) *OrderService {
	return &OrderService{
		orders:      orders,
		assignments: assignments,
		history:     history,
		assigner:    assigner,
		publisher:   publisher,
	}
}

// Create places a new order and immediately routes it to the ledger: direct
// assignment when the restaurant is pre-determined, candidate broadcast when
// coordinates are present, otherwise the order waits for recovery or manual
// action.
func (os *OrderService) Create(ctx context.Context, cmd CreateOrderCommand) (*models.Order, error) {
	source := cmd.Source
	if source == "" {
		source = models.OrderSourceCustomer
	}

	order := &models.Order{
		ID:         uuid.New(),
		Status:     models.OrderStatusPending,
		Latitude:   cmd.Latitude,
		Longitude:  cmd.Longitude,
		TotalCents: cmd.TotalCents,
		Source:     source,
		CreatedAt:  time.Now(),
	}

	if err := os.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	event := models.HistoryEvent{
		OrderID:   order.ID,
		EventType: models.EventOrderCreated,
		Detail:    map[string]any{"source": source},
	}
	if err := os.history.AppendEvent(ctx, &event); err != nil {
		logger.Log.Error("append history event",
			zap.String("order", order.ID.String()), zap.Error(err))
	}

	switch {
	case cmd.RestaurantID != nil:
		if _, err := os.assigner.CreateDirectAssignment(ctx, order.ID, *cmd.RestaurantID, cmd.Metadata); err != nil {
			return nil, err
		}
	case order.HasCoordinates():
		if _, err := os.assigner.Broadcast(ctx, order.ID); err != nil && !errors.Is(err, models.ErrNoCandidates) {
			return nil, err
		}
	}

	return os.orders.GetOrder(ctx, order.ID)
}

// Get returns order by id
func (os *OrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return os.orders.GetOrder(ctx, id)
}

// ListByStatus returns orders currently in the given status
func (os *OrderService) ListByStatus(ctx context.Context, status string) ([]models.Order, error) {
	if !models.IsOrderStatus(status) {
		return nil, models.ErrInvalidStatus
	}
	return os.orders.GetOrdersByStatus(ctx, status)
}

// History returns the audit trail of the order
func (os *OrderService) History(ctx context.Context, id uuid.UUID) ([]models.HistoryEvent, error) {
	if _, err := os.orders.GetOrder(ctx, id); err != nil {
		return nil, err
	}
	return os.history.GetEventsByOrder(ctx, id)
}

// Cancel cancels the order from any non-terminal status. The cancellation is
// itself a guarded transition, so an acceptance racing with it resolves to
// exactly one outcome. Live offers of a cancelled order are withdrawn.
func (os *OrderService) Cancel(ctx context.Context, id uuid.UUID) error {
	ok, err := os.orders.CancelOrder(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := os.orders.GetOrder(ctx, id); err != nil {
			return err
		}
		return models.ErrOrderNotCancellable
	}

	if _, err := os.assignments.CancelPendingByOrder(ctx, id, uuid.Nil); err != nil {
		logger.Log.Error("withdraw offers of cancelled order",
			zap.String("order", id.String()), zap.Error(err))
	}

	event := models.HistoryEvent{
		OrderID:   id,
		EventType: models.EventOrderCancelled,
	}
	if err := os.history.AppendEvent(ctx, &event); err != nil {
		logger.Log.Error("append history event",
			zap.String("order", id.String()), zap.Error(err))
	}
	if err := os.publisher.PublishStatusChange(ctx, id, models.OrderStatusCancelled); err != nil {
		logger.Log.Warn("publish status change",
			zap.String("order", id.String()), zap.Error(err))
	}

	return nil
}

// PickUp marks the order as handed to the courier
func (os *OrderService) PickUp(ctx context.Context, id uuid.UUID) error {
	return os.transition(ctx, id, models.OrderStatusReadyForPickup, models.OrderStatusOnTheWay, models.EventOrderPickedUp)
}

// Deliver marks the order as delivered
func (os *OrderService) Deliver(ctx context.Context, id uuid.UUID) error {
	return os.transition(ctx, id, models.OrderStatusOnTheWay, models.OrderStatusDelivered, models.EventOrderDelivered)
}

func (os *OrderService) transition(ctx context.Context, id uuid.UUID, from, to, eventType string) error {
	ok, err := os.orders.UpdateOrderStatus(ctx, id, from, to, nil)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := os.orders.GetOrder(ctx, id); err != nil {
			return err
		}
		return models.ErrConflict
	}

	event := models.HistoryEvent{
		OrderID:   id,
		EventType: eventType,
	}
	if err := os.history.AppendEvent(ctx, &event); err != nil {
		logger.Log.Error("append history event",
			zap.String("order", id.String()), zap.Error(err))
	}
	if err := os.publisher.PublishStatusChange(ctx, id, to); err != nil {
		logger.Log.Warn("publish status change",
			zap.String("order", id.String()), zap.Error(err))
	}

	return nil
}

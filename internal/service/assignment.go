package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platefit/fulfillment/internal/logger"
	"github.com/platefit/fulfillment/internal/models"
)

// restaurant response actions
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// StageStarter creates and starts the preparation pipeline of an accepted
// order
type StageStarter interface {
	BeginPreparation(ctx context.Context, orderID uuid.UUID) error
}

// AssignmentConfig holds offer windows and the candidate search radius
type AssignmentConfig struct {
	BroadcastTTL   time.Duration
	DirectTTL      time.Duration
	SearchRadiusKm float64
}

// AssignmentService owns the assignment ledger and arbitrates restaurant
// responses. All assignment status changes go through here or the sweeper;
// nothing else mutates the ledger, which is what keeps the at-most-one
// acceptance invariant enforceable.
type AssignmentService struct {
	orders      OrderRepository
	assignments AssignmentRepository
	history     HistoryRepository
	finder      CandidateFinder
	stages      StageStarter
	publisher   EventPublisher
	cfg         AssignmentConfig
}

// NewAssignmentService creates new AssignmentService instance
func NewAssignmentService(
	orders OrderRepository,
	assignments AssignmentRepository,
	history HistoryRepository,
	finder CandidateFinder,
	stages StageStarter,
	publisher EventPublisher,
	cfg AssignmentConfig,
) *AssignmentService {
	return &AssignmentService{
		orders:      orders,
		assignments: assignments,
		history:     history,
		finder:      finder,
		stages:      stages,
		publisher:   publisher,
		cfg:         cfg,
	}
}

// Broadcast fans the order out to every candidate restaurant within the
// search radius as a batch of pending assignments. An order that already has
// any non-cancelled assignment is refused, which makes duplicate broadcasts
// impossible. When the search comes back empty the order is moved to
// no_restaurant_available and ErrNoCandidates is returned.
func (as *AssignmentService) Broadcast(ctx context.Context, orderID uuid.UUID) ([]models.Assignment, error) {
	order, err := as.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.HasCoordinates() {
		return nil, models.ErrNoCoordinates
	}

	active, err := as.assignments.CountActiveByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, models.ErrAlreadyBroadcast
	}

	candidates, err := as.finder.FindCandidates(ctx, *order.Latitude, *order.Longitude, as.cfg.SearchRadiusKm)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		if _, err := as.orders.UpdateOrderStatus(ctx, orderID, order.Status, models.OrderStatusNoRestaurantAvailable, nil); err != nil {
			return nil, err
		}
		as.recordEvent(ctx, orderID, models.EventNoRestaurantAvailable, nil, nil)
		as.notifyStatus(ctx, orderID, models.OrderStatusNoRestaurantAvailable)
		return nil, models.ErrNoCandidates
	}

	now := time.Now()
	batch := make([]models.Assignment, 0, len(candidates))
	for _, c := range candidates {
		rid := c.RestaurantID
		dist := c.DistanceKm
		batch = append(batch, models.Assignment{
			ID:           uuid.New(),
			OrderID:      orderID,
			RestaurantID: &rid,
			DistanceKm:   &dist,
			Status:       models.AssignmentStatusPending,
			AssignedAt:   now,
			ExpiresAt:    now.Add(as.cfg.BroadcastTTL),
		})
	}

	if err := as.assignments.CreateAssignments(ctx, batch); err != nil {
		return nil, err
	}

	ok, err := as.orders.UpdateOrderStatus(ctx, orderID, order.Status, models.OrderStatusAwaitingRestaurant, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		// the order was cancelled between the read and the write; the fresh
		// offers must not stay live
		if _, err := as.assignments.CancelPendingByOrder(ctx, orderID, uuid.Nil); err != nil {
			logger.Log.Error("cancel assignments after lost broadcast race",
				zap.String("order", orderID.String()), zap.Error(err))
		}
		return nil, models.ErrConflict
	}

	as.recordEvent(ctx, orderID, models.EventAssignmentsBroadcast, nil, map[string]any{
		"candidates": len(batch),
		"expires_at": batch[0].ExpiresAt,
	})
	as.notifyStatus(ctx, orderID, models.OrderStatusAwaitingRestaurant)

	logger.Log.Info("broadcast assignments",
		zap.String("order", orderID.String()),
		zap.Int("candidates", len(batch)))

	return batch, nil
}

// CreateDirectAssignment offers the order to a single pre-determined
// restaurant, bypassing candidate search. Metadata is preserved on the
// assignment for downstream analytics.
func (as *AssignmentService) CreateDirectAssignment(ctx context.Context, orderID, restaurantID uuid.UUID, metadata map[string]any) (*models.Assignment, error) {
	order, err := as.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	active, err := as.assignments.CountActiveByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, models.ErrAlreadyBroadcast
	}

	if metadata == nil {
		metadata = map[string]any{}
	}
	if _, ok := metadata[models.AssignmentMetaSource]; !ok {
		metadata[models.AssignmentMetaSource] = "direct"
	}

	now := time.Now()
	rid := restaurantID
	assignment := models.Assignment{
		ID:           uuid.New(),
		OrderID:      orderID,
		RestaurantID: &rid,
		Status:       models.AssignmentStatusPending,
		AssignedAt:   now,
		ExpiresAt:    now.Add(as.cfg.DirectTTL),
		Metadata:     metadata,
	}

	if err := as.assignments.CreateAssignments(ctx, []models.Assignment{assignment}); err != nil {
		return nil, err
	}

	if ok, err := as.orders.UpdateOrderStatus(ctx, orderID, order.Status, models.OrderStatusAwaitingRestaurant, nil); err != nil {
		return nil, err
	} else if !ok {
		if _, err := as.assignments.CancelPendingByOrder(ctx, orderID, uuid.Nil); err != nil {
			logger.Log.Error("cancel direct assignment after lost race",
				zap.String("order", orderID.String()), zap.Error(err))
		}
		return nil, models.ErrConflict
	}
	// direct offers mark the order as assigned right away
	if _, err := as.orders.UpdateOrderStatus(ctx, orderID, models.OrderStatusAwaitingRestaurant, models.OrderStatusRestaurantAssigned, &rid); err != nil {
		return nil, err
	}

	as.recordEvent(ctx, orderID, models.EventDirectAssignment, &rid, map[string]any{
		"assignment_id": assignment.ID,
		"metadata":      metadata,
	})
	as.notifyStatus(ctx, orderID, models.OrderStatusRestaurantAssigned)

	return &assignment, nil
}

// Respond arbitrates a restaurant's accept or reject of an assignment. The
// decisive step is a single conditional update on the assignment row; the
// first acceptance to land wins and every later response is told the race
// was already decided.
func (as *AssignmentService) Respond(ctx context.Context, assignmentID, restaurantID uuid.UUID, action string, notes *string) error {
	var target string
	switch action {
	case ActionAccept:
		target = models.AssignmentStatusAccepted
	case ActionReject:
		target = models.AssignmentStatusRejected
	default:
		return models.ErrInvalidAction
	}

	ok, err := as.assignments.Respond(ctx, assignmentID, restaurantID, target, notes)
	if err != nil {
		return err
	}
	if !ok {
		return as.classifyLostResponse(ctx, assignmentID, restaurantID)
	}

	assignment, err := as.assignments.GetAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}

	if action == ActionAccept {
		return as.finishAccept(ctx, assignment, restaurantID)
	}
	return as.finishReject(ctx, assignment, restaurantID)
}

// classifyLostResponse explains a zero-row conditional update to the caller
func (as *AssignmentService) classifyLostResponse(ctx context.Context, assignmentID, restaurantID uuid.UUID) error {
	assignment, err := as.assignments.GetAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}
	if assignment.RestaurantID == nil || *assignment.RestaurantID != restaurantID {
		return models.ErrNotAssignmentOwner
	}
	return models.ErrAssignmentResolved
}

func (as *AssignmentService) finishAccept(ctx context.Context, assignment *models.Assignment, restaurantID uuid.UUID) error {
	orderID := assignment.OrderID

	cancelled, err := as.assignments.CancelPendingByOrder(ctx, orderID, assignment.ID)
	if err != nil {
		logger.Log.Error("cancel sibling assignments",
			zap.String("order", orderID.String()), zap.Error(err))
	} else if cancelled > 0 {
		as.recordEvent(ctx, orderID, models.EventAssignmentCancelled, nil, map[string]any{
			"cancelled": cancelled,
		})
	}

	order, err := as.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	accepted := false
	if models.CanTransition(order.Status, models.OrderStatusRestaurantAccepted) {
		accepted, err = as.orders.UpdateOrderStatus(ctx, orderID, order.Status, models.OrderStatusRestaurantAccepted, &restaurantID)
		if err != nil {
			return err
		}
	}
	if !accepted {
		// the order was cancelled while the acceptance was in flight; revoke
		// the acceptance so the ledger does not disagree with the order
		if _, err := as.assignments.RevokeAccepted(ctx, assignment.ID); err != nil {
			logger.Log.Error("revoke acceptance after lost order race",
				zap.String("assignment", assignment.ID.String()), zap.Error(err))
		}
		return models.ErrOrderNotAcceptable
	}

	as.recordEvent(ctx, orderID, models.EventAssignmentAccepted, &restaurantID, map[string]any{
		"assignment_id": assignment.ID,
		"target_status": models.AssignmentStatusAccepted,
	})
	as.notifyStatus(ctx, orderID, models.OrderStatusRestaurantAccepted)

	if err := as.stages.BeginPreparation(ctx, orderID); err != nil {
		// the order is accepted either way; the stalled-stage repair pass
		// picks this up
		logger.Log.Error("begin preparation",
			zap.String("order", orderID.String()), zap.Error(err))
	}

	logger.Log.Info("assignment accepted",
		zap.String("order", orderID.String()),
		zap.String("restaurant", restaurantID.String()))

	return nil
}

func (as *AssignmentService) finishReject(ctx context.Context, assignment *models.Assignment, restaurantID uuid.UUID) error {
	orderID := assignment.OrderID

	as.recordEvent(ctx, orderID, models.EventAssignmentRejected, &restaurantID, map[string]any{
		"assignment_id": assignment.ID,
		"target_status": models.AssignmentStatusRejected,
	})

	pending, accepted, err := as.assignments.CountLiveByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if pending == 0 && accepted == 0 {
		if err := as.markNoRestaurantAccepted(ctx, orderID); err != nil {
			return err
		}
	}

	return nil
}

// markNoRestaurantAccepted moves an order whose offer pool is exhausted to
// its failure status. Shared with the sweeper cascade.
func (as *AssignmentService) markNoRestaurantAccepted(ctx context.Context, orderID uuid.UUID) error {
	order, err := as.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !models.CanTransition(order.Status, models.OrderStatusNoRestaurantAccepted) {
		return nil
	}

	ok, err := as.orders.UpdateOrderStatus(ctx, orderID, order.Status, models.OrderStatusNoRestaurantAccepted, nil)
	if err != nil {
		return err
	}
	if ok {
		as.recordEvent(ctx, orderID, models.EventNoRestaurantAccepted, nil, nil)
		as.notifyStatus(ctx, orderID, models.OrderStatusNoRestaurantAccepted)
	}

	return nil
}

// GetAssignmentsByOrder returns the ledger entries of the order
func (as *AssignmentService) GetAssignmentsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Assignment, error) {
	return as.assignments.GetByOrder(ctx, orderID)
}

// GetOffersForRestaurant returns the restaurant's live offers
func (as *AssignmentService) GetOffersForRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Assignment, error) {
	return as.assignments.GetPendingByRestaurant(ctx, restaurantID)
}

func (as *AssignmentService) recordEvent(ctx context.Context, orderID uuid.UUID, eventType string, restaurantID *uuid.UUID, detail map[string]any) {
	event := models.HistoryEvent{
		OrderID:      orderID,
		EventType:    eventType,
		RestaurantID: restaurantID,
		Detail:       detail,
	}
	if err := as.history.AppendEvent(ctx, &event); err != nil {
		logger.Log.Error("append history event",
			zap.String("order", orderID.String()),
			zap.String("event", eventType),
			zap.Error(err))
		return
	}
	if err := as.publisher.PublishHistory(ctx, event); err != nil {
		logger.Log.Warn("publish history event",
			zap.String("order", orderID.String()), zap.Error(err))
	}
}

func (as *AssignmentService) notifyStatus(ctx context.Context, orderID uuid.UUID, status string) {
	if err := as.publisher.PublishStatusChange(ctx, orderID, status); err != nil {
		logger.Log.Warn("publish status change",
			zap.String("order", orderID.String()), zap.Error(err))
	}
}

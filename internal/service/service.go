package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/platefit/fulfillment/internal/models"
)

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts new order to database
	CreateOrder(ctx context.Context, order *models.Order) error
	// GetOrder returns order by id
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// UpdateOrderStatus conditionally transitions order status, reporting
	// false when the guard did not match
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to string, restaurantID *uuid.UUID) (bool, error)
	// CancelOrder cancels order from any non-terminal status
	CancelOrder(ctx context.Context, id uuid.UUID) (bool, error)
	// GetOrdersByStatus returns orders with the given status
	GetOrdersByStatus(ctx context.Context, status string) ([]models.Order, error)
	// GetStuckOrders returns pending orders without assignments in the window
	GetStuckOrders(ctx context.Context, since, until time.Time) ([]models.Order, error)
}

// AssignmentRepository is interface for interacting with the assignment ledger
type AssignmentRepository interface {
	// CreateAssignments inserts an assignment batch atomically
	CreateAssignments(ctx context.Context, assignments []models.Assignment) error
	// GetAssignment returns assignment by id
	GetAssignment(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
	// Respond conditionally resolves a pending assignment owned by the restaurant
	Respond(ctx context.Context, id, restaurantID uuid.UUID, status string, notes *string) (bool, error)
	// RevokeAccepted flips an accepted assignment back to cancelled, used only
	// to compensate when the order-level transition lost a race
	RevokeAccepted(ctx context.Context, id uuid.UUID) (bool, error)
	// CancelPendingByOrder cancels pending siblings of the order
	CancelPendingByOrder(ctx context.Context, orderID, exceptID uuid.UUID) (int64, error)
	// Expire conditionally transitions a pending assignment to expired
	Expire(ctx context.Context, id uuid.UUID) (bool, error)
	// GetExpiredPending returns pending assignments past their deadline
	GetExpiredPending(ctx context.Context, now time.Time) ([]models.Assignment, error)
	// GetByOrder returns every assignment of the order
	GetByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Assignment, error)
	// GetPendingByOrder returns pending assignments of the order
	GetPendingByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Assignment, error)
	// GetPendingByRestaurant returns live offers for the restaurant
	GetPendingByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Assignment, error)
	// CountLiveByOrder returns pending and accepted counts for the order
	CountLiveByOrder(ctx context.Context, orderID uuid.UUID) (pending int, accepted int, err error)
	// CountActiveByOrder returns the number of non-cancelled assignments
	CountActiveByOrder(ctx context.Context, orderID uuid.UUID) (int, error)
	// CountByOrder returns the total number of assignment rows
	CountByOrder(ctx context.Context, orderID uuid.UUID) (int, error)
	// DeleteOrphaned removes assignments with a NULL restaurant reference
	DeleteOrphaned(ctx context.Context, orderID *uuid.UUID) (int64, error)
}

// StageRepository is interface for interacting with preparation stages
type StageRepository interface {
	// CreateStages inserts the full stage set of an order atomically
	CreateStages(ctx context.Context, stages []models.PreparationStage) error
	// GetStagesByOrder returns the stage set sorted by stage order
	GetStagesByOrder(ctx context.Context, orderID uuid.UUID) ([]models.PreparationStage, error)
	// CompleteStage conditionally completes the named in-progress stage
	CompleteStage(ctx context.Context, orderID uuid.UUID, stageName string) (bool, error)
	// StartStage conditionally starts a pending stage
	StartStage(ctx context.Context, id uuid.UUID) (bool, error)
	// GetLowestPending returns the lowest-ordered pending stage
	GetLowestPending(ctx context.Context, orderID uuid.UUID) (*models.PreparationStage, error)
	// CountUncompletedBefore counts uncompleted stages below the given order
	CountUncompletedBefore(ctx context.Context, orderID uuid.UUID, stageOrder int) (int, error)
	// GetStalledPreparingOrders returns preparing orders with no active stage
	GetStalledPreparingOrders(ctx context.Context) ([]uuid.UUID, error)
	// GetAcceptedWithoutStages returns accepted orders missing their stage set
	GetAcceptedWithoutStages(ctx context.Context) ([]uuid.UUID, error)
}

// HistoryRepository is interface for the append-only order audit log
type HistoryRepository interface {
	// AppendEvent writes one audit log entry
	AppendEvent(ctx context.Context, event *models.HistoryEvent) error
	// GetEventsByOrder returns the audit trail of the order
	GetEventsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.HistoryEvent, error)
}

// CandidateFinder is the external geolocation search capability
type CandidateFinder interface {
	// FindCandidates returns eligible restaurants within radiusKm, closest first
	FindCandidates(ctx context.Context, lat, lon, radiusKm float64) ([]models.Candidate, error)
}

// EventPublisher delivers outbound events to audit and notification consumers
type EventPublisher interface {
	PublishHistory(ctx context.Context, event models.HistoryEvent) error
	PublishStatusChange(ctx context.Context, orderID uuid.UUID, status string) error
}

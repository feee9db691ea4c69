package models

import (
	"time"

	"github.com/google/uuid"
)

// history event types
const (
	EventOrderCreated          = "order_created"
	EventAssignmentsBroadcast  = "assignments_broadcast"
	EventDirectAssignment      = "direct_assignment"
	EventAssignmentAccepted    = "assignment_accepted"
	EventAssignmentRejected    = "assignment_rejected"
	EventAssignmentExpired     = "assignment_expired"
	EventAssignmentCancelled   = "assignment_cancelled"
	EventNoRestaurantAvailable = "no_restaurant_available"
	EventNoRestaurantAccepted  = "no_restaurant_accepted"
	EventStageStarted          = "stage_started"
	EventStageCompleted        = "stage_completed"
	EventOrderReady            = "order_ready"
	EventOrderPickedUp         = "order_picked_up"
	EventOrderDelivered        = "order_delivered"
	EventOrderCancelled        = "order_cancelled"
	EventOrderReprocessed      = "order_reprocessed"
	EventOrphansCleaned        = "orphans_cleaned"
)

// HistoryEvent is an append-only audit log entry. Detail carries the
// assignment id and target status where applicable so consumers can
// deduplicate at-least-once writes.
type HistoryEvent struct {
	ID           int64
	OrderID      uuid.UUID
	EventType    string
	RestaurantID *uuid.UUID
	Detail       map[string]any
	CreatedAt    time.Time
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// assignment status
const (
	AssignmentStatusPending   = "pending"
	AssignmentStatusAccepted  = "accepted"
	AssignmentStatusRejected  = "rejected"
	AssignmentStatusExpired   = "expired"
	AssignmentStatusCancelled = "cancelled"
)

// assignment metadata keys
const (
	AssignmentMetaSource = "assignment_source"
)

// Assignment is an offer of one order to one restaurant. RestaurantID is a
// pointer only because an orphaned row (external corruption) may carry NULL;
// correct code paths never create one.
type Assignment struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	RestaurantID  *uuid.UUID
	DistanceKm    *float64
	Status        string
	AssignedAt    time.Time
	ExpiresAt     time.Time
	RespondedAt   *time.Time
	ResponseNotes *string
	Metadata      map[string]any
}

// IsResolved reports whether the assignment has left the pending status
func (a *Assignment) IsResolved() bool {
	return a.Status != AssignmentStatusPending
}

// Candidate is a restaurant eligible to fulfill an order, as returned by
// geolocation search
type Candidate struct {
	RestaurantID uuid.UUID
	DistanceKm   float64
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// order status
const (
	OrderStatusPending               = "pending"
	OrderStatusAwaitingRestaurant    = "awaiting_restaurant"
	OrderStatusRestaurantAssigned    = "restaurant_assigned"
	OrderStatusRestaurantAccepted    = "restaurant_accepted"
	OrderStatusRestaurantRejected    = "restaurant_rejected"
	OrderStatusPreparing             = "preparing"
	OrderStatusReadyForPickup        = "ready_for_pickup"
	OrderStatusOnTheWay              = "on_the_way"
	OrderStatusDelivered             = "delivered"
	OrderStatusCancelled             = "cancelled"
	OrderStatusNoRestaurantAvailable = "no_restaurant_available"
	OrderStatusNoRestaurantAccepted  = "no_restaurant_accepted"
)

// order source
const (
	OrderSourceCustomer = "customer"
	OrderSourceMealPlan = "meal_plan"
)

// Order is order entity
type Order struct {
	ID                   uuid.UUID
	Status               string
	RestaurantID         *uuid.UUID
	Latitude             *float64
	Longitude            *float64
	TotalCents           int64
	Source               string
	CreatedAt            time.Time
	AssignedAt           *time.Time
	AcceptedAt           *time.Time
	PreparationStartedAt *time.Time
	ReadyAt              *time.Time
	PickedUpAt           *time.Time
	DeliveredAt          *time.Time
	CancelledAt          *time.Time
}

// orderTransitions represents the order state flow as code
var orderTransitions = map[string][]string{
	OrderStatusPending: {
		OrderStatusAwaitingRestaurant,
		OrderStatusNoRestaurantAvailable,
	},
	OrderStatusAwaitingRestaurant: {
		OrderStatusRestaurantAssigned,
		OrderStatusRestaurantAccepted,
		OrderStatusRestaurantRejected,
		OrderStatusNoRestaurantAccepted,
	},
	OrderStatusRestaurantAssigned: {
		OrderStatusRestaurantAccepted,
		OrderStatusNoRestaurantAccepted,
	},
	OrderStatusRestaurantRejected: {
		OrderStatusRestaurantAccepted,
		OrderStatusNoRestaurantAccepted,
	},
	OrderStatusRestaurantAccepted: {
		OrderStatusPreparing,
	},
	OrderStatusPreparing: {
		OrderStatusReadyForPickup,
	},
	OrderStatusReadyForPickup: {
		OrderStatusOnTheWay,
	},
	OrderStatusOnTheWay: {
		OrderStatusDelivered,
	},
}

// CanTransition reports whether an order may move from one status to another.
// Cancellation is allowed from any non-terminal status and is handled here
// rather than in the transition table.
func CanTransition(from, to string) bool {
	if to == OrderStatusCancelled {
		return !IsTerminalOrderStatus(from)
	}
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminalOrderStatus reports whether status is a final order status
func IsTerminalOrderStatus(status string) bool {
	switch status {
	case OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusNoRestaurantAccepted,
		OrderStatusNoRestaurantAvailable:
		return true
	}
	return false
}

// IsOrderStatus reports whether status is a known order status
func IsOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending,
		OrderStatusAwaitingRestaurant,
		OrderStatusRestaurantAssigned,
		OrderStatusRestaurantAccepted,
		OrderStatusRestaurantRejected,
		OrderStatusPreparing,
		OrderStatusReadyForPickup,
		OrderStatusOnTheWay,
		OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusNoRestaurantAvailable,
		OrderStatusNoRestaurantAccepted:
		return true
	}
	return false
}

// HasCoordinates reports whether the order carries a delivery location
func (o *Order) HasCoordinates() bool {
	return o.Latitude != nil && o.Longitude != nil
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending_to_awaiting", OrderStatusPending, OrderStatusAwaitingRestaurant, true},
		{"pending_to_no_restaurant_available", OrderStatusPending, OrderStatusNoRestaurantAvailable, true},
		{"awaiting_to_accepted", OrderStatusAwaitingRestaurant, OrderStatusRestaurantAccepted, true},
		{"awaiting_to_assigned", OrderStatusAwaitingRestaurant, OrderStatusRestaurantAssigned, true},
		{"awaiting_to_exhausted", OrderStatusAwaitingRestaurant, OrderStatusNoRestaurantAccepted, true},
		{"assigned_to_accepted", OrderStatusRestaurantAssigned, OrderStatusRestaurantAccepted, true},
		{"rejected_to_accepted", OrderStatusRestaurantRejected, OrderStatusRestaurantAccepted, true},
		{"accepted_to_preparing", OrderStatusRestaurantAccepted, OrderStatusPreparing, true},
		{"preparing_to_ready", OrderStatusPreparing, OrderStatusReadyForPickup, true},
		{"ready_to_on_the_way", OrderStatusReadyForPickup, OrderStatusOnTheWay, true},
		{"on_the_way_to_delivered", OrderStatusOnTheWay, OrderStatusDelivered, true},
		{"no_going_backwards", OrderStatusPreparing, OrderStatusAwaitingRestaurant, false},
		{"no_skipping_preparation", OrderStatusRestaurantAccepted, OrderStatusReadyForPickup, false},
		{"delivered_is_final", OrderStatusDelivered, OrderStatusOnTheWay, false},
		{"cancel_from_pending", OrderStatusPending, OrderStatusCancelled, true},
		{"cancel_from_preparing", OrderStatusPreparing, OrderStatusCancelled, true},
		{"cancel_from_on_the_way", OrderStatusOnTheWay, OrderStatusCancelled, true},
		{"no_cancel_after_delivery", OrderStatusDelivered, OrderStatusCancelled, false},
		{"no_cancel_after_cancel", OrderStatusCancelled, OrderStatusCancelled, false},
		{"no_cancel_after_exhaustion", OrderStatusNoRestaurantAccepted, OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminalOrderStatus(t *testing.T) {
	terminal := []string{
		OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusNoRestaurantAccepted,
		OrderStatusNoRestaurantAvailable,
	}
	for _, status := range terminal {
		assert.True(t, IsTerminalOrderStatus(status), status)
	}

	live := []string{
		OrderStatusPending,
		OrderStatusAwaitingRestaurant,
		OrderStatusRestaurantAssigned,
		OrderStatusRestaurantAccepted,
		OrderStatusPreparing,
		OrderStatusReadyForPickup,
		OrderStatusOnTheWay,
	}
	for _, status := range live {
		assert.False(t, IsTerminalOrderStatus(status), status)
	}
}

func TestIsOrderStatus(t *testing.T) {
	known := []string{
		OrderStatusPending,
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
		OrderStatusNoRestaurantAccepted,
	}
	for _, status := range known {
		assert.True(t, IsOrderStatus(status), status)
	}

	assert.False(t, IsOrderStatus("baking"))
	assert.False(t, IsOrderStatus(""))
}

func TestAssignmentIsResolved(t *testing.T) {
	a := Assignment{Status: AssignmentStatusPending}
	assert.False(t, a.IsResolved())

	for _, status := range []string{
		AssignmentStatusAccepted,
		AssignmentStatusRejected,
		AssignmentStatusExpired,
		AssignmentStatusCancelled,
	} {
		a.Status = status
		assert.True(t, a.IsResolved(), status)
	}
}

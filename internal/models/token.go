package models

import "github.com/google/uuid"

// TokenPayload is the verified identity carried by a restaurant API token
type TokenPayload struct {
	RestaurantID uuid.UUID
}

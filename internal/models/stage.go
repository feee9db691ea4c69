package models

import (
	"time"

	"github.com/google/uuid"
)

// preparation stage status
const (
	StageStatusPending    = "pending"
	StageStatusInProgress = "in_progress"
	StageStatusCompleted  = "completed"
)

// PreparationStage is one ordered step of kitchen preparation within an
// accepted order
type PreparationStage struct {
	ID                       uuid.UUID
	OrderID                  uuid.UUID
	StageName                string
	StageOrder               int
	Status                   string
	EstimatedDurationMinutes int
	ActualDurationMinutes    *int
	StartedAt                *time.Time
	CompletedAt              *time.Time
	Notes                    *string
}

// StageTemplate describes one stage of the kitchen pipeline created for
// every accepted order
type StageTemplate struct {
	Name             string
	EstimatedMinutes int
}

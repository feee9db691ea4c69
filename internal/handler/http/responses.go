package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/platefit/fulfillment/internal/models"
)

// OrderResp is the JSON representation of an order
type OrderResp struct {
	ID                   string     `json:"id"`
	Status               string     `json:"status"`
	RestaurantID         *string    `json:"restaurant_id,omitempty"`
	Latitude             *float64   `json:"latitude,omitempty"`
	Longitude            *float64   `json:"longitude,omitempty"`
	TotalCents           int64      `json:"total_cents"`
	Source               string     `json:"source"`
	CreatedAt            time.Time  `json:"created_at"`
	AssignedAt           *time.Time `json:"assigned_at,omitempty"`
	AcceptedAt           *time.Time `json:"accepted_at,omitempty"`
	PreparationStartedAt *time.Time `json:"preparation_started_at,omitempty"`
	ReadyAt              *time.Time `json:"ready_at,omitempty"`
	PickedUpAt           *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt          *time.Time `json:"delivered_at,omitempty"`
	CancelledAt          *time.Time `json:"cancelled_at,omitempty"`
}

// AssignmentResp is the JSON representation of an assignment
type AssignmentResp struct {
	ID            string         `json:"id"`
	OrderID       string         `json:"order_id"`
	RestaurantID  *string        `json:"restaurant_id,omitempty"`
	DistanceKm    *float64       `json:"distance_km,omitempty"`
	Status        string         `json:"status"`
	AssignedAt    time.Time      `json:"assigned_at"`
	ExpiresAt     time.Time      `json:"expires_at"`
	RespondedAt   *time.Time     `json:"responded_at,omitempty"`
	ResponseNotes *string        `json:"response_notes,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// StageResp is the JSON representation of a preparation stage
type StageResp struct {
	ID                       string     `json:"id"`
	OrderID                  string     `json:"order_id"`
	StageName                string     `json:"stage_name"`
	StageOrder               int        `json:"stage_order"`
	Status                   string     `json:"status"`
	EstimatedDurationMinutes int        `json:"estimated_duration_minutes"`
	ActualDurationMinutes    *int       `json:"actual_duration_minutes,omitempty"`
	StartedAt                *time.Time `json:"started_at,omitempty"`
	CompletedAt              *time.Time `json:"completed_at,omitempty"`
	Notes                    *string    `json:"notes,omitempty"`
}

// HistoryEventResp is the JSON representation of an audit log entry
type HistoryEventResp struct {
	ID           int64          `json:"id"`
	OrderID      string         `json:"order_id"`
	EventType    string         `json:"event_type"`
	RestaurantID *string        `json:"restaurant_id,omitempty"`
	Detail       map[string]any `json:"detail,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

func newOrderResp(o *models.Order) OrderResp {
	resp := OrderResp{
		ID:                   o.ID.String(),
		Status:               o.Status,
		Latitude:             o.Latitude,
		Longitude:            o.Longitude,
		TotalCents:           o.TotalCents,
		Source:               o.Source,
		CreatedAt:            o.CreatedAt,
		AssignedAt:           o.AssignedAt,
		AcceptedAt:           o.AcceptedAt,
		PreparationStartedAt: o.PreparationStartedAt,
		ReadyAt:              o.ReadyAt,
		PickedUpAt:           o.PickedUpAt,
		DeliveredAt:          o.DeliveredAt,
		CancelledAt:          o.CancelledAt,
	}
	if o.RestaurantID != nil {
		s := o.RestaurantID.String()
		resp.RestaurantID = &s
	}
	return resp
}

func newAssignmentResp(a *models.Assignment) AssignmentResp {
	resp := AssignmentResp{
		ID:            a.ID.String(),
		OrderID:       a.OrderID.String(),
		DistanceKm:    a.DistanceKm,
		Status:        a.Status,
		AssignedAt:    a.AssignedAt,
		ExpiresAt:     a.ExpiresAt,
		RespondedAt:   a.RespondedAt,
		ResponseNotes: a.ResponseNotes,
		Metadata:      a.Metadata,
	}
	if a.RestaurantID != nil {
		s := a.RestaurantID.String()
		resp.RestaurantID = &s
	}
	return resp
}

func newStageResp(s *models.PreparationStage) StageResp {
	return StageResp{
		ID:                       s.ID.String(),
		OrderID:                  s.OrderID.String(),
		StageName:                s.StageName,
		StageOrder:               s.StageOrder,
		Status:                   s.Status,
		EstimatedDurationMinutes: s.EstimatedDurationMinutes,
		ActualDurationMinutes:    s.ActualDurationMinutes,
		StartedAt:                s.StartedAt,
		CompletedAt:              s.CompletedAt,
		Notes:                    s.Notes,
	}
}

func newHistoryEventResp(e *models.HistoryEvent) HistoryEventResp {
	resp := HistoryEventResp{
		ID:        e.ID,
		OrderID:   e.OrderID.String(),
		EventType: e.EventType,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt,
	}
	if e.RestaurantID != nil {
		s := e.RestaurantID.String()
		resp.RestaurantID = &s
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

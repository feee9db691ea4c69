package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/platefit/fulfillment/internal/models"
	"github.com/platefit/fulfillment/internal/service"
)

// OrderService is interface for order lifecycle operations
type OrderService interface {
	Create(ctx context.Context, cmd service.CreateOrderCommand) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	History(ctx context.Context, id uuid.UUID) ([]models.HistoryEvent, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	PickUp(ctx context.Context, id uuid.UUID) error
	Deliver(ctx context.Context, id uuid.UUID) error
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type createOrderReq struct {
	Latitude     *float64       `json:"latitude"`
	Longitude    *float64       `json:"longitude"`
	TotalCents   int64          `json:"total_cents"`
	Source       string         `json:"source"`
	RestaurantID *string        `json:"restaurant_id"`
	Metadata     map[string]any `json:"metadata"`
}

// CreateOrder places a new order
// 201 — order created and routed to assignment;
// 400 — malformed request;
// 500 — internal error.
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := createOrderReq{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.TotalCents < 0 {
			http.Error(w, "negative total", http.StatusBadRequest)
			return
		}

		cmd := service.CreateOrderCommand{
			Latitude:   req.Latitude,
			Longitude:  req.Longitude,
			TotalCents: req.TotalCents,
			Source:     req.Source,
			Metadata:   req.Metadata,
		}
		if req.RestaurantID != nil {
			rid, err := uuid.Parse(*req.RestaurantID)
			if err != nil {
				http.Error(w, "invalid restaurant id", http.StatusBadRequest)
				return
			}
			cmd.RestaurantID = &rid
		}

		order, err := oh.svc.Create(r.Context(), cmd)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, newOrderResp(order))
	}
}

// GetOrder returns one order
// 200 — success;
// 400 — malformed id;
// 404 — order not found.
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "orderID")
		if !ok {
			return
		}

		order, err := oh.svc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, models.ErrOrderNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, newOrderResp(order))
	}
}

// OrderHistory returns the audit trail of one order
// 200 — success;
// 404 — order not found.
func (oh *OrderHandler) OrderHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "orderID")
		if !ok {
			return
		}

		events, err := oh.svc.History(r.Context(), id)
		if err != nil {
			if errors.Is(err, models.ErrOrderNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]HistoryEventResp, 0, len(events))
		for i := range events {
			resp = append(resp, newHistoryEventResp(&events[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// CancelOrder cancels one order
// 200 — cancelled;
// 404 — order not found;
// 409 — order is already in a terminal status.
func (oh *OrderHandler) CancelOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "orderID")
		if !ok {
			return
		}

		err := oh.svc.Cancel(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrOrderNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, models.ErrOrderNotCancellable):
				http.Error(w, "order can no longer be cancelled", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

// PickUpOrder marks the order as handed to the courier
// 200 — picked up; 404 — not found; 409 — wrong status.
func (oh *OrderHandler) PickUpOrder() http.HandlerFunc {
	return oh.transition(func(ctx context.Context, id uuid.UUID) error {
		return oh.svc.PickUp(ctx, id)
	})
}

// DeliverOrder marks the order as delivered
// 200 — delivered; 404 — not found; 409 — wrong status.
func (oh *OrderHandler) DeliverOrder() http.HandlerFunc {
	return oh.transition(func(ctx context.Context, id uuid.UUID) error {
		return oh.svc.Deliver(ctx, id)
	})
}

func (oh *OrderHandler) transition(op func(ctx context.Context, id uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "orderID")
		if !ok {
			return
		}

		err := op(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrOrderNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, models.ErrConflict):
				http.Error(w, "order is not in the required status", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/platefit/fulfillment/internal/models"
	"github.com/platefit/fulfillment/internal/service"
)

const defaultStuckLookbackHours = 24

// SweeperService is interface for expiry sweeps
type SweeperService interface {
	SweepExpired(ctx context.Context, now time.Time) (int, error)
	ForceExpire(ctx context.Context, orderID uuid.UUID) (int, error)
}

// RecoveryService is interface for failure remediation
type RecoveryService interface {
	CleanupOrphanedAssignments(ctx context.Context, orderID *uuid.UUID) (int64, error)
	FindStuckOrders(ctx context.Context, lookback time.Duration) ([]models.Order, error)
	ReprocessStuckOrder(ctx context.Context, orderID uuid.UUID) error
}

// OrderLister reads orders for operator inspection
type OrderLister interface {
	ListByStatus(ctx context.Context, status string) ([]models.Order, error)
}

// RestaurantRegistry maintains the restaurant geo index
type RestaurantRegistry interface {
	UpsertRestaurant(ctx context.Context, restaurantID uuid.UUID, lat, lon float64) error
	RemoveRestaurant(ctx context.Context, restaurantID uuid.UUID) error
}

// AdminHandler represents HTTP handler for operator requests
type AdminHandler struct {
	sweeper  SweeperService
	recovery RecoveryService
	orders   OrderLister
	registry RestaurantRegistry
	tokens   service.TokenService
}

// NewAdminHandler creates new AdminHandler instance
func NewAdminHandler(sweeper SweeperService, recovery RecoveryService, orders OrderLister, registry RestaurantRegistry, tokens service.TokenService) *AdminHandler {
	return &AdminHandler{
		sweeper:  sweeper,
		recovery: recovery,
		orders:   orders,
		registry: registry,
		tokens:   tokens,
	}
}

// RunSweep runs one expiry sweep immediately
// 200 — sweep completed, body reports how many assignments expired.
func (ah *AdminHandler) RunSweep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expired, err := ah.sweeper.SweepExpired(r.Context(), time.Now())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]int{"expired": expired})
	}
}

// ForceExpireOrder expires all pending assignments of one order
// 200 — done; 404 — order not found.
func (ah *AdminHandler) ForceExpireOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "orderID")
		if !ok {
			return
		}

		expired, err := ah.sweeper.ForceExpire(r.Context(), id)
		if err != nil {
			if errors.Is(err, models.ErrOrderNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]int{"expired": expired})
	}
}

// ReprocessOrder re-runs candidate broadcast for a stuck order
// 200 — broadcast re-run;
// 404 — order not found;
// 409 — order already has assignments or no candidates were found.
func (ah *AdminHandler) ReprocessOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "orderID")
		if !ok {
			return
		}

		err := ah.recovery.ReprocessStuckOrder(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrOrderNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, models.ErrAlreadyBroadcast):
				http.Error(w, "order already has assignments", http.StatusConflict)
			case errors.Is(err, models.ErrNoCoordinates):
				http.Error(w, "order has no coordinates", http.StatusConflict)
			case errors.Is(err, models.ErrNoCandidates):
				http.Error(w, "no candidate restaurants found", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

// StuckOrders lists orders without assignments past the stuck threshold
// 200 — success.
func (ah *AdminHandler) StuckOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hours := cast.ToInt(r.URL.Query().Get("lookback_hours"))
		if hours <= 0 {
			hours = defaultStuckLookbackHours
		}

		orders, err := ah.recovery.FindStuckOrders(r.Context(), time.Duration(hours)*time.Hour)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]OrderResp, 0, len(orders))
		for i := range orders {
			resp = append(resp, newOrderResp(&orders[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// ListOrders lists orders currently in the requested status
// 200 — success; 400 — missing or unknown status.
func (ah *AdminHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")
		if status == "" {
			http.Error(w, "status is required", http.StatusBadRequest)
			return
		}

		orders, err := ah.orders.ListByStatus(r.Context(), status)
		if err != nil {
			if errors.Is(err, models.ErrInvalidStatus) {
				http.Error(w, "unknown order status", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]OrderResp, 0, len(orders))
		for i := range orders {
			resp = append(resp, newOrderResp(&orders[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// CleanupOrphans deletes orphaned assignment rows, optionally for one order
// 200 — done, body reports removed count; 400 — malformed order id.
func (ah *AdminHandler) CleanupOrphans() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var orderID *uuid.UUID
		if raw := r.URL.Query().Get("order_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "invalid order id", http.StatusBadRequest)
				return
			}
			orderID = &id
		}

		removed, err := ah.recovery.CleanupOrphanedAssignments(r.Context(), orderID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]int64{"removed": removed})
	}
}

type restaurantLocationReq struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UpsertRestaurantLocation adds or moves a restaurant in the geo index
// 200 — stored; 400 — malformed request.
func (ah *AdminHandler) UpsertRestaurantLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "restaurantID")
		if !ok {
			return
		}

		req := restaurantLocationReq{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := ah.registry.UpsertRestaurant(r.Context(), id, req.Latitude, req.Longitude); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

// RemoveRestaurantLocation drops a restaurant from the geo index
// 200 — removed; 400 — malformed id.
func (ah *AdminHandler) RemoveRestaurantLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "restaurantID")
		if !ok {
			return
		}

		if err := ah.registry.RemoveRestaurant(r.Context(), id); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

// IssueRestaurantToken mints an API token for a restaurant
// 200 — token in body; 400 — malformed id.
func (ah *AdminHandler) IssueRestaurantToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "restaurantID")
		if !ok {
			return
		}

		token, err := ah.tokens.CreateToken(id)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

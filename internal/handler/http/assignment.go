package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/platefit/fulfillment/internal/models"
)

// AssignmentService is interface for the assignment ledger and arbiter
type AssignmentService interface {
	Respond(ctx context.Context, assignmentID, restaurantID uuid.UUID, action string, notes *string) error
	GetOffersForRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Assignment, error)
	GetAssignmentsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Assignment, error)
}

// AssignmentHandler represents HTTP handler for restaurant-facing assignment
// requests
type AssignmentHandler struct {
	svc AssignmentService
}

// NewAssignmentHandler creates new AssignmentHandler instance
func NewAssignmentHandler(svc AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{svc: svc}
}

type respondReq struct {
	Action string  `json:"action"`
	Notes  *string `json:"notes"`
}

// RespondAssignment records a restaurant's accept or reject of an offer
// 200 — response recorded;
// 400 — malformed request or unknown action;
// 401 — missing or invalid token;
// 403 — assignment belongs to another restaurant;
// 404 — assignment not found;
// 409 — the race was already decided (offer resolved or order gone).
func (ah *AssignmentHandler) RespondAssignment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, ok := parseIDParam(w, r, "assignmentID")
		if !ok {
			return
		}

		req := respondReq{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		err := ah.svc.Respond(r.Context(), id, payload.RestaurantID, req.Action, req.Notes)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidAction):
				http.Error(w, "invalid action", http.StatusBadRequest)
			case errors.Is(err, models.ErrAssignmentNotFound):
				http.Error(w, "assignment not found", http.StatusNotFound)
			case errors.Is(err, models.ErrNotAssignmentOwner):
				http.Error(w, "assignment belongs to another restaurant", http.StatusForbidden)
			case errors.Is(err, models.ErrAssignmentResolved):
				http.Error(w, "assignment is no longer pending", http.StatusConflict)
			case errors.Is(err, models.ErrOrderNotAcceptable):
				http.Error(w, "order can no longer be accepted", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

// ListOffers returns the authenticated restaurant's live offers
// 200 — success; 401 — missing or invalid token.
func (ah *AssignmentHandler) ListOffers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		offers, err := ah.svc.GetOffersForRestaurant(r.Context(), payload.RestaurantID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]AssignmentResp, 0, len(offers))
		for i := range offers {
			resp = append(resp, newAssignmentResp(&offers[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// ListOrderAssignments returns the ledger entries of one order
// 200 — success; 400 — malformed id.
func (ah *AssignmentHandler) ListOrderAssignments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "orderID")
		if !ok {
			return
		}

		assignments, err := ah.svc.GetAssignmentsByOrder(r.Context(), id)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]AssignmentResp, 0, len(assignments))
		for i := range assignments {
			resp = append(resp, newAssignmentResp(&assignments[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

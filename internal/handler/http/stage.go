package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/platefit/fulfillment/internal/models"
)

// StageService is interface for the preparation pipeline
type StageService interface {
	AdvanceStage(ctx context.Context, orderID uuid.UUID, stageName string) error
	GetStages(ctx context.Context, orderID uuid.UUID) ([]models.PreparationStage, error)
}

// StageHandler represents HTTP handler for kitchen stage requests
type StageHandler struct {
	svc StageService
}

// NewStageHandler creates new StageHandler instance
func NewStageHandler(svc StageService) *StageHandler {
	return &StageHandler{svc: svc}
}

type advanceStageReq struct {
	Stage string `json:"stage"`
}

// AdvanceStage completes the named stage and starts the next one
// 200 — stage advanced;
// 400 — malformed request;
// 401 — missing or invalid token;
// 404 — order or stage not found;
// 409 — stage not in progress or earlier stages incomplete.
func (sh *StageHandler) AdvanceStage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := getAuthPayload(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, ok := parseIDParam(w, r, "orderID")
		if !ok {
			return
		}

		req := advanceStageReq{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Stage == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		err := sh.svc.AdvanceStage(r.Context(), id, req.Stage)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrStageNotFound):
				http.Error(w, "stage not found", http.StatusNotFound)
			case errors.Is(err, models.ErrStageOrder):
				http.Error(w, "earlier stages are not completed", http.StatusConflict)
			case errors.Is(err, models.ErrStageNotInProgress):
				http.Error(w, "stage is not in progress", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

// ListStages returns the stage set of one order
// 200 — success; 400 — malformed id.
func (sh *StageHandler) ListStages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "orderID")
		if !ok {
			return
		}

		stages, err := sh.svc.GetStages(r.Context(), id)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]StageResp, 0, len(stages))
		for i := range stages {
			resp = append(resp, newStageResp(&stages[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

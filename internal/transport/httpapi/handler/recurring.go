package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/platform/recurring"
	"github.com/ledgerline/ledgerline/internal/transport/httpapi/middleware"
)

// RecurringService defines the detection operations needed by RecurringHandler
type RecurringService interface {
	Detect(ctx context.Context, userID uuid.UUID, mode recurring.Mode) (*recurring.DetectionResult, error)
	Suggestions(ctx context.Context, userID uuid.UUID, mode recurring.Mode) (*recurring.DetectionResult, error)
	ListActive(ctx context.Context, userID uuid.UUID) ([]*recurring.Record, error)
	Dismiss(ctx context.Context, id, userID uuid.UUID) error
	Confirm(ctx context.Context, id, userID uuid.UUID) error
	ProjectCashFlows(ctx context.Context, userID uuid.UUID, horizon time.Time) ([]recurring.CashFlowEntry, error)
}

// RecurringHandler handles recurring pattern HTTP requests
type RecurringHandler struct {
	svc RecurringService
}

// NewRecurringHandler creates a new recurring handler
func NewRecurringHandler(svc RecurringService) *RecurringHandler {
	return &RecurringHandler{svc: svc}
}

// detectionMode reads and validates the mode query parameter, defaulting
// to expense
func detectionMode(r *http.Request) (recurring.Mode, bool) {
	mode := recurring.Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = recurring.ModeExpense
	}
	return mode, mode.Valid()
}

// Detect handles POST /recurring/detect
func (h *RecurringHandler) Detect(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	mode, ok := detectionMode(r)
	if !ok {
		respondError(w, "mode must be 'expense' or 'income'", http.StatusBadRequest)
		return
	}

	result, err := h.svc.Detect(r.Context(), userID, mode)
	if err != nil {
		respondError(w, "detection failed", http.StatusInternalServerError)
		return
	}

	respondJSON(w, result, http.StatusOK)
}

// Suggestions handles GET /recurring/suggestions. It serves the cached
// result of the last detection run; 204 signals the caller to detect.
func (h *RecurringHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	mode, ok := detectionMode(r)
	if !ok {
		respondError(w, "mode must be 'expense' or 'income'", http.StatusBadRequest)
		return
	}

	result, err := h.svc.Suggestions(r.Context(), userID, mode)
	if err != nil {
		respondError(w, "failed to load suggestions", http.StatusInternalServerError)
		return
	}
	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respondJSON(w, result, http.StatusOK)
}

// List handles GET /recurring
func (h *RecurringHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	records, err := h.svc.ListActive(r.Context(), userID)
	if err != nil {
		respondError(w, "failed to list recurring records", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{"records": records}, http.StatusOK)
}

// Dismiss handles POST /recurring/{id}/dismiss
func (h *RecurringHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.recordAction(w, r, h.svc.Dismiss)
}

// Confirm handles POST /recurring/{id}/confirm
func (h *RecurringHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.recordAction(w, r, h.svc.Confirm)
}

// recordAction runs a per-record user action with shared parsing and
// error mapping
func (h *RecurringHandler) recordAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, id, userID uuid.UUID) error) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid record ID", http.StatusBadRequest)
		return
	}

	if err := action(r.Context(), id, userID); err != nil {
		switch err {
		case recurring.ErrRecordNotFound:
			respondError(w, "recurring record not found", http.StatusNotFound)
		case recurring.ErrUnauthorizedAccess:
			respondError(w, "recurring record not found", http.StatusNotFound)
		case recurring.ErrAlreadyDismissed:
			respondError(w, "recurring record already dismissed", http.StatusConflict)
		default:
			respondError(w, "failed to update recurring record", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Projection handles GET /recurring/projection?months=N
func (h *RecurringHandler) Projection(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	months := 3
	if v := r.URL.Query().Get("months"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 36 {
			respondError(w, "months must be between 1 and 36", http.StatusBadRequest)
			return
		}
		months = parsed
	}

	entries, err := h.svc.ProjectCashFlows(r.Context(), userID, time.Now().AddDate(0, months, 0))
	if err != nil {
		respondError(w, "failed to project cash flows", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{"entries": entries}, http.StatusOK)
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/platform/account"
	"github.com/ledgerline/ledgerline/internal/transport/httpapi/middleware"
)

// AccountService defines the account operations needed by AccountHandler
type AccountService interface {
	Create(ctx context.Context, a *account.Account) (*account.Account, error)
	List(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (*account.Account, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// AccountHandler handles account HTTP requests
type AccountHandler struct {
	svc AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(svc AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// CreateAccountRequest represents the account creation request body
type CreateAccountRequest struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	PolarityInverted bool   `json:"polarity_inverted"`
}

// CreateAccount handles POST /accounts
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.svc.Create(r.Context(), &account.Account{
		UserID:           userID,
		Name:             req.Name,
		Type:             account.Type(req.Type),
		PolarityInverted: req.PolarityInverted,
	})
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, created, http.StatusCreated)
}

// GetAccounts handles GET /accounts
func (h *AccountHandler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	accounts, err := h.svc.List(r.Context(), userID)
	if err != nil {
		respondError(w, "failed to list accounts", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{"accounts": accounts}, http.StatusOK)
}

// GetAccount handles GET /accounts/{id}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid account ID", http.StatusBadRequest)
		return
	}

	a, err := h.svc.GetByID(r.Context(), id, userID)
	if err != nil {
		respondError(w, "account not found", http.StatusNotFound)
		return
	}

	respondJSON(w, a, http.StatusOK)
}

// DeleteAccount handles DELETE /accounts/{id}
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid account ID", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id, userID); err != nil {
		respondError(w, "account not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/platform/transaction"
	"github.com/ledgerline/ledgerline/internal/transport/httpapi/middleware"
	"github.com/ledgerline/ledgerline/pkg/money"
)

// TransactionService defines the transaction operations needed by
// TransactionHandler
type TransactionService interface {
	Create(ctx context.Context, rec *transaction.Record) (*transaction.Record, error)
	List(ctx context.Context, userID uuid.UUID, f transaction.Filter) ([]*transaction.Record, error)
}

// TransactionHandler handles transaction HTTP requests
type TransactionHandler struct {
	svc TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(svc TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// CreateTransactionRequest represents the transaction creation request body
type CreateTransactionRequest struct {
	AccountID    string `json:"account_id"`
	Name         string `json:"name"`
	MerchantName string `json:"merchant_name"`
	Category     string `json:"category"`
	Amount       string `json:"amount"`
	Date         string `json:"date"` // YYYY-MM-DD, optional
}

// CreateTransaction handles POST /transactions
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		respondError(w, "invalid account ID", http.StatusBadRequest)
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		respondError(w, "invalid amount", http.StatusBadRequest)
		return
	}

	var date *time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			respondError(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		date = &parsed
	}

	created, err := h.svc.Create(r.Context(), &transaction.Record{
		AccountID:    accountID,
		UserID:       userID,
		Name:         req.Name,
		MerchantName: req.MerchantName,
		Category:     req.Category,
		Amount:       amount,
		Date:         date,
	})
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, created, http.StatusCreated)
}

// GetTransactions handles GET /transactions
func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var f transaction.Filter
	if since := r.URL.Query().Get("since"); since != "" {
		parsed, err := time.Parse("2006-01-02", since)
		if err != nil {
			respondError(w, "since must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		f.Since = &parsed
	}

	records, err := h.svc.List(r.Context(), userID, f)
	if err != nil {
		respondError(w, "failed to list transactions", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{"transactions": records}, http.StatusOK)
}

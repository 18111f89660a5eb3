package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ledgerline/ledgerline/internal/platform/loan"
	"github.com/ledgerline/ledgerline/pkg/money"
)

// LoanHandler exposes the amortization calculator
type LoanHandler struct{}

// NewLoanHandler creates a new loan handler
func NewLoanHandler() *LoanHandler {
	return &LoanHandler{}
}

// AmortizeRequest represents the amortization request body
type AmortizeRequest struct {
	Principal     string `json:"principal"`
	AnnualRatePct string `json:"annual_rate_pct"`
	TermMonths    int    `json:"term_months"`
	FirstDueDate  string `json:"first_due_date"` // YYYY-MM-DD, optional
}

// AmortizeResponse represents the amortization response
type AmortizeResponse struct {
	Payment       string             `json:"payment"`
	TotalInterest string             `json:"total_interest"`
	Schedule      []loan.Installment `json:"schedule"`
}

// Amortize handles POST /tools/amortize
func (h *LoanHandler) Amortize(w http.ResponseWriter, r *http.Request) {
	var req AmortizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	principal, err := money.Parse(req.Principal)
	if err != nil {
		respondError(w, "invalid principal", http.StatusBadRequest)
		return
	}

	rate, err := money.Parse(req.AnnualRatePct)
	if err != nil {
		respondError(w, "invalid annual rate", http.StatusBadRequest)
		return
	}

	firstDue := time.Now().AddDate(0, 1, 0)
	if req.FirstDueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.FirstDueDate)
		if err != nil {
			respondError(w, "first_due_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		firstDue = parsed
	}

	terms := loan.Terms{
		Principal:     principal,
		AnnualRatePct: rate,
		TermMonths:    req.TermMonths,
		FirstDueDate:  firstDue,
	}

	schedule, err := loan.Schedule(terms)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, AmortizeResponse{
		Payment:       schedule[0].Payment.String(),
		TotalInterest: loan.TotalInterest(schedule).String(),
		Schedule:      schedule,
	}, http.StatusOK)
}

// Package loan implements closed-form amortization arithmetic. It is a
// consumer of detection output: projected recurring cash flows tell the
// caller what payment a budget can absorb, and the calculator turns loan
// terms into dated payment schedules.
package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/pkg/money"
)

// division precision for intermediate rate math
const ratePrecision = 12

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Terms describes a fixed-rate installment loan
type Terms struct {
	Principal     decimal.Decimal
	AnnualRatePct decimal.Decimal // e.g. 5.5 for 5.5% APR
	TermMonths    int
	FirstDueDate  time.Time
}

// Validate validates the loan terms
func (t *Terms) Validate() error {
	if !t.Principal.IsPositive() {
		return ErrInvalidPrincipal
	}
	if t.AnnualRatePct.IsNegative() {
		return ErrInvalidRate
	}
	if t.TermMonths <= 0 {
		return ErrInvalidTerm
	}
	return nil
}

// Installment is one dated row of an amortization schedule
type Installment struct {
	Number    int             `json:"number"`
	DueDate   time.Time       `json:"due_date"`
	Payment   decimal.Decimal `json:"payment"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
	Balance   decimal.Decimal `json:"balance"`
}

// monthlyRate returns the periodic rate as a decimal fraction
func (t *Terms) monthlyRate() decimal.Decimal {
	return t.AnnualRatePct.DivRound(hundred.Mul(twelve), ratePrecision)
}

// Payment computes the fixed monthly payment with the standard closed
// form P*r*(1+r)^n / ((1+r)^n - 1), rounded to cents.
func Payment(t Terms) (decimal.Decimal, error) {
	if err := t.Validate(); err != nil {
		return decimal.Zero, err
	}

	r := t.monthlyRate()
	n := int64(t.TermMonths)

	if r.IsZero() {
		return money.RoundCents(t.Principal.DivRound(decimal.NewFromInt(n), ratePrecision)), nil
	}

	growth := one.Add(r).Pow(decimal.NewFromInt(n))
	payment := t.Principal.Mul(r).Mul(growth).DivRound(growth.Sub(one), ratePrecision)
	return money.RoundCents(payment), nil
}

// Schedule expands the loan into its full dated amortization schedule.
// The final installment absorbs rounding so the balance lands exactly on
// zero.
func Schedule(t Terms) ([]Installment, error) {
	payment, err := Payment(t)
	if err != nil {
		return nil, err
	}

	r := t.monthlyRate()
	balance := t.Principal
	due := t.FirstDueDate

	schedule := make([]Installment, 0, t.TermMonths)
	for i := 1; i <= t.TermMonths; i++ {
		interest := money.RoundCents(balance.Mul(r))
		principal := payment.Sub(interest)

		if i == t.TermMonths || principal.GreaterThan(balance) {
			principal = balance
			payment = principal.Add(interest)
		}

		balance = balance.Sub(principal)

		schedule = append(schedule, Installment{
			Number:    i,
			DueDate:   due,
			Payment:   payment,
			Interest:  interest,
			Principal: principal,
			Balance:   balance,
		})

		if balance.IsZero() {
			break
		}
		due = due.AddDate(0, 1, 0)
	}

	return schedule, nil
}

// TotalInterest sums the interest column of the schedule
func TotalInterest(schedule []Installment) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range schedule {
		total = total.Add(inst.Interest)
	}
	return total
}

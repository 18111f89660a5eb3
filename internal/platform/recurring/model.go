package recurring

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency labels the inferred cadence of a recurring pattern. It is a
// closed enum: detection either maps a series onto one of these labels or
// rejects the series, it never guesses at ambiguous intervals.
type Frequency string

const (
	FreqWeekly    Frequency = "weekly"
	FreqBiweekly  Frequency = "bi-weekly"
	FreqMonthly   Frequency = "monthly"
	FreqQuarterly Frequency = "quarterly"
	FreqYearly    Frequency = "yearly"
)

// Valid reports whether the frequency is one of the supported labels
func (f Frequency) Valid() bool {
	switch f {
	case FreqWeekly, FreqBiweekly, FreqMonthly, FreqQuarterly, FreqYearly:
		return true
	}
	return false
}

// Next returns the expected next occurrence after t for this frequency
func (f Frequency) Next(t time.Time) time.Time {
	switch f {
	case FreqWeekly:
		return t.AddDate(0, 0, 7)
	case FreqBiweekly:
		return t.AddDate(0, 0, 14)
	case FreqMonthly:
		return t.AddDate(0, 1, 0)
	case FreqQuarterly:
		return t.AddDate(0, 3, 0)
	case FreqYearly:
		return t.AddDate(1, 0, 0)
	}
	return t
}

// Mode selects which side of the cash flow a detection run looks at
type Mode string

const (
	ModeExpense Mode = "expense"
	ModeIncome  Mode = "income"
)

// Valid reports whether the mode is supported
func (m Mode) Valid() bool {
	return m == ModeExpense || m == ModeIncome
}

// Record is a persisted recurring bill, subscription or income pattern.
// Records are created by detection, updated in place on re-runs while
// active, and only ever deactivated by explicit user dismissal.
type Record struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Name         string // normalized, lowercase
	DisplayName  string // original casing, for presentation
	MerchantName string // optional
	Category     string // optional
	Amount       decimal.Decimal // absolute value
	Flow         Mode
	Frequency    Frequency

	NextDueDate         time.Time
	LastTransactionDate time.Time

	// Confidence is a 0-100 integer. It is monotonically non-decreasing
	// across re-runs unless the pattern drifts, in which case it drops and
	// IsConfirmed is cleared so the user is asked to re-confirm.
	Confidence  int
	Occurrences int

	IsActive    bool
	IsConfirmed bool
	DismissedAt *time.Time

	LinkedTransactionIDs []uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDismissed reports whether the user explicitly dismissed this record.
// Dismissal is durable: a dismissed key is never re-created by detection.
func (r *Record) IsDismissed() bool {
	return r.DismissedAt != nil
}

// Observation is a single normalized transaction fed into detection
type Observation struct {
	TransactionID uuid.UUID
	Name          string // cleaned, lowercase
	DisplayName   string
	MerchantName  string
	Category      string
	Amount        decimal.Decimal // effective amount: positive income, negative expense
	Date          time.Time       // midnight UTC
}

// SeriesKey identifies a candidate series by normalized name and exact
// amount. Amount is held as a canonical string so the key is comparable.
type SeriesKey struct {
	Name   string
	Amount string
}

// CandidateSeries is a tentative group of transactions sharing a normalized
// name and amount, not yet confirmed as recurring. Dates are unique and
// descending.
type CandidateSeries struct {
	Key            SeriesKey
	DisplayName    string
	MerchantName   string
	Category       string
	Amount         decimal.Decimal // absolute value
	Dates          []time.Time
	TransactionIDs []uuid.UUID
}

// Occurrences returns the number of distinct dates in the series
func (c *CandidateSeries) Occurrences() int {
	return len(c.Dates)
}

// Latest returns the most recent date in the series
func (c *CandidateSeries) Latest() time.Time {
	return c.Dates[0]
}

// Evaluation is a candidate series that passed interval classification,
// together with its classification and confidence score.
type Evaluation struct {
	Series     *CandidateSeries
	Class      Classification
	Confidence int
}

// CandidateError reports a per-candidate persistence failure. One failing
// upsert never aborts the rest of the run.
type CandidateError struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Err    string          `json:"error"`
}

// DetectionResult summarizes one detection run
type DetectionResult struct {
	Mode       Mode             `json:"mode"`
	Created    []*Record        `json:"created"`
	Updated    []*Record        `json:"updated"`
	Suppressed int              `json:"suppressed"`
	Errors     []CandidateError `json:"errors,omitempty"`
	RanAt      time.Time        `json:"ran_at"`
}

// CashFlowEntry is a dated projected cash flow derived from an active
// recurring record, suitable for feeding a loan/amortization calculator.
type CashFlowEntry struct {
	Date   time.Time       `json:"date"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"` // signed: positive income, negative expense
}

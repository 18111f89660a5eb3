package recurring

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/pkg/money"
)

// Reconciler cross-references freshly evaluated candidates against the
// user's persisted recurring records. This is where idempotence lives:
// running detection twice on unchanged input must not grow the record set,
// and an explicitly dismissed key is never resurrected.
type Reconciler struct {
	tolerance decimal.Decimal
	now       func() time.Time
}

// NewReconciler creates a reconciler with the default amount tolerance
func NewReconciler(now func() time.Time) *Reconciler {
	if now == nil {
		now = time.Now
	}
	return &Reconciler{
		tolerance: money.DefaultTolerance,
		now:       now,
	}
}

// Outcome is the reconciliation verdict for a full candidate set
type Outcome struct {
	ToCreate   []*Record
	ToUpdate   []*Record
	Suppressed int
}

// Reconcile matches each evaluated candidate against existing records.
// Match rule: case-insensitive name equality, amount within tolerance,
// same frequency. Active match updates in place; dismissed match is
// suppressed; no match creates a new suggestion.
func (r *Reconciler) Reconcile(userID uuid.UUID, mode Mode, evals []*Evaluation, active, dismissed []*Record) Outcome {
	var out Outcome
	now := r.now()

	for _, eval := range evals {
		series := eval.Series

		if r.findMatch(dismissed, series, eval.Class.Frequency) != nil {
			// User intent is durable: never re-create a dismissed key
			out.Suppressed++
			continue
		}

		if existing := r.findMatch(active, series, eval.Class.Frequency); existing != nil {
			r.applyUpdate(existing, eval, now)
			out.ToUpdate = append(out.ToUpdate, existing)
			continue
		}

		out.ToCreate = append(out.ToCreate, r.newRecord(userID, mode, eval, now))
	}

	return out
}

// findMatch returns the first record matching the candidate's key
func (r *Reconciler) findMatch(records []*Record, series *CandidateSeries, freq Frequency) *Record {
	for _, rec := range records {
		if !strings.EqualFold(rec.Name, series.Key.Name) {
			continue
		}
		if !money.WithinTolerance(rec.Amount, series.Amount, r.tolerance) {
			continue
		}
		if rec.Frequency != freq {
			continue
		}
		return rec
	}
	return nil
}

// applyUpdate refreshes an active record from a matching candidate.
// Confidence is monotonically non-decreasing here; only drift lowers it.
func (r *Reconciler) applyUpdate(rec *Record, eval *Evaluation, now time.Time) {
	latest := eval.Series.Latest()
	if latest.After(rec.LastTransactionDate) {
		rec.LastTransactionDate = latest
	}
	rec.NextDueDate = rec.Frequency.Next(rec.LastTransactionDate)

	if eval.Confidence > rec.Confidence {
		rec.Confidence = eval.Confidence
	}
	if eval.Series.Occurrences() > rec.Occurrences {
		rec.Occurrences = eval.Series.Occurrences()
	}

	rec.LinkedTransactionIDs = eval.Series.TransactionIDs
	rec.UpdatedAt = now
}

// newRecord builds a fresh suggestion from an evaluated candidate
func (r *Reconciler) newRecord(userID uuid.UUID, mode Mode, eval *Evaluation, now time.Time) *Record {
	series := eval.Series
	latest := series.Latest()

	return &Record{
		ID:                   uuid.New(),
		UserID:               userID,
		Name:                 series.Key.Name,
		DisplayName:          series.DisplayName,
		MerchantName:         series.MerchantName,
		Category:             series.Category,
		Amount:               series.Amount,
		Flow:                 mode,
		Frequency:            eval.Class.Frequency,
		NextDueDate:          eval.Class.Frequency.Next(latest),
		LastTransactionDate:  latest,
		Confidence:           eval.Confidence,
		Occurrences:          series.Occurrences(),
		IsActive:             true,
		IsConfirmed:          false,
		LinkedTransactionIDs: series.TransactionIDs,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// DetectDrift flags active records whose merchant keeps charging at an
// amount outside tolerance. The record's last-seen date advances, its
// confidence drops and its confirmation is cleared so the user re-confirms
// instead of the change being absorbed silently. Returns the records that
// changed and were not already scheduled for update.
func (r *Reconciler) DetectDrift(active []*Record, idx NameIndex, updated []*Record) []*Record {
	alreadyUpdated := make(map[uuid.UUID]bool, len(updated))
	for _, rec := range updated {
		alreadyUpdated[rec.ID] = true
	}

	now := r.now()
	var drifted []*Record

	for _, rec := range active {
		latest, ok := idx.Latest(rec.Name)
		if !ok {
			continue
		}
		if !latest.Date.After(rec.LastTransactionDate) {
			continue
		}
		if money.WithinTolerance(rec.Amount, latest.Amount.Abs(), r.tolerance) {
			continue
		}

		rec.LastTransactionDate = latest.Date
		rec.NextDueDate = rec.Frequency.Next(latest.Date)
		rec.Confidence = DriftConfidence(rec.Confidence)
		rec.IsConfirmed = false
		rec.UpdatedAt = now

		if !alreadyUpdated[rec.ID] {
			drifted = append(drifted, rec)
		}
	}

	return drifted
}

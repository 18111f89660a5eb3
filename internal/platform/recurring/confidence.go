package recurring

import (
	"math"
	"time"
)

// Confidence formula: occurrence count and gap regularity each contribute
// half of the 0-100 range. Occurrence evidence saturates: after
// occurrenceSaturation observations, more history adds nothing.
//
//	confidence = 50*min(n, 8)/8 + 50*regularity
const occurrenceSaturation = 8

// driftPenalty scales confidence down when a pattern's amount or interval
// drifts outside tolerance.
const driftPenalty = 0.6

// ScoreConfidence derives a 0-100 confidence value from occurrence count
// and interval regularity.
func ScoreConfidence(occurrences int, regularity float64) int {
	if occurrences <= 0 {
		return 0
	}

	n := float64(occurrences)
	if n > occurrenceSaturation {
		n = occurrenceSaturation
	}
	if regularity < 0 {
		regularity = 0
	}
	if regularity > 1 {
		regularity = 1
	}

	score := 50*(n/occurrenceSaturation) + 50*regularity
	return int(math.Round(score))
}

// DriftConfidence returns the reduced confidence applied when a pattern
// breaks (amount or interval outside tolerance).
func DriftConfidence(current int) int {
	return int(math.Round(float64(current) * driftPenalty))
}

// IsOverdue reports whether the pattern's next occurrence is late relative
// to its frequency, beyond tolerance. An overdue pattern is flagged, not
// penalized: a missed or late payment is still evidence of recurrence.
func IsOverdue(lastTransaction time.Time, freq Frequency, now time.Time) bool {
	_, tolerance := freq.Window()
	due := freq.Next(lastTransaction)
	return now.After(due.AddDate(0, 0, tolerance))
}

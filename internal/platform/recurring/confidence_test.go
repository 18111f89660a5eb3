package recurring_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerline/ledgerline/internal/platform/recurring"
)

func TestScoreConfidence(t *testing.T) {
	tests := []struct {
		name        string
		occurrences int
		regularity  float64
		expected    int
	}{
		{"minimum evidence, perfect regularity", 3, 1.0, 69},
		{"four occurrences, perfect regularity", 4, 1.0, 75},
		{"saturated history", 8, 1.0, 100},
		{"beyond saturation adds nothing", 20, 1.0, 100},
		{"half regularity", 4, 0.5, 50},
		{"no regularity", 4, 0.0, 25},
		{"zero occurrences", 0, 1.0, 0},
		{"regularity clamped above one", 4, 1.5, 75},
		{"regularity clamped below zero", 4, -0.5, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, recurring.ScoreConfidence(tt.occurrences, tt.regularity))
		})
	}
}

func TestScoreConfidence_NeverDecreasesWithMoreEvidence(t *testing.T) {
	prev := 0
	for n := 1; n <= 12; n++ {
		score := recurring.ScoreConfidence(n, 1.0)
		assert.GreaterOrEqual(t, score, prev)
		assert.LessOrEqual(t, score, 100)
		prev = score
	}
}

func TestDriftConfidence(t *testing.T) {
	assert.Equal(t, 60, recurring.DriftConfidence(100))
	assert.Equal(t, 41, recurring.DriftConfidence(69))
	assert.Equal(t, 0, recurring.DriftConfidence(0))
}

func TestIsOverdue(t *testing.T) {
	last := day(2024, 1, 1)

	tests := []struct {
		name    string
		freq    recurring.Frequency
		now     time.Time
		overdue bool
	}{
		{"monthly on time", recurring.FreqMonthly, day(2024, 2, 1), false},
		{"monthly inside tolerance", recurring.FreqMonthly, day(2024, 2, 4), false},
		{"monthly past tolerance", recurring.FreqMonthly, day(2024, 2, 5), true},
		{"weekly inside tolerance", recurring.FreqWeekly, day(2024, 1, 9), false},
		{"weekly past tolerance", recurring.FreqWeekly, day(2024, 1, 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overdue, recurring.IsOverdue(last, tt.freq, tt.now))
		})
	}
}

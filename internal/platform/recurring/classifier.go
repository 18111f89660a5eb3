package recurring

import (
	"math"
	"time"
)

// intervalWindow maps a target day gap, with tolerance, to a frequency label
type intervalWindow struct {
	freq      Frequency
	target    int
	tolerance int
}

// intervalWindows are the supported cadences. A gap outside every window
// carries no cadence signal: ambiguous intervals are never guessed at.
var intervalWindows = []intervalWindow{
	{FreqWeekly, 7, 1},
	{FreqBiweekly, 14, 2},
	{FreqMonthly, 30, 3},
	{FreqQuarterly, 90, 7},
	{FreqYearly, 365, 10},
}

// MinModeCount is the minimum number of gaps that must agree on the modal
// frequency. One matching gap is coincidence, not cadence.
const MinModeCount = 2

// Classification describes the inferred cadence of a candidate series
type Classification struct {
	Frequency Frequency
	ModalGap  int // most common raw gap within the modal window
	ModeCount int // gaps agreeing on the modal frequency
	Gaps      []int

	// Regularity is the fraction of all gaps that fall inside the
	// frequency's tolerance window.
	Regularity float64
}

// Window returns the tolerance window for a frequency
func (f Frequency) Window() (target, tolerance int) {
	for _, w := range intervalWindows {
		if w.freq == f {
			return w.target, w.tolerance
		}
	}
	return 0, 0
}

// matchWindow maps a day gap onto a frequency, or false when the gap
// falls inside no window
func matchWindow(gap int) (Frequency, bool) {
	for _, w := range intervalWindows {
		if gap >= w.target-w.tolerance && gap <= w.target+w.tolerance {
			return w.freq, true
		}
	}
	return "", false
}

// Classify infers the cadence of a series from its dates (descending,
// unique). Gaps are bucketed into their tolerance windows and the modal
// window wins; raw calendar gaps for a true monthly charge wobble between
// 28 and 31 days, so exact gap values cannot be counted directly. Returns
// false when the series shows no regular, supported interval; that is a
// normal rejection, not an error.
func Classify(dates []time.Time) (Classification, bool) {
	if len(dates) < MinOccurrences {
		return Classification{}, false
	}

	gaps := dayGaps(dates)
	if len(gaps) == 0 {
		return Classification{}, false
	}

	// Histogram over frequency labels; gaps matching no window are noise
	labelCounts := make(map[Frequency]int)
	for _, g := range gaps {
		if freq, ok := matchWindow(g); ok {
			labelCounts[freq]++
		}
	}

	var freq Frequency
	modeCount := 0
	for f, c := range labelCounts {
		if c > modeCount || (c == modeCount && shorter(f, freq)) {
			freq, modeCount = f, c
		}
	}

	if modeCount < MinModeCount {
		return Classification{}, false
	}

	target, tolerance := freq.Window()

	// Most common raw gap inside the winning window, ties to the smaller
	// gap so results do not depend on input order
	rawCounts := make(map[int]int)
	for _, g := range gaps {
		if g >= target-tolerance && g <= target+tolerance {
			rawCounts[g]++
		}
	}
	modalGap, modalCount := 0, 0
	for g, c := range rawCounts {
		if c > modalCount || (c == modalCount && g < modalGap) {
			modalGap, modalCount = g, c
		}
	}

	return Classification{
		Frequency:  freq,
		ModalGap:   modalGap,
		ModeCount:  modeCount,
		Gaps:       gaps,
		Regularity: float64(modeCount) / float64(len(gaps)),
	}, true
}

// shorter reports whether a sorts before b in window order (weekly first).
// Used only for tie-breaking the modal frequency.
func shorter(a, b Frequency) bool {
	pos := func(f Frequency) int {
		for i, w := range intervalWindows {
			if w.freq == f {
				return i
			}
		}
		return len(intervalWindows)
	}
	return pos(a) < pos(b)
}

// dayGaps computes the day deltas between consecutive dates
func dayGaps(dates []time.Time) []int {
	gaps := make([]int, 0, len(dates)-1)
	for i := 0; i < len(dates)-1; i++ {
		days := int(math.Round(math.Abs(dates[i].Sub(dates[i+1]).Hours()) / 24))
		gaps = append(gaps, days)
	}
	return gaps
}

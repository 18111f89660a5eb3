package recurring

import (
	"sort"
	"time"
)

// MinOccurrences is the minimum-evidence threshold: a series with fewer
// distinct dates never becomes a suggestion.
const MinOccurrences = 3

// NameIndex maps a normalized name to its observations, newest first.
// It is used by drift detection, which needs to see a merchant's activity
// across amount changes that split the exact-amount grouping.
type NameIndex map[string][]Observation

// Latest returns the newest observation for a name, or false if none
func (idx NameIndex) Latest(name string) (Observation, bool) {
	obs := idx[name]
	if len(obs) == 0 {
		return Observation{}, false
	}
	return obs[0], true
}

// Group buckets observations into candidate series by (cleaned name,
// exact amount). Amounts are compared exactly: true recurring charges
// carry a stable amount, and fuzzing here would merge unrelated charges.
// Groups below MinOccurrences are discarded.
func Group(observations []Observation) ([]*CandidateSeries, NameIndex) {
	buckets := make(map[SeriesKey]*CandidateSeries)
	seen := make(map[SeriesKey]map[time.Time]bool)
	idx := make(NameIndex)

	for _, obs := range observations {
		idx[obs.Name] = append(idx[obs.Name], obs)

		key := SeriesKey{
			Name:   obs.Name,
			Amount: obs.Amount.Abs().String(),
		}

		series, exists := buckets[key]
		if !exists {
			series = &CandidateSeries{
				Key:          key,
				DisplayName:  obs.DisplayName,
				MerchantName: obs.MerchantName,
				Category:     obs.Category,
				Amount:       obs.Amount.Abs(),
			}
			buckets[key] = series
			seen[key] = make(map[time.Time]bool)
		}

		// Same-day duplicates collapse to one occurrence
		if seen[key][obs.Date] {
			continue
		}
		seen[key][obs.Date] = true

		series.Dates = append(series.Dates, obs.Date)
		series.TransactionIDs = append(series.TransactionIDs, obs.TransactionID)
	}

	candidates := make([]*CandidateSeries, 0, len(buckets))
	for _, series := range buckets {
		if len(series.Dates) < MinOccurrences {
			continue
		}

		sort.Slice(series.Dates, func(i, j int) bool {
			return series.Dates[i].After(series.Dates[j])
		})

		candidates = append(candidates, series)
	}

	// Newest observations first in the name index
	for name := range idx {
		obs := idx[name]
		sort.Slice(obs, func(i, j int) bool {
			return obs[i].Date.After(obs[j].Date)
		})
	}

	// Deterministic candidate order regardless of map iteration
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Key.Name != candidates[j].Key.Name {
			return candidates[i].Key.Name < candidates[j].Key.Name
		}
		return candidates[i].Key.Amount < candidates[j].Key.Amount
	})

	return candidates, idx
}

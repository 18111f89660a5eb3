package recurring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/platform/recurring"
)

func TestGroup_ByNameAndExactAmount(t *testing.T) {
	observations := []recurring.Observation{
		obs("netflix.com", "-15.99", day(2024, 1, 1)),
		obs("netflix.com", "-15.99", day(2024, 2, 1)),
		obs("netflix.com", "-15.99", day(2024, 3, 1)),
		// Same merchant, different amount: separate candidate
		obs("netflix.com", "-13.99", day(2024, 4, 1)),
		obs("city gym", "-45.00", day(2024, 1, 5)),
		obs("city gym", "-45.00", day(2024, 2, 5)),
		obs("city gym", "-45.00", day(2024, 3, 5)),
	}

	candidates, idx := recurring.Group(observations)

	// The lone 13.99 charge falls below the occurrence floor
	require.Len(t, candidates, 2)

	// Deterministic order: by name, then amount
	assert.Equal(t, "city gym", candidates[0].Key.Name)
	assert.Equal(t, "netflix.com", candidates[1].Key.Name)
	assert.Equal(t, "15.99", candidates[1].Key.Amount)

	// Dates are unique and descending
	assert.Equal(t, day(2024, 3, 1), candidates[1].Latest())
	assert.Equal(t, 3, candidates[1].Occurrences())

	// The name index still sees every observation, newest first
	latest, ok := idx.Latest("netflix.com")
	require.True(t, ok)
	assert.Equal(t, day(2024, 4, 1), latest.Date)
	assert.True(t, latest.Amount.Equal(dec("-13.99")))
}

func TestGroup_CollapsesSameDayDuplicates(t *testing.T) {
	observations := []recurring.Observation{
		obs("spotify", "-9.99", day(2024, 1, 10)),
		obs("spotify", "-9.99", day(2024, 1, 10)),
		obs("spotify", "-9.99", day(2024, 2, 10)),
		obs("spotify", "-9.99", day(2024, 3, 10)),
	}

	candidates, _ := recurring.Group(observations)

	require.Len(t, candidates, 1)
	assert.Equal(t, 3, candidates[0].Occurrences())
}

func TestGroup_DiscardsBelowMinimumEvidence(t *testing.T) {
	observations := []recurring.Observation{
		obs("spotify", "-9.99", day(2024, 1, 10)),
		obs("spotify", "-9.99", day(2024, 2, 10)),
	}

	candidates, idx := recurring.Group(observations)

	assert.Empty(t, candidates)

	// Discarded candidates still contribute to the name index
	_, ok := idx.Latest("spotify")
	assert.True(t, ok)
}

func TestNameIndex_LatestUnknownName(t *testing.T) {
	_, idx := recurring.Group(nil)

	_, ok := idx.Latest("nobody")
	assert.False(t, ok)
}

package recurring

import (
	"regexp"
	"strings"
	"time"

	"github.com/ledgerline/ledgerline/internal/platform/transaction"
	"github.com/ledgerline/ledgerline/pkg/logger"
	"github.com/ledgerline/ledgerline/pkg/money"
)

// punctRe matches characters that carry no grouping signal. Dots and
// ampersands are kept: merchants like "netflix.com" or "at&t" must survive
// normalization intact.
var punctRe = regexp.MustCompile(`[^a-z0-9&.\s]+`)

// NormalizeName cleans a merchant or description string for grouping:
// lowercase, punctuation stripped, trailing reference numbers removed.
// "NETFLIX.COM *1234" and "netflix.com" normalize to the same key.
func NormalizeName(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = punctRe.ReplaceAllString(s, " ")

	fields := strings.Fields(s)

	// Bank feeds append per-charge reference numbers; drop trailing
	// numeric tokens so repeat charges group together.
	for len(fields) > 0 && isNumericToken(fields[len(fields)-1]) {
		fields = fields[:len(fields)-1]
	}

	return strings.Join(fields, " ")
}

// isNumericToken reports whether a token is digits only (ignoring
// separator dots), e.g. "1234" or "12.08"
func isNumericToken(tok string) bool {
	stripped := strings.ReplaceAll(tok, ".", "")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Normalizer turns raw transaction records into detection observations
type Normalizer struct {
	logger *logger.Logger
}

// NewNormalizer creates a new normalizer
func NewNormalizer(log *logger.Logger) *Normalizer {
	return &Normalizer{logger: log}
}

// Normalize resolves sign polarity, cleans names and filters records to
// the requested mode. Records that cannot be used (missing date, no name,
// wrong flow direction) are dropped, never fatal to the run.
func (n *Normalizer) Normalize(records []*transaction.Record, mode Mode) []Observation {
	observations := make([]Observation, 0, len(records))

	for _, rec := range records {
		obs, ok := n.observe(rec, mode)
		if ok {
			observations = append(observations, obs)
		}
	}

	return observations
}

// observe converts a single record. A panic while processing one record
// drops that record with a warning instead of failing the whole run.
func (n *Normalizer) observe(rec *transaction.Record, mode Mode) (obs Observation, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Warn("dropping transaction after processing panic",
				"transaction_id", rec.ID,
				"panic", r,
			)
			ok = false
		}
	}()

	if rec.Date == nil {
		n.logger.Warn("dropping transaction without date", "transaction_id", rec.ID)
		return Observation{}, false
	}

	effective := rec.EffectiveAmount()
	if effective.IsZero() {
		return Observation{}, false
	}

	switch mode {
	case ModeIncome:
		if !effective.IsPositive() {
			return Observation{}, false
		}
	case ModeExpense:
		if !effective.IsNegative() {
			return Observation{}, false
		}
	}

	// Prefer the merchant name when present; it is usually cleaner than
	// the raw statement description.
	display := rec.MerchantName
	if display == "" {
		display = rec.Name
	}

	cleaned := NormalizeName(display)
	if cleaned == "" {
		n.logger.Warn("dropping transaction with unusable name",
			"transaction_id", rec.ID,
			"name", rec.Name,
		)
		return Observation{}, false
	}

	return Observation{
		TransactionID: rec.ID,
		Name:          cleaned,
		DisplayName:   display,
		MerchantName:  rec.MerchantName,
		Category:      rec.Category,
		Amount:        money.RoundCents(effective),
		Date:          dayOf(*rec.Date),
	}, true
}

// dayOf truncates a timestamp to midnight UTC so gap arithmetic works in
// whole days regardless of the feed's time-of-day noise.
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

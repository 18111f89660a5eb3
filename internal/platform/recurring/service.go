package recurring

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/platform/account"
	"github.com/ledgerline/ledgerline/internal/platform/transaction"
	"github.com/ledgerline/ledgerline/pkg/logger"
)

// Config holds detection tuning knobs
type Config struct {
	// MaxHistory caps how many transactions one run reads, newest first
	MaxHistory int

	// CacheResults controls whether detection results are cached
	CacheResults bool
}

// DefaultConfig returns the default detection configuration
func DefaultConfig() *Config {
	return &Config{
		MaxHistory:   5000,
		CacheResults: true,
	}
}

// Service runs recurring pattern detection and manages the resulting
// records. One detection run is a stateless, single pass over the user's
// transaction history; the only cross-run state is the persisted record
// set read at the start and upserted at the end.
type Service struct {
	txSource   TransactionSource
	repo       Repository
	cache      ResultCache
	normalizer *Normalizer
	reconciler *Reconciler
	config     *Config
	now        func() time.Time
	logger     *logger.Logger
}

// NewService creates a new detection service. cache may be nil to disable
// result caching.
func NewService(txSource TransactionSource, repo Repository, cache ResultCache, config *Config, log *logger.Logger) *Service {
	if config == nil {
		config = DefaultConfig()
	}

	return &Service{
		txSource:   txSource,
		repo:       repo,
		cache:      cache,
		normalizer: NewNormalizer(log),
		reconciler: NewReconciler(time.Now),
		config:     config,
		now:        time.Now,
		logger:     log.WithField("service", "recurring"),
	}
}

// Detect scans the user's transaction history for recurring patterns and
// reconciles them against persisted records. Re-running on unchanged input
// is a no-op for the active record set.
func (s *Service) Detect(ctx context.Context, userID uuid.UUID, mode Mode) (*DetectionResult, error) {
	if !mode.Valid() {
		return nil, ErrInvalidMode
	}

	result := &DetectionResult{
		Mode:    mode,
		Created: []*Record{},
		Updated: []*Record{},
		RanAt:   s.now(),
	}

	records, err := s.txSource.ListByUser(ctx, userID, s.detectionFilter(mode))
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction history: %w", err)
	}

	// No history is a successful empty run, not an error
	if len(records) == 0 {
		s.storeResult(ctx, userID, mode, result)
		return result, nil
	}

	observations := s.normalizer.Normalize(records, mode)
	candidates, nameIndex := Group(observations)

	if len(observations) == 0 {
		s.storeResult(ctx, userID, mode, result)
		return result, nil
	}

	evals := s.evaluate(candidates)

	active, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active records: %w", err)
	}
	dismissed, err := s.repo.ListDismissed(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dismissed records: %w", err)
	}

	outcome := s.reconciler.Reconcile(userID, mode, evals, active, dismissed)
	result.Suppressed = outcome.Suppressed

	drifted := s.reconciler.DetectDrift(active, nameIndex, outcome.ToUpdate)

	// Per-candidate upserts are independently idempotent: one failure is
	// reported and the rest of the run continues.
	for _, rec := range outcome.ToCreate {
		if err := s.persist(ctx, rec, result); err == nil {
			result.Created = append(result.Created, rec)
		}
	}
	for _, rec := range append(outcome.ToUpdate, drifted...) {
		if err := s.persist(ctx, rec, result); err == nil {
			result.Updated = append(result.Updated, rec)
		}
	}

	s.logger.Info("detection run complete",
		"user_id", userID,
		"mode", mode,
		"candidates", len(evals),
		"created", len(result.Created),
		"updated", len(result.Updated),
		"suppressed", result.Suppressed,
		"errors", len(result.Errors),
	)

	s.storeResult(ctx, userID, mode, result)
	return result, nil
}

// detectionFilter scopes the transaction read for a mode. Income detection
// only looks at depository accounts; paychecks do not land on credit cards.
func (s *Service) detectionFilter(mode Mode) transaction.Filter {
	f := transaction.Filter{Limit: s.config.MaxHistory}
	if mode == ModeIncome {
		f.AccountTypes = account.DepositoryTypes
	}
	return f
}

// evaluate classifies and scores each candidate group. Most one-off
// merchants are rejected here without a trace; that is the normal path.
func (s *Service) evaluate(candidates []*CandidateSeries) []*Evaluation {
	evals := make([]*Evaluation, 0, len(candidates))

	for _, series := range candidates {
		class, ok := Classify(series.Dates)
		if !ok {
			continue
		}

		eval := &Evaluation{
			Series:     series,
			Class:      class,
			Confidence: ScoreConfidence(series.Occurrences(), class.Regularity),
		}

		if IsOverdue(series.Latest(), class.Frequency, s.now()) {
			s.logger.Debug("recurring candidate overdue",
				"name", series.Key.Name,
				"frequency", class.Frequency,
				"last_seen", series.Latest(),
			)
		}

		evals = append(evals, eval)
	}

	return evals
}

// persist upserts one record, recording a per-candidate error on failure
func (s *Service) persist(ctx context.Context, rec *Record, result *DetectionResult) error {
	id, err := s.repo.Upsert(ctx, rec)
	if err != nil {
		s.logger.Error("failed to upsert recurring record",
			"name", rec.Name,
			"amount", rec.Amount,
			"error", err,
		)
		result.Errors = append(result.Errors, CandidateError{
			Name:   rec.Name,
			Amount: rec.Amount,
			Err:    err.Error(),
		})
		return err
	}

	rec.ID = id
	return nil
}

// storeResult caches the run result; cache failures are logged, never fatal
func (s *Service) storeResult(ctx context.Context, userID uuid.UUID, mode Mode, result *DetectionResult) {
	if s.cache == nil || !s.config.CacheResults {
		return
	}
	if err := s.cache.SetResult(ctx, userID, mode, result); err != nil {
		s.logger.Warn("failed to cache detection result", "user_id", userID, "error", err)
	}
}

// Suggestions returns the most recent cached detection result for the
// user, or nil when nothing is cached.
func (s *Service) Suggestions(ctx context.Context, userID uuid.UUID, mode Mode) (*DetectionResult, error) {
	if !mode.Valid() {
		return nil, ErrInvalidMode
	}
	if s.cache == nil || !s.config.CacheResults {
		return nil, nil
	}
	return s.cache.GetResult(ctx, userID, mode)
}

// ListActive returns all active recurring records for a user
func (s *Service) ListActive(ctx context.Context, userID uuid.UUID) ([]*Record, error) {
	records, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring records: %w", err)
	}
	return records, nil
}

// Dismiss deactivates a record on the user's behalf. The dismissal is
// durable: detection will suppress this key on every future run.
func (s *Service) Dismiss(ctx context.Context, id, userID uuid.UUID) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.UserID != userID {
		return ErrUnauthorizedAccess
	}
	if rec.IsDismissed() {
		return ErrAlreadyDismissed
	}

	if err := s.repo.Dismiss(ctx, id, s.now()); err != nil {
		return fmt.Errorf("failed to dismiss record: %w", err)
	}

	s.invalidateCache(ctx, userID)
	return nil
}

// Confirm marks a record as user-confirmed
func (s *Service) Confirm(ctx context.Context, id, userID uuid.UUID) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.UserID != userID {
		return ErrUnauthorizedAccess
	}

	if err := s.repo.Confirm(ctx, id); err != nil {
		return fmt.Errorf("failed to confirm record: %w", err)
	}

	s.invalidateCache(ctx, userID)
	return nil
}

// ProjectCashFlows expands the user's active recurring records into dated
// cash-flow entries from now until the horizon. The entries are ready to
// feed a loan/amortization calculator.
func (s *Service) ProjectCashFlows(ctx context.Context, userID uuid.UUID, horizon time.Time) ([]CashFlowEntry, error) {
	records, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring records: %w", err)
	}

	var entries []CashFlowEntry
	for _, rec := range records {
		amount := rec.Amount
		if rec.Flow == ModeExpense {
			amount = amount.Neg()
		}

		for due := rec.NextDueDate; !due.After(horizon); due = rec.Frequency.Next(due) {
			entries = append(entries, CashFlowEntry{
				Date:   due,
				Name:   rec.Name,
				Amount: amount,
			})
		}
	}

	sortCashFlows(entries)
	return entries, nil
}

// sortCashFlows orders projected entries by date, then name
func sortCashFlows(entries []CashFlowEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].Name < entries[j].Name
	})
}

func (s *Service) invalidateCache(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate detection cache", "user_id", userID, "error", err)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"greengain/domain"
	"greengain/metrics"
	"greengain/repository"
)

// Callers recorded in the calculations counter.
const (
	SourceAPI      = "api"
	SourceAutoFill = "autofill"
	SourceRoadmap  = "roadmap"
	SourceCLI      = "cli"
)

// CreditService wraps the engine with the session store, logging and
// metrics. The rule table can be swapped at runtime; each computation sees
// exactly one table.
type CreditService struct {
	engine    atomic.Pointer[CreditEngine]
	estimates repository.EstimateRepository
	logger    *zap.Logger
	metrics   *metrics.Registry
}

// NewCreditService creates a CreditService. estimates may be nil when no
// session storage is wanted (CLI use).
func NewCreditService(
	engine *CreditEngine,
	estimates repository.EstimateRepository,
	logger *zap.Logger,
	reg *metrics.Registry,
) *CreditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CreditService{estimates: estimates, logger: logger, metrics: reg}
	s.engine.Store(engine)
	return s
}

// Calculate computes the credit for costs. When sessionID is set the
// estimate replaces the session's previous one; a storage failure is logged
// and does not affect the result.
func (s *CreditService) Calculate(
	ctx context.Context,
	source string,
	sessionID string,
	costs domain.ItemizedCosts,
) domain.CreditResult {
	result := s.engine.Load().Compute(costs)

	s.metrics.Inc(metrics.CreditCalculations, source)
	for _, field := range result.ClampedFields {
		s.metrics.Inc(metrics.ClampedInputs, field)
	}
	if len(result.ClampedFields) > 0 {
		s.logger.Debug("negative inputs clamped",
			zap.String("source", source),
			zap.Strings("fields", result.ClampedFields))
	}

	if sessionID != "" && s.estimates != nil {
		est := domain.Estimate{Costs: costs, Result: result}
		if err := s.estimates.SaveLatest(ctx, sessionID, est); err != nil {
			s.metrics.Inc(metrics.EstimateStoreError, "save")
			s.logger.Warn("failed to save estimate",
				zap.String("session", sessionID), zap.Error(err))
		}
	}

	return result
}

// Latest returns the last estimate stored for sessionID.
func (s *CreditService) Latest(ctx context.Context, sessionID string) (domain.Estimate, error) {
	if s.estimates == nil {
		return domain.Estimate{}, repository.ErrEstimateNotFound
	}
	est, err := s.estimates.Latest(ctx, sessionID)
	if err != nil && !errors.Is(err, repository.ErrEstimateNotFound) {
		s.metrics.Inc(metrics.EstimateStoreError, "load")
	}
	return est, err
}

// Rules returns the active rule table.
func (s *CreditService) Rules() domain.RuleSet {
	return s.engine.Load().Rules()
}

// SetRules validates rules and makes them active for later computations.
func (s *CreditService) SetRules(rules domain.RuleSet) error {
	if err := rules.Validate(); err != nil {
		s.metrics.Inc(metrics.RulesReloads, "invalid")
		return fmt.Errorf("credit rules: %w", err)
	}
	s.engine.Store(NewCreditEngine(rules))
	s.metrics.Inc(metrics.RulesReloads, "ok")
	s.logger.Info("credit rules activated",
		zap.Int("tax_year", rules.TaxYear),
		zap.Int("rules", len(rules.Rules)))
	return nil
}

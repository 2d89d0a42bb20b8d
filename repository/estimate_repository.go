package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"greengain/domain"
)

// ErrEstimateNotFound is returned when a session has no stored estimate.
var ErrEstimateNotFound = errors.New("estimate not found")

// EstimateRepository keeps the latest estimate of each session. Only the
// most recent estimate survives; there is no history.
type EstimateRepository interface {
	SaveLatest(ctx context.Context, sessionID string, est domain.Estimate) error
	Latest(ctx context.Context, sessionID string) (domain.Estimate, error)
}

// CacheEstimateRepository stores estimates as JSON in a CacheRepository.
type CacheEstimateRepository struct {
	cache CacheRepository
	ttl   time.Duration
}

func NewCacheEstimateRepository(cache CacheRepository, ttl time.Duration) *CacheEstimateRepository {
	return &CacheEstimateRepository{cache: cache, ttl: ttl}
}

func estimateKey(sessionID string) string {
	return "greengain:estimate:" + sessionID
}

func (r *CacheEstimateRepository) SaveLatest(ctx context.Context, sessionID string, est domain.Estimate) error {
	data, err := json.Marshal(est)
	if err != nil {
		return fmt.Errorf("repository: encode estimate: %w", err)
	}
	return r.cache.Set(ctx, estimateKey(sessionID), string(data), r.ttl)
}

func (r *CacheEstimateRepository) Latest(ctx context.Context, sessionID string) (domain.Estimate, error) {
	raw, ok, err := r.cache.Get(ctx, estimateKey(sessionID))
	if err != nil {
		return domain.Estimate{}, err
	}
	if !ok {
		return domain.Estimate{}, ErrEstimateNotFound
	}

	var est domain.Estimate
	if err := json.Unmarshal([]byte(raw), &est); err != nil {
		return domain.Estimate{}, fmt.Errorf("repository: decode estimate for session %q: %w", sessionID, err)
	}
	return est, nil
}

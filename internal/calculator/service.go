// Package calculator memoizes amortization results behind a cache.Store so
// that identical parameter tuples are computed once.
package calculator

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/loan-calculator/internal/cache"
	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"go.uber.org/zap"
)

// Service computes loan results, consulting an optional store first.
type Service struct {
	logger     *zap.Logger
	calculator *amortization.Calculator
	store      cache.Store
	ttl        time.Duration
}

// NewService creates a Service. A nil store disables memoization.
func NewService(logger *zap.Logger, store cache.Store, ttl time.Duration) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:     logger,
		calculator: amortization.NewCalculator(logger),
		store:      store,
		ttl:        ttl,
	}
}

// Key returns the cache key for params. Floats are encoded with their
// shortest exact representation so distinct inputs never share a key.
func Key(params amortization.Parameters) string {
	parts := []string{
		strconv.FormatFloat(params.Principal, 'g', -1, 64),
		strconv.FormatFloat(params.AnnualInterestRate, 'g', -1, 64),
		strconv.Itoa(params.TermMonths),
		strconv.FormatFloat(params.AnnualInsuranceRate, 'g', -1, 64),
	}
	return constants.CacheKeyPrefix + strings.Join(parts, ":")
}

// Calculate returns the result for params. Store failures are logged and
// fall back to computing; invalid parameters are returned as errors and
// never stored.
func (s *Service) Calculate(ctx context.Context, params amortization.Parameters) (amortization.Result, error) {
	if err := params.Validate(); err != nil {
		return amortization.Result{}, err
	}
	if s.store == nil {
		return s.calculator.Compute(params)
	}

	key := Key(params)
	if result, ok := s.lookup(ctx, key); ok {
		return result, nil
	}

	result, err := s.calculator.Compute(params)
	if err != nil {
		return amortization.Result{}, err
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("failed to encode result for cache",
			zap.String("op", "calculator.Calculate"),
			zap.String("key", key),
			zap.Error(err),
		)
		return result, nil
	}
	if err := s.store.Set(ctx, key, encoded, s.ttl); err != nil {
		s.logger.Warn("failed to store result in cache",
			zap.String("op", "calculator.Calculate"),
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return result, nil
}

func (s *Service) lookup(ctx context.Context, key string) (amortization.Result, bool) {
	data, found, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache lookup failed",
			zap.String("op", "calculator.Calculate"),
			zap.String("key", key),
			zap.Error(err),
		)
		return amortization.Result{}, false
	}
	if !found {
		return amortization.Result{}, false
	}

	var result amortization.Result
	if err := json.Unmarshal(data, &result); err != nil {
		s.logger.Warn("discarding undecodable cache entry",
			zap.String("op", "calculator.Calculate"),
			zap.String("key", key),
			zap.Error(err),
		)
		return amortization.Result{}, false
	}

	s.logger.Debug("cache hit",
		zap.String("op", "calculator.Calculate"),
		zap.String("key", key),
	)
	return result, true
}

package data

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/Adarshh9/FinSaathi-Datathon/internal/errors"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/safety"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/types"
)

// GuardConfig throttles and isolates a remote provider. Zero values disable
// the corresponding guard.
type GuardConfig struct {
	RequestsPerSecond float64
	Burst             int
	FailureThreshold  uint32
	Cooldown          time.Duration
}

// GuardedProvider rate-limits requests to a remote provider and stops
// calling it for a cool-down period after repeated transport failures
type GuardedProvider struct {
	provider PriceProvider
	limiter  *safety.RateLimiter
	breaker  *safety.CircuitBreaker
}

// NewGuardedProvider wraps provider with the guards enabled in config
func NewGuardedProvider(provider PriceProvider, config GuardConfig, log *logger.Logger) *GuardedProvider {
	if log == nil {
		log = logger.Nop()
	}
	g := &GuardedProvider{provider: provider}
	name := provider.GetName()

	if config.RequestsPerSecond > 0 {
		g.limiter = safety.NewRateLimiter(name, config.Burst, config.RequestsPerSecond)
	}
	if config.FailureThreshold > 0 {
		g.breaker = safety.NewCircuitBreaker(name, safety.CircuitBreakerConfig{
			FailureThreshold: config.FailureThreshold,
			Timeout:          config.Cooldown,
		})
		plog := log.With(logger.Component("guarded_provider"))
		g.breaker.SetStateChangeCallback(func(name string, from, to safety.CircuitBreakerState) {
			plog.Warn("provider circuit changed",
				logger.String("provider", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		})
	}
	return g
}

// GetName returns the name of the wrapped provider
func (g *GuardedProvider) GetName() string {
	return g.provider.GetName()
}

// FetchSeries waits for a rate-limit token, then calls the wrapped provider
// through the circuit breaker
func (g *GuardedProvider) FetchSeries(ctx context.Context, symbol, period string) (types.PriceSeries, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return types.PriceSeries{}, err
		}
	}
	if g.breaker == nil {
		return g.provider.FetchSeries(ctx, symbol, period)
	}

	var series types.PriceSeries
	err := g.breaker.Call(func() error {
		var err error
		series, err = g.provider.FetchSeries(ctx, symbol, period)
		return err
	}, isTransportFailure)

	var open *safety.OpenError
	if errors.As(err, &open) {
		return types.PriceSeries{}, apperrors.WrapError(err, apperrors.ErrorCategoryNetwork, "guarded_provider", "fetch").
			WithContext("provider", open.Name)
	}
	return series, err
}

// Breaker returns the circuit breaker, or nil when disabled
func (g *GuardedProvider) Breaker() *safety.CircuitBreaker {
	return g.breaker
}

// isTransportFailure reports errors that say the upstream is unhealthy.
// Missing symbols and cancelled requests do not count.
func isTransportFailure(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	cat, ok := apperrors.CategoryOf(err)
	if !ok {
		return true
	}
	return cat == apperrors.ErrorCategoryNetwork || cat == apperrors.ErrorCategoryRateLimit
}

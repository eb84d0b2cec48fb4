package data

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	apperrors "github.com/Adarshh9/FinSaathi-Datathon/internal/errors"
)

// RetryConfig holds configuration for retrying remote fetches
type RetryConfig struct {
	MaxRetries    int           `yaml:"max_retries"`
	InitialDelay  time.Duration `yaml:"initial_delay"`
	MaxDelay      time.Duration `yaml:"max_delay"`
	BackoffFactor float64       `yaml:"backoff_factor"`
	JitterEnabled bool          `yaml:"jitter"`
}

// DefaultRetryConfig returns a default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2.0,
		JitterEnabled: true,
	}
}

// newBackOff builds the exponential schedule between attempts. Jitter
// spreads each delay by ±10%; the attempt count, not elapsed time, ends it.
func (c RetryConfig) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.InitialDelay
	if c.MaxDelay > 0 {
		b.MaxInterval = c.MaxDelay
	}
	b.Multiplier = 1
	if c.BackoffFactor > 0 {
		b.Multiplier = c.BackoffFactor
	}
	b.RandomizationFactor = 0
	if c.JitterEnabled {
		b.RandomizationFactor = 0.1
	}
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// retry executes fn until it succeeds, returns a non-retryable error or the
// attempts run out. Only network and rate-limit failures are retried.
func retry(ctx context.Context, config RetryConfig, fn func() error) error {
	maxRetries := config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(config.newBackOff(), uint64(maxRetries)), ctx)

	return backoff.Retry(func() error {
		err := fn()
		if err != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}

func isRetryable(err error) bool {
	var ae *apperrors.AnalysisError
	if errors.As(err, &ae) {
		return ae.IsRetryable()
	}
	return false
}

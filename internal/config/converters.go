package config

import (
	"github.com/Adarshh9/FinSaathi-Datathon/internal/backtest"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/indicators"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/montecarlo"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/strategy"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/data"
)

// ProviderOptions converts the data section into provider options
func (c *Config) ProviderOptions(log *logger.Logger) data.ProviderOptions {
	return data.ProviderOptions{
		Name:      c.Data.Provider,
		DataRoot:  c.Data.Dir,
		CSVFormat: c.Data.CSVFormat,
		Interval:  c.Data.Interval,
		Category:  c.Data.Category,
		Cache:     c.Data.Cache,
		Timeout:   c.Data.Timeout,
		Retry: data.RetryConfig{
			MaxRetries:    c.Data.Retry.MaxRetries,
			InitialDelay:  c.Data.Retry.InitialDelay,
			MaxDelay:      c.Data.Retry.MaxDelay,
			BackoffFactor: c.Data.Retry.BackoffFactor,
			JitterEnabled: c.Data.Retry.Jitter,
		},
		Guard: data.GuardConfig{
			RequestsPerSecond: c.Data.Guard.RequestsPerSecond,
			Burst:             c.Data.Guard.Burst,
			FailureThreshold:  c.Data.Guard.FailureThreshold,
			Cooldown:          c.Data.Guard.Cooldown,
		},
		Logger: log,
	}
}

// Warmup returns the parsed warm-up policy. Validate guarantees it parses.
func (c *Config) Warmup() indicators.Warmup {
	w, err := indicators.ParseWarmup(c.Indicators.Warmup)
	if err != nil {
		return indicators.WarmupPartial
	}
	return w
}

// Thresholds returns the signal generator thresholds
func (c *Config) Thresholds() strategy.Thresholds {
	return strategy.Thresholds{
		RSIOversold:   c.Signal.RSIOversold,
		RSIOverbought: c.Signal.RSIOverbought,
	}
}

// SimulatorConfig returns the Monte Carlo parameters
func (c *Config) SimulatorConfig() montecarlo.Config {
	cfg := montecarlo.Config{
		NumPaths:    c.Simulation.Paths,
		HorizonDays: c.Simulation.HorizonDays,
		Workers:     c.Simulation.Workers,
	}
	if c.Simulation.Seed != nil {
		cfg = cfg.WithSeed(*c.Simulation.Seed)
	}
	return cfg
}

// BacktestEngineConfig returns the backtest parameters
func (c *Config) BacktestEngineConfig() backtest.Config {
	return backtest.Config{
		InitialCapital: c.Backtest.InitialCapital,
		RiskFreeRate:   c.Backtest.RiskFreeRate,
	}
}

// HasFormat reports whether the report section requests format
func (c *Config) HasFormat(format string) bool {
	for _, f := range c.Report.Formats {
		if f == format {
			return true
		}
	}
	return false
}

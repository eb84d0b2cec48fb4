// Package montecarlo projects future price paths from the log-return
// statistics of a close series and summarizes their risk.
package montecarlo

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	apperrors "github.com/Adarshh9/FinSaathi-Datathon/internal/errors"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/series"
)

const (
	DefaultNumPaths    = 1000
	DefaultHorizonDays = 252

	// MinCloses is the shortest close series with a defined sample dispersion
	MinCloses = 3
)

// Config holds the simulation parameters
type Config struct {
	NumPaths    int
	HorizonDays int
	Seed        *uint64 // nil draws a fresh seed per run
	Workers     int     // <= 0 uses every CPU
}

// DefaultConfig returns 1000 paths over a one-year (252 session) horizon
func DefaultConfig() Config {
	return Config{
		NumPaths:    DefaultNumPaths,
		HorizonDays: DefaultHorizonDays,
	}
}

// WithSeed returns a copy of c that reproduces the same paths on every run
func (c Config) WithSeed(seed uint64) Config {
	c.Seed = &seed
	return c
}

// Validate rejects non-positive path counts and horizons
func (c Config) Validate() error {
	if c.NumPaths <= 0 {
		return apperrors.NewSimulationParameterError("montecarlo", "validate",
			fmt.Sprintf("number of paths must be positive, got %d", c.NumPaths))
	}
	if c.HorizonDays <= 0 {
		return apperrors.NewSimulationParameterError("montecarlo", "validate",
			fmt.Sprintf("horizon must be positive, got %d", c.HorizonDays))
	}
	return nil
}

// RiskMetrics summarizes the distribution of terminal relative returns
type RiskMetrics struct {
	VaR95             float64 `json:"var_95"`
	VaR99             float64 `json:"var_99"`
	ExpectedShortfall float64 `json:"expected_shortfall"`
	ExpectedReturn    float64 `json:"expected_return"`
	ReturnVolatility  float64 `json:"return_volatility"`
}

// Result holds the per-day path envelope and the risk summary. Every path
// slice has HorizonDays+1 points; point 0 is the last observed close.
type Result struct {
	MeanPath []float64 `json:"mean_path"`
	Upper95  []float64 `json:"upper_95"`
	Lower95  []float64 `json:"lower_95"`
	MaxPath  []float64 `json:"max_path"`
	MinPath  []float64 `json:"min_path"`

	Risk            RiskMetrics `json:"risk_metrics"`
	TerminalReturns []float64   `json:"-"`

	Drift       float64 `json:"drift"`
	Dispersion  float64 `json:"dispersion"`
	LastPrice   float64 `json:"last_price"`
	NumPaths    int     `json:"num_paths"`
	HorizonDays int     `json:"horizon_days"`
	Seed        uint64  `json:"seed"`
}

// Simulator generates geometric random-walk paths with normally distributed
// log returns
type Simulator struct {
	config Config
	log    *logger.Logger
}

// NewSimulator creates a simulator. Parameters are checked by Simulate.
func NewSimulator(config Config, log *logger.Logger) *Simulator {
	if log == nil {
		log = logger.Nop()
	}
	return &Simulator{
		config: config,
		log:    log.With(logger.Component("montecarlo")),
	}
}

// Config returns the simulation parameters
func (s *Simulator) Config() Config {
	return s.config
}

// Simulate projects NumPaths paths of HorizonDays steps from the last close.
// Each path draws from its own PCG stream keyed by (seed, path index), so a
// fixed seed gives identical results for any worker count.
func (s *Simulator) Simulate(ctx context.Context, closes []float64) (*Result, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	mu, sigma, err := LogReturnStats(closes)
	if err != nil {
		return nil, err
	}

	seed := rand.Uint64()
	if s.config.Seed != nil {
		seed = *s.config.Seed
	}

	start := time.Now()
	numPaths, horizon := s.config.NumPaths, s.config.HorizonDays
	lastPrice := closes[len(closes)-1]

	paths := make([][]float64, numPaths)
	err = parallelFor(ctx, s.config.Workers, numPaths, func(i int) {
		rng := rand.New(rand.NewPCG(seed, uint64(i)))
		path := make([]float64, horizon+1)
		path[0] = lastPrice
		for d := 1; d <= horizon; d++ {
			path[d] = path[d-1] * math.Exp(mu+sigma*rng.NormFloat64())
		}
		paths[i] = path
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		MeanPath:    make([]float64, horizon+1),
		Upper95:     make([]float64, horizon+1),
		Lower95:     make([]float64, horizon+1),
		MaxPath:     make([]float64, horizon+1),
		MinPath:     make([]float64, horizon+1),
		Drift:       mu,
		Dispersion:  sigma,
		LastPrice:   lastPrice,
		NumPaths:    numPaths,
		HorizonDays: horizon,
		Seed:        seed,
	}

	err = parallelFor(ctx, s.config.Workers, horizon+1, func(d int) {
		day := make([]float64, numPaths)
		sum := 0.0
		for i, path := range paths {
			day[i] = path[d]
			sum += path[d]
		}
		sort.Float64s(day)
		res.MeanPath[d] = sum / float64(numPaths)
		res.Upper95[d] = series.PercentileSorted(day, 95)
		res.Lower95[d] = series.PercentileSorted(day, 5)
		res.MaxPath[d] = day[numPaths-1]
		res.MinPath[d] = day[0]
	})
	if err != nil {
		return nil, err
	}

	res.TerminalReturns = make([]float64, numPaths)
	for i, path := range paths {
		res.TerminalReturns[i] = (path[horizon] - lastPrice) / lastPrice
	}
	res.Risk = ComputeRiskMetrics(res.TerminalReturns)

	s.log.Debug("simulation complete",
		logger.Int("paths", numPaths),
		logger.Int("horizon", horizon),
		logger.Float("drift", mu),
		logger.Float("dispersion", sigma),
		logger.Float("var_95", res.Risk.VaR95),
		logger.Duration("elapsed", time.Since(start)))
	return res, nil
}

// LogReturnStats returns the sample mean and sample standard deviation of
// the one-step log returns of closes
func LogReturnStats(closes []float64) (mu, sigma float64, err error) {
	if len(closes) < MinCloses {
		return 0, 0, apperrors.NewDataUnavailableError("montecarlo", "log_returns",
			fmt.Sprintf("need at least %d closes, got %d", MinCloses, len(closes)))
	}
	returns := make([]float64, len(closes)-1)
	for i, c := range closes {
		if !(c > 0) || math.IsInf(c, 0) {
			return 0, 0, apperrors.NewDataUnavailableError("montecarlo", "log_returns",
				fmt.Sprintf("close at index %d is not a positive price: %v", i, c))
		}
		if i > 0 {
			returns[i-1] = math.Log(c / closes[i-1])
		}
	}
	return series.Mean(returns), series.StdDev(returns, 1), nil
}

// ComputeRiskMetrics derives VaR, expected shortfall and the moments of a
// terminal return distribution
func ComputeRiskMetrics(returns []float64) RiskMetrics {
	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	var95 := series.PercentileSorted(sorted, 5)
	tail := make([]float64, 0, len(sorted)/20+1)
	for _, r := range sorted {
		if r > var95 {
			break
		}
		tail = append(tail, r)
	}

	return RiskMetrics{
		VaR95:             var95,
		VaR99:             series.PercentileSorted(sorted, 1),
		ExpectedShortfall: series.Mean(tail),
		ExpectedReturn:    series.Mean(returns),
		ReturnVolatility:  series.StdDev(returns, 1),
	}
}

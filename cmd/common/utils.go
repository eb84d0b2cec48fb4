package common

import (
	"fmt"
	"strings"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/analysis"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/backtest"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/config"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/monitoring"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/montecarlo"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/pipeline"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/strategy"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/data"
)

// Header prints a formatted header
func Header(title string) {
	fmt.Printf("\n🎯 %s\n", strings.ToUpper(title))
	fmt.Printf("%s\n", strings.Repeat("=", len(title)+5))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Printf("ℹ️  %s\n", fmt.Sprintf(format, args...))
}

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Printf("✅ %s\n", fmt.Sprintf(format, args...))
}

// Warn prints a warning message
func Warn(format string, args ...interface{}) {
	fmt.Printf("⚠️  %s\n", fmt.Sprintf(format, args...))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Printf("❌ %s\n", fmt.Sprintf(format, args...))
}

// LoadConfig loads the env file, then the configuration, then applies the
// command-line flags and validates the result.
func LoadConfig(f *CommonFlags) (*config.Config, error) {
	if _, err := config.LoadEnvFile(*f.EnvFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(*f.Config)
	if err != nil {
		return nil, err
	}
	f.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewLogger builds the application logger from the logging section
func NewLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(cfg.Logging)
}

// NewService wires the price provider, pipeline, simulator and backtest
// engine described by cfg. metrics may be nil.
func NewService(cfg *config.Config, metrics *monitoring.Metrics, log *logger.Logger) (*analysis.Service, error) {
	provider, err := data.NewProvider(cfg.ProviderOptions(log))
	if err != nil {
		return nil, err
	}

	generator, err := strategy.NewSignalGenerator(cfg.Thresholds())
	if err != nil {
		return nil, err
	}
	engine, err := backtest.NewEngine(cfg.BacktestEngineConfig(), log)
	if err != nil {
		return nil, err
	}

	return analysis.NewService(analysis.Dependencies{
		Provider: provider,
		Pipeline: pipeline.NewPipeline(
			pipeline.WithWarmup(cfg.Warmup()),
			pipeline.WithSignalGenerator(generator),
			pipeline.WithLogger(log),
		),
		Simulator:  montecarlo.NewSimulator(cfg.SimulatorConfig(), log),
		Backtester: engine,
		Metrics:    metrics,
		Logger:     log,
	}, cfg.Data.Period)
}

// Symbols returns the command-line symbols, or fallback when none were given
func Symbols(args, fallback []string) []string {
	var out []string
	for _, a := range args {
		out = append(out, SplitList(a)...)
	}
	if len(out) == 0 {
		out = append([]string(nil), fallback...)
	}
	for i := range out {
		out[i] = strings.ToUpper(strings.TrimSpace(out[i]))
	}
	return out
}

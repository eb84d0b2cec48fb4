// Package config loads the analysis engine settings from YAML, applies
// defaults and environment overrides, then validates the result.
package config

import (
	"time"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
)

// Config is the complete application configuration
type Config struct {
	Data       DataConfig       `yaml:"data"`
	Indicators IndicatorsConfig `yaml:"indicators"`
	Signal     SignalConfig     `yaml:"signal"`
	Simulation SimulationConfig `yaml:"simulation"`
	Backtest   BacktestConfig   `yaml:"backtest"`
	Report     ReportConfig     `yaml:"report"`
	Logging    logger.Config    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Watch      WatchConfig      `yaml:"watch"`
	Batch      BatchConfig      `yaml:"batch"`
}

// DataConfig selects the price provider
type DataConfig struct {
	Provider  string        `yaml:"provider" default:"yahoo" validate:"oneof=csv yahoo bybit"`
	Dir       string        `yaml:"dir" default:"data" validate:"required_if=Provider csv"`
	CSVFormat string        `yaml:"csv_format" default:"default" validate:"oneof=default yahoo"`
	Period    string        `yaml:"period" default:"1y" validate:"lookback"`
	Interval  string        `yaml:"interval" default:"1d"`
	Category  string        `yaml:"category" default:"spot" validate:"oneof=spot linear inverse"`
	Cache     bool          `yaml:"cache" default:"true"`
	Timeout   time.Duration `yaml:"timeout" default:"30s" validate:"gt=0"`
	Retry     RetryConfig   `yaml:"retry"`
	Guard     GuardConfig   `yaml:"guard"`
}

// GuardConfig throttles the remote providers. Zero disables a guard.
type GuardConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second" default:"2" validate:"gte=0"`
	Burst             int           `yaml:"burst" default:"5" validate:"gte=0"`
	FailureThreshold  uint32        `yaml:"failure_threshold" default:"5"`
	Cooldown          time.Duration `yaml:"cooldown" default:"1m" validate:"gte=0"`
}

// RetryConfig bounds the retries of the network providers
type RetryConfig struct {
	MaxRetries    int           `yaml:"max_retries" default:"3" validate:"min=0,max=10"`
	InitialDelay  time.Duration `yaml:"initial_delay" default:"500ms" validate:"gte=0"`
	MaxDelay      time.Duration `yaml:"max_delay" default:"10s" validate:"gtefield=InitialDelay"`
	BackoffFactor float64       `yaml:"backoff_factor" default:"2" validate:"gte=1"`
	Jitter        bool          `yaml:"jitter" default:"true"`
}

// IndicatorsConfig controls the indicator pipeline
type IndicatorsConfig struct {
	// partial emits values from the first row, strict waits for full windows
	Warmup string `yaml:"warmup" default:"partial" validate:"oneof=partial strict"`
}

// SignalConfig holds the RSI zones of the composite signal
type SignalConfig struct {
	RSIOversold   float64 `yaml:"rsi_oversold" default:"30" validate:"gt=0,lt=100"`
	RSIOverbought float64 `yaml:"rsi_overbought" default:"70" validate:"gtfield=RSIOversold,lt=100"`
}

// SimulationConfig holds the Monte Carlo parameters
type SimulationConfig struct {
	Paths       int     `yaml:"paths" default:"1000" validate:"min=1,max=1000000"`
	HorizonDays int     `yaml:"horizon_days" default:"252" validate:"min=1,max=10000"`
	Seed        *uint64 `yaml:"seed"`
	Workers     int     `yaml:"workers" validate:"min=0"`
}

// BacktestConfig holds the backtest capital and benchmark rate
type BacktestConfig struct {
	InitialCapital float64 `yaml:"initial_capital" default:"100000" validate:"gt=0"`
	RiskFreeRate   float64 `yaml:"risk_free_rate" default:"0.02" validate:"gte=-1,lte=1"`
}

// ReportConfig selects the report outputs
type ReportConfig struct {
	OutputDir string   `yaml:"output_dir" default:"results"`
	Formats   []string `yaml:"formats" default:"[\"console\"]" validate:"dive,oneof=console json excel csv"`
}

// MetricsConfig configures the Prometheus endpoint served in watch mode
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Listen  string `yaml:"listen" default:":9090" validate:"required_if=Enabled true"`
	// MaxAge is how old the last successful analysis may be before /health degrades
	MaxAge time.Duration `yaml:"max_age" default:"48h" validate:"gt=0"`
}

// WatchConfig configures scheduled re-analysis of a watchlist
type WatchConfig struct {
	// six-field cron spec with seconds; default is 18:00 on weekdays
	Schedule   string       `yaml:"schedule" default:"0 0 18 * * 1-5" validate:"cron"`
	Symbols    []string     `yaml:"symbols" validate:"dive,required"`
	JournalDir string       `yaml:"journal_dir" default:"logs"`
	RunOnStart bool         `yaml:"run_on_start" default:"true"`
	Alerts     AlertsConfig `yaml:"alerts"`
}

// AlertsConfig enables Telegram messages when a watched signal flips or an
// analysis starts failing
type AlertsConfig struct {
	Enabled        bool   `yaml:"enabled"`
	TelegramToken  string `yaml:"telegram_token" validate:"required_if=Enabled true"`
	TelegramChatID string `yaml:"telegram_chat_id" validate:"required_if=Enabled true"`
}

// BatchConfig sizes the batch worker pool
type BatchConfig struct {
	Workers int `yaml:"workers" default:"4" validate:"min=0,max=64"`
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	apperrors "github.com/Adarshh9/FinSaathi-Datathon/internal/errors"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/data"
)

// DefaultConfigDir is searched for bare config names such as "watch"
const DefaultConfigDir = "configs"

// EnvPrefix prefixes every environment override
const EnvPrefix = "FINSAATHI_"

// cronParser accepts the six-field (with seconds) specs the scheduler uses
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("lookback", func(fl validator.FieldLevel) bool {
		_, err := data.ParseLookbackPeriod(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("cron", func(fl validator.FieldLevel) bool {
		_, err := cronParser.Parse(fl.Field().String())
		return err == nil
	})
	return v
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		// default tags are static; failing here is a programming error
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return cfg
}

// Load builds the configuration from defaults, the YAML file at path (if
// any) and FINSAATHI_* environment variables, in that order, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		resolved := ResolvePath(path)
		raw, err := os.ReadFile(resolved)
		if err != nil {
			return nil, apperrors.WrapError(err, apperrors.ErrorCategoryConfiguration, "config", "read").
				WithContext("path", resolved)
		}
		if err := decode(raw, cfg); err != nil {
			return nil, apperrors.WrapError(err, apperrors.ErrorCategoryConfiguration, "config", "parse").
				WithContext("path", resolved)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolvePath maps a bare name like "watch" to configs/watch.yaml; paths
// with a directory component are used as given.
func ResolvePath(path string) string {
	if !strings.ContainsAny(path, "/\\") {
		path = filepath.Join(DefaultConfigDir, path)
	}
	if filepath.Ext(path) == "" {
		path += ".yaml"
	}
	return path
}

func decode(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks every section's constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return apperrors.NewConfigurationError("config", "validate", strings.Join(msgs, "; "))
		}
		return apperrors.WrapError(err, apperrors.ErrorCategoryConfiguration, "config", "validate")
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "lookback":
		return fmt.Sprintf("%s: invalid lookback period %q", field, fe.Value())
	case "cron":
		return fmt.Sprintf("%s: invalid cron spec %q", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "required", "required_if":
		return fmt.Sprintf("%s: is required", field)
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s: failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Sprintf("%s: failed %s (got %v)", field, fe.Tag(), fe.Value())
	}
}

// ApplyEnv overrides configuration values from FINSAATHI_* variables
func ApplyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			*dst = splitList(v)
		}
	}

	str("PROVIDER", &cfg.Data.Provider)
	str("DATA_DIR", &cfg.Data.Dir)
	str("PERIOD", &cfg.Data.Period)
	str("INTERVAL", &cfg.Data.Interval)
	str("WARMUP", &cfg.Indicators.Warmup)
	str("OUTPUT_DIR", &cfg.Report.OutputDir)
	list("FORMATS", &cfg.Report.Formats)
	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)
	str("METRICS_ADDR", &cfg.Metrics.Listen)
	str("WATCH_SCHEDULE", &cfg.Watch.Schedule)
	list("WATCHLIST", &cfg.Watch.Symbols)
	str("TELEGRAM_TOKEN", &cfg.Watch.Alerts.TelegramToken)
	str("TELEGRAM_CHAT_ID", &cfg.Watch.Alerts.TelegramChatID)

	if v := os.Getenv(EnvPrefix + "SIM_PATHS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("SIM_PATHS", v, err)
		}
		cfg.Simulation.Paths = n
	}
	if v := os.Getenv(EnvPrefix + "SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return envError("SEED", v, err)
		}
		cfg.Simulation.Seed = &seed
	}
	if v := os.Getenv(EnvPrefix + "INITIAL_CAPITAL"); v != "" {
		capital, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError("INITIAL_CAPITAL", v, err)
		}
		cfg.Backtest.InitialCapital = capital
	}
	if v := os.Getenv(EnvPrefix + "BATCH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("BATCH_WORKERS", v, err)
		}
		cfg.Batch.Workers = n
	}
	return nil
}

func envError(key, value string, err error) error {
	return apperrors.WrapError(err, apperrors.ErrorCategoryConfiguration, "config", "env").
		WithContext("variable", EnvPrefix+key).
		WithContext("value", value)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

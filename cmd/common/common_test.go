package common

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/config"
)

func parse(t *testing.T, args ...string) (*flag.FlagSet, *CommonFlags) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := RegisterCommonFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs, f
}

func TestCommonFlags_Apply(t *testing.T) {
	_, f := parse(t,
		"-provider", "CSV",
		"-data-root", "/tmp/prices",
		"-period", "6mo",
		"-formats", "json, excel",
		"-output", "out",
		"-verbose")

	cfg := config.Default()
	f.Apply(cfg)

	assert.Equal(t, "csv", cfg.Data.Provider)
	assert.Equal(t, "/tmp/prices", cfg.Data.Dir)
	assert.Equal(t, "6mo", cfg.Data.Period)
	assert.Equal(t, []string{"json", "excel"}, cfg.Report.Formats)
	assert.Equal(t, "out", cfg.Report.OutputDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestCommonFlags_ApplyUnsetKeepsConfig(t *testing.T) {
	_, f := parse(t)
	cfg := config.Default()
	want := *config.Default()

	f.Apply(cfg)
	assert.Equal(t, want, *cfg)
}

func TestLoadConfig_RejectsInvalidFlag(t *testing.T) {
	_, f := parse(t, "-env", "does-not-exist.env", "-period", "fortnight")
	_, err := LoadConfig(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookback")
}

func TestLoadConfig_Defaults(t *testing.T) {
	_, f := parse(t, "-env", "does-not-exist.env", "-provider", "csv", "-data-root", t.TempDir())
	cfg, err := LoadConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Data.Provider)

	svc, err := NewService(cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg.Data.Period, svc.Period())
}

func TestSymbols(t *testing.T) {
	fallback := []string{"aapl"}
	assert.Equal(t, []string{"MSFT", "TSLA", "SPY"}, Symbols([]string{"msft,tsla", " spy "}, fallback))
	assert.Equal(t, []string{"AAPL"}, Symbols(nil, fallback))
	assert.Equal(t, []string{"aapl"}, fallback)
	assert.Empty(t, Symbols(nil, nil))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a,,b , "))
	assert.Nil(t, SplitList(""))
}

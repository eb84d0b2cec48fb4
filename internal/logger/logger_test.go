package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := New(Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)
	l.Info("hello", String("symbol", "AAPL"))
	l.Debug("filtered out")
	require.NoError(t, l.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"symbol":"AAPL"`)
	assert.NotContains(t, string(raw), "filtered out")
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel).With(Component("pipeline"))

	l.Warn("computed",
		Int("rows", 3),
		Float("score", 1.5),
		Bool("strict", true),
		Duration("took", 2*time.Millisecond),
		Strings("cols", []string{"RSI", "ADX"}),
		Err(errors.New("boom")),
	)

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "warn", event["level"])
	assert.Equal(t, "pipeline", event["component"])
	assert.Equal(t, 3.0, event["rows"])
	assert.Equal(t, 1.5, event["score"])
	assert.Equal(t, true, event["strict"])
	assert.Equal(t, "RSI, ADX", event["cols"])
	assert.Equal(t, "boom", event["error"])
	assert.Contains(t, event, "took")
}

func TestNop(t *testing.T) {
	l := Nop()
	assert.NotPanics(t, func() {
		l.Error("ignored", Err(errors.New("x")))
		l.With(String("k", "v")).Info("ignored")
	})
	assert.NoError(t, l.Close())
}

func TestJournal(t *testing.T) {
	dir := t.TempDir()

	j, err := NewJournal(dir, "MSFT")
	require.NoError(t, err)

	j.Info("fetched %d bars", 250)
	j.LogAnalysis(AnalysisEntry{Price: 410.5, Signal: 1, RSI: 55, VaR95: -0.12, ExpectedReturn: 0.08, TotalReturn: 0.2, SharpeRatio: 0.4})
	j.LogError("fetch", errors.New("timeout"))
	require.NoError(t, j.Close())
	require.NoError(t, j.Close())

	raw, err := os.ReadFile(j.GetLogPath())
	require.NoError(t, err)
	text := string(raw)

	assert.Contains(t, text, "Symbol: MSFT")
	assert.Contains(t, text, "[INFO] fetched 250 bars")
	assert.Contains(t, text, "signal=BUY")
	assert.Contains(t, text, "var95=-12.00%")
	assert.Contains(t, text, "[ERROR] fetch: timeout")
	assert.Contains(t, text, "WATCH SESSION ENDED")
}

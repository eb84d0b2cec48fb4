package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Journal is a human-readable, per-symbol log of analysis runs, one file per day
type Journal struct {
	symbol  string
	logFile *os.File
	logger  *log.Logger
	mu      sync.Mutex
	logDir  string
	opened  time.Time
}

// JournalLevel represents different types of journal entries
type JournalLevel string

const (
	JournalInfo     JournalLevel = "INFO"
	JournalWarning  JournalLevel = "WARN"
	JournalError    JournalLevel = "ERROR"
	JournalAnalysis JournalLevel = "ANALYSIS"
)

// AnalysisEntry is the summary line recorded for each completed analysis
type AnalysisEntry struct {
	Price          float64
	Signal         int
	RSI            float64
	VaR95          float64
	ExpectedReturn float64
	TotalReturn    float64
	SharpeRatio    float64
}

// NewJournal opens (or appends to) today's journal for symbol inside logDir
func NewJournal(logDir, symbol string) (*Journal, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	now := time.Now()
	j := &Journal{
		symbol: symbol,
		logDir: logDir,
		opened: now,
	}

	file, err := os.OpenFile(j.GetLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	j.logFile = file
	j.logger = log.New(file, "", 0)

	j.writeSessionHeader()
	return j, nil
}

func (j *Journal) writeSessionHeader() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.logger.Printf(`
================================================================================
WATCH SESSION STARTED
================================================================================
Symbol: %s
Started: %s
================================================================================
`, j.symbol, j.opened.Format("2006-01-02 15:04:05"))
}

// Log writes a formatted entry with the specified level
func (j *Journal) Log(level JournalLevel, format string, args ...interface{}) {
	j.mu.Lock()
	defer j.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	j.logger.Printf("[%s] [%s] %s", timestamp, level, fmt.Sprintf(format, args...))
}

// Info logs an info message
func (j *Journal) Info(format string, args ...interface{}) {
	j.Log(JournalInfo, format, args...)
}

// Warning logs a warning message
func (j *Journal) Warning(format string, args ...interface{}) {
	j.Log(JournalWarning, format, args...)
}

// LogError logs error with context
func (j *Journal) LogError(context string, err error) {
	j.Log(JournalError, "%s: %v", context, err)
}

// LogAnalysis records the headline numbers of one analysis run
func (j *Journal) LogAnalysis(e AnalysisEntry) {
	j.Log(JournalAnalysis,
		"price=%.2f signal=%s rsi=%.2f var95=%.2f%% expected=%.2f%% backtest=%.2f%% sharpe=%.3f",
		e.Price, signalLabel(e.Signal), e.RSI, e.VaR95*100, e.ExpectedReturn*100, e.TotalReturn*100, e.SharpeRatio)
}

// Close writes the session footer and closes the file
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.logFile == nil {
		return nil
	}
	j.logger.Printf(`
================================================================================
WATCH SESSION ENDED %s
================================================================================
`, time.Now().Format("2006-01-02 15:04:05"))

	err := j.logFile.Close()
	j.logFile = nil
	return err
}

// GetLogPath returns the journal file path
func (j *Journal) GetLogPath() string {
	filename := fmt.Sprintf("%s_%s.log", j.symbol, j.opened.Format("2006-01-02"))
	return filepath.Join(j.logDir, filename)
}

func signalLabel(signal int) string {
	switch {
	case signal > 0:
		return "BUY"
	case signal < 0:
		return "SELL"
	default:
		return "HOLD"
	}
}

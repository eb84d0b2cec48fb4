package notifications

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/analysis"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/strategy"
)

type symbolState struct {
	signal  int
	failing bool
}

// SignalAlerter turns watchlist results into alerts. It notifies when a
// symbol's composite signal changes and when a symbol starts or stops
// failing. The first result seen for a symbol only records its state.
type SignalAlerter struct {
	notifier Notifier
	log      *logger.Logger
	mu       sync.Mutex
	state    map[string]symbolState
}

// NewSignalAlerter creates an alerter sending through notifier
func NewSignalAlerter(notifier Notifier, log *logger.Logger) *SignalAlerter {
	if log == nil {
		log = logger.Nop()
	}
	return &SignalAlerter{
		notifier: notifier,
		log:      log.With(logger.Component("alerts")),
		state:    make(map[string]symbolState),
	}
}

// Observe records one result and sends at most one alert for it
func (a *SignalAlerter) Observe(ctx context.Context, res analysis.BatchResult) {
	level, message, send := a.transition(res)
	if !send {
		return
	}
	if err := a.notifier.SendAlert(ctx, level, message); err != nil {
		a.log.Warn("alert not delivered", logger.String("symbol", res.Symbol), logger.Err(err))
	}
}

func (a *SignalAlerter) transition(res analysis.BatchResult) (Level, string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prev, seen := a.state[res.Symbol]
	if res.Err != nil || res.Report == nil {
		a.state[res.Symbol] = symbolState{signal: prev.signal, failing: true}
		if prev.failing {
			return "", "", false
		}
		return LevelError, fmt.Sprintf("Analysis of *%s* failed: %v", res.Symbol, res.Err), true
	}

	snap := res.Report.Snapshot
	a.state[res.Symbol] = symbolState{signal: snap.Signal}
	switch {
	case !seen:
		return "", "", false
	case prev.failing && prev.signal == snap.Signal:
		return LevelSuccess, fmt.Sprintf("Analysis of *%s* recovered", res.Symbol), true
	case prev.signal == snap.Signal:
		return "", "", false
	}

	level := LevelInfo
	if snap.Signal < 0 {
		level = LevelWarning
	}
	return level, SignalChangeMessage(res.Report, prev.signal), true
}

// SignalChangeMessage describes a signal flip for a report
func SignalChangeMessage(r *analysis.Report, previous int) string {
	snap := r.Snapshot
	msg := fmt.Sprintf("*%s* signal changed: %s → %s\nPrice: %s\nRSI: %s",
		r.Symbol,
		strategy.ActionOf(previous).String(),
		strategy.ActionOf(snap.Signal).String(),
		num(snap.Price), num(snap.RSI))
	if r.Simulation != nil {
		msg += fmt.Sprintf("\nVaR 95%%: %s%%", num(r.Simulation.Risk.VaR95*100))
	}
	return msg
}

func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

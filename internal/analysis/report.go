package analysis

import (
	"time"

	"github.com/google/uuid"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/backtest"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/montecarlo"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/table"
)

// Report bundles everything produced for one symbol. All parts are
// snapshots: nothing in a report changes after Analyze returns it.
type Report struct {
	ID          uuid.UUID     `json:"id"`
	Symbol      string        `json:"symbol"`
	Period      string        `json:"period"`
	Provider    string        `json:"provider"`
	GeneratedAt time.Time     `json:"generated_at"`
	Duration    time.Duration `json:"duration"`

	FirstSession time.Time `json:"first_session"`
	LastSession  time.Time `json:"last_session"`

	Snapshot   Snapshot                     `json:"snapshot"`
	Table      *table.Table                 `json:"-"`
	Simulation *montecarlo.Result           `json:"simulation,omitempty"`
	Backtest   *backtest.PerformanceMetrics `json:"backtest,omitempty"`

	// BacktestTable is the indicator table extended with the backtest columns
	BacktestTable *table.Table `json:"-"`

	Narrative  string   `json:"narrative,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`

	// Warnings lists optional stages that failed without failing the report
	Warnings []string `json:"warnings,omitempty"`
}

// Sessions returns the number of rows in the indicator table
func (r *Report) Sessions() int {
	if r.Table == nil {
		return 0
	}
	return r.Table.Len()
}

// HasSimulation reports whether the Monte Carlo stage produced a result
func (r *Report) HasSimulation() bool {
	return r.Simulation != nil
}

package strategy

import (
	"github.com/Adarshh9/FinSaathi-Datathon/internal/table"
)

// Generator turns an indicator table into a per-step directional signal
type Generator interface {
	// Generate returns one signal per table row, each in {-1, 0, 1}
	Generate(t *table.Table) ([]int, error)

	// GetName returns the name of the generator
	GetName() string
}

// Action represents the direction of a signal
type Action int

const (
	ActionSell Action = -1
	ActionHold Action = 0
	ActionBuy  Action = 1
)

// ActionOf converts a raw signal value into an Action
func ActionOf(signal int) Action {
	switch {
	case signal > 0:
		return ActionBuy
	case signal < 0:
		return ActionSell
	default:
		return ActionHold
	}
}

func (a Action) String() string {
	switch a {
	case ActionHold:
		return "HOLD"
	case ActionBuy:
		return "BUY"
	case ActionSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

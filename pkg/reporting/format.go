package reporting

import (
	"fmt"
	"math"
)

func isMissing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

func fmtNum(v float64) string {
	if isMissing(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func fmtMoney(v float64) string {
	if isMissing(v) {
		return "n/a"
	}
	return fmt.Sprintf("$%.2f", v)
}

// fmtPct prints a fraction as a percentage
func fmtPct(v float64) string {
	if isMissing(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

func lastOf(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}

func signalLabel(signal int) string {
	switch {
	case signal > 0:
		return "🟢 BUY"
	case signal < 0:
		return "🔴 SELL"
	default:
		return "⚪ HOLD"
	}
}

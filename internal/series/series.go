// Package series holds the position-indexed column primitives the indicators are
// built from: rolling windows, exponential smoothing, missing-value fills and
// descriptive statistics. Missing values are represented as NaN. Every function
// allocates its output and never modifies its input.
package series

import (
	"math"
	"sort"
)

// Missing returns the sentinel used for an undefined value
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v is undefined
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Full returns a column of n copies of v
func Full(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Clone copies a column
func Clone(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	return out
}

// SafeDiv returns num/den, or a missing value when den is zero or either operand is missing
func SafeDiv(num, den float64) float64 {
	if den == 0 || IsMissing(num) || IsMissing(den) {
		return Missing()
	}
	return num / den
}

// Diff returns values[i] - values[i-1]; the first element is missing
func Diff(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i == 0 {
			out[i] = Missing()
			continue
		}
		out[i] = values[i] - values[i-1]
	}
	return out
}

// PctChange returns values[i]/values[i-1] - 1; the first element is missing,
// as is any step whose previous value is zero
func PctChange(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i == 0 {
			out[i] = Missing()
			continue
		}
		out[i] = SafeDiv(values[i], values[i-1]) - 1
	}
	return out
}

// Shift moves values forward by one step; the first element is missing
func Shift(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i == 0 {
			out[i] = Missing()
			continue
		}
		out[i] = values[i-1]
	}
	return out
}

// CumSum is the running sum, with missing values contributing nothing
func CumSum(values []float64) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		if !IsMissing(v) {
			sum += v
		}
		out[i] = sum
	}
	return out
}

// CumProd is the running product, with missing values contributing nothing
func CumProd(values []float64) []float64 {
	out := make([]float64, len(values))
	prod := 1.0
	for i, v := range values {
		if !IsMissing(v) {
			prod *= v
		}
		out[i] = prod
	}
	return out
}

// Mean is the arithmetic mean of the non-missing values
func Mean(values []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return Missing()
	}
	return sum / float64(n)
}

// StdDev is the standard deviation of the non-missing values with the given
// delta degrees of freedom (1 = sample, 0 = population). It is missing when
// fewer than ddof+1 values are available.
func StdDev(values []float64, ddof int) float64 {
	mean := Mean(values)
	if IsMissing(mean) {
		return Missing()
	}
	sumSq, n := 0.0, 0
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		d := v - mean
		sumSq += d * d
		n++
	}
	if n-ddof <= 0 {
		return Missing()
	}
	return math.Sqrt(sumSq / float64(n-ddof))
}

// Max returns the largest non-missing value
func Max(values []float64) float64 {
	best := Missing()
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		if IsMissing(best) || v > best {
			best = v
		}
	}
	return best
}

// Min returns the smallest non-missing value
func Min(values []float64) float64 {
	best := Missing()
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		if IsMissing(best) || v < best {
			best = v
		}
	}
	return best
}

// Percentile returns the q-th percentile (0-100) of values using linear
// interpolation between the two nearest ranks
func Percentile(values []float64, q float64) float64 {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !IsMissing(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return Missing()
	}
	sort.Float64s(sorted)
	return PercentileSorted(sorted, q)
}

// PercentileSorted is Percentile for an already ascending, NaN-free slice
func PercentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return Missing()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

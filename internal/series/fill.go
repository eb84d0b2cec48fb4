package series

// FillForward replaces each missing value with the last observed one.
// Leading missing values stay missing.
func FillForward(values []float64) []float64 {
	out := Clone(values)
	last := Missing()
	for i, v := range out {
		if IsMissing(v) {
			out[i] = last
			continue
		}
		last = v
	}
	return out
}

// FillBackward replaces each missing value with the next observed one.
// Trailing missing values stay missing.
func FillBackward(values []float64) []float64 {
	out := Clone(values)
	next := Missing()
	for i := len(out) - 1; i >= 0; i-- {
		if IsMissing(out[i]) {
			out[i] = next
			continue
		}
		next = out[i]
	}
	return out
}

// FillValue replaces every missing value with v
func FillValue(values []float64, v float64) []float64 {
	out := Clone(values)
	for i, x := range out {
		if IsMissing(x) {
			out[i] = v
		}
	}
	return out
}

// FillAll applies forward fill, then backward fill, then zero fill, so the
// result contains no missing values
func FillAll(values []float64) []float64 {
	return FillValue(FillBackward(FillForward(values)), 0)
}

// CountMissing returns how many values are undefined
func CountMissing(values []float64) int {
	n := 0
	for _, v := range values {
		if IsMissing(v) {
			n++
		}
	}
	return n
}

package series

// Rolling windows look back over the last `window` positions and aggregate
// the non-missing values found there. A window emits a value as soon as it
// holds at least minPeriods observations; minPeriods = 1 lets the window use
// however many points are available during warm-up.

func clampMinPeriods(window, minPeriods int) int {
	if minPeriods < 1 {
		return 1
	}
	if minPeriods > window {
		return window
	}
	return minPeriods
}

func rolling(values []float64, window, minPeriods int, agg func([]float64) float64) []float64 {
	out := make([]float64, len(values))
	if window < 1 {
		for i := range out {
			out[i] = Missing()
		}
		return out
	}
	minPeriods = clampMinPeriods(window, minPeriods)
	buf := make([]float64, 0, window)
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		buf = buf[:0]
		for _, v := range values[start : i+1] {
			if !IsMissing(v) {
				buf = append(buf, v)
			}
		}
		if len(buf) < minPeriods {
			out[i] = Missing()
			continue
		}
		out[i] = agg(buf)
	}
	return out
}

// RollingMean is the moving average over window positions
func RollingMean(values []float64, window, minPeriods int) []float64 {
	return rolling(values, window, minPeriods, Mean)
}

// RollingMax is the moving maximum over window positions
func RollingMax(values []float64, window, minPeriods int) []float64 {
	return rolling(values, window, minPeriods, Max)
}

// RollingMin is the moving minimum over window positions
func RollingMin(values []float64, window, minPeriods int) []float64 {
	return rolling(values, window, minPeriods, Min)
}

// RollingStd is the moving standard deviation with ddof degrees of freedom.
// A window with too few observations for ddof stays missing.
func RollingStd(values []float64, window, minPeriods, ddof int) []float64 {
	return rolling(values, window, minPeriods, func(buf []float64) float64 {
		return StdDev(buf, ddof)
	})
}

// SpanAlpha converts an EMA span to its smoothing factor
func SpanAlpha(span int) float64 {
	return 2.0 / float64(span+1)
}

// EWM is the recursive exponentially weighted mean
//
//	y[0] = x[0]
//	y[t] = (1-alpha)*y[t-1] + alpha*x[t]
//
// Leading missing values are skipped. A missing value after the first
// observation carries the previous mean forward and decays its weight, so the
// next observation is blended as ((1-alpha)^(k+1)*y + alpha*x) / ((1-alpha)^(k+1) + alpha)
// after a gap of k steps. Output is missing until minPeriods observations were seen.
func EWM(values []float64, alpha float64, minPeriods int) []float64 {
	out := make([]float64, len(values))
	if minPeriods < 1 {
		minPeriods = 1
	}
	started := false
	weighted := 0.0
	oldWeight := 1.0
	nobs := 0
	for i, x := range values {
		switch {
		case !started && IsMissing(x):
		case !started:
			started = true
			weighted = x
			oldWeight = 1.0
			nobs = 1
		case IsMissing(x):
			oldWeight *= 1 - alpha
		default:
			nobs++
			oldWeight *= 1 - alpha
			weighted = (oldWeight*weighted + alpha*x) / (oldWeight + alpha)
			oldWeight = 1.0
		}
		if !started || nobs < minPeriods {
			out[i] = Missing()
			continue
		}
		out[i] = weighted
	}
	return out
}

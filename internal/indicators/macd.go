package indicators

// MACD is the Moving Average Convergence Divergence: the fast EMA minus the
// slow EMA, a signal EMA of that line, and their difference
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
	warmup       Warmup
}

// NewMACD creates a new MACD instance with specified fast, slow, and signal periods
func NewMACD(fast, slow, signal int, warmup Warmup) *MACD {
	return &MACD{
		fastPeriod:   fast,
		slowPeriod:   slow,
		signalPeriod: signal,
		warmup:       warmup,
	}
}

// Calculate computes the MACD line, signal line, and histogram for every position.
// The signal EMA starts at the first defined MACD value.
func (m *MACD) Calculate(closes []float64) (macdLine, signalLine, histogram []float64) {
	fast := NewEMA(m.fastPeriod, m.warmup).Calculate(closes)
	slow := NewEMA(m.slowPeriod, m.warmup).Calculate(closes)

	macdLine = make([]float64, len(closes))
	for i := range closes {
		macdLine[i] = fast[i] - slow[i]
	}

	signalLine = NewEMA(m.signalPeriod, m.warmup).Calculate(macdLine)

	histogram = make([]float64, len(closes))
	for i := range closes {
		histogram[i] = macdLine[i] - signalLine[i]
	}
	return macdLine, signalLine, histogram
}

// Compute implements Indicator
func (m *MACD) Compute(in Input) (map[string][]float64, error) {
	line, signal, hist := m.Calculate(in.Close)
	return map[string][]float64{
		ColMACD:       line,
		ColMACDSignal: signal,
		ColMACDHist:   hist,
	}, nil
}

// ShouldBuy reports whether the MACD line is above its signal line
func (m *MACD) ShouldBuy(macdLine, signalLine float64) bool {
	return macdLine > signalLine
}

// ShouldSell reports whether the MACD line is below its signal line
func (m *MACD) ShouldSell(macdLine, signalLine float64) bool {
	return macdLine < signalLine
}

// GetName returns the indicator name
func (m *MACD) GetName() string {
	return "MACD"
}

// Columns returns the produced column keys
func (m *MACD) Columns() []string {
	return []string{ColMACD, ColMACDSignal, ColMACDHist}
}

// GetRequiredPeriods returns the periods needed for a fully warmed signal line
func (m *MACD) GetRequiredPeriods() int {
	return m.slowPeriod + m.signalPeriod - 1
}

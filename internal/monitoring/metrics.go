package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "finsaathi"

// Analysis outcomes recorded by RecordAnalysis
const (
	StatusSuccess = "success"
	StatusNoData  = "no_data"
	StatusError   = "error"
)

// Metrics holds the analysis collectors on a dedicated registry
type Metrics struct {
	registry *prometheus.Registry

	analysesTotal   *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	simulationPaths prometheus.Counter
	latestSignal    *prometheus.GaugeVec
	latestPrice     *prometheus.GaugeVec
	valueAtRisk     *prometheus.GaugeVec
	totalReturn     *prometheus.GaugeVec
	providerErrors  *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Total number of symbol analyses by outcome",
			},
			[]string{"symbol", "status"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analysis_stage_duration_seconds",
				Help:      "Duration of each analysis stage",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"stage"},
		),
		simulationPaths: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "simulation_paths_total",
				Help:      "Total number of Monte Carlo paths generated",
			},
		),
		latestSignal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "latest_signal",
				Help:      "Most recent composite signal (-1 sell, 0 hold, 1 buy)",
			},
			[]string{"symbol"},
		),
		latestPrice: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "latest_price",
				Help:      "Most recent close",
			},
			[]string{"symbol"},
		),
		valueAtRisk: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "value_at_risk",
				Help:      "Simulated terminal return value at risk",
			},
			[]string{"symbol", "confidence"},
		),
		totalReturn: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "backtest_total_return",
				Help:      "Total return of the signal strategy over the backtest window",
			},
			[]string{"symbol"},
		),
		providerErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_errors_total",
				Help:      "Total number of price provider failures",
			},
			[]string{"provider", "category"},
		),
	}

	m.registry.MustRegister(
		m.analysesTotal,
		m.stageDuration,
		m.simulationPaths,
		m.latestSignal,
		m.latestPrice,
		m.valueAtRisk,
		m.totalReturn,
		m.providerErrors,
	)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordAnalysis counts one finished analysis
func (m *Metrics) RecordAnalysis(symbol, status string) {
	m.analysesTotal.WithLabelValues(symbol, status).Inc()
}

// ObserveStage records how long a stage took
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// AddSimulationPaths counts generated Monte Carlo paths
func (m *Metrics) AddSimulationPaths(n int) {
	m.simulationPaths.Add(float64(n))
}

// UpdateSnapshot publishes the latest per-symbol values
func (m *Metrics) UpdateSnapshot(symbol string, price float64, signal int, var95, var99, totalReturn float64) {
	m.latestPrice.WithLabelValues(symbol).Set(price)
	m.latestSignal.WithLabelValues(symbol).Set(float64(signal))
	m.valueAtRisk.WithLabelValues(symbol, "95").Set(var95)
	m.valueAtRisk.WithLabelValues(symbol, "99").Set(var99)
	m.totalReturn.WithLabelValues(symbol).Set(totalReturn)
}

// RecordProviderError counts a failed fetch
func (m *Metrics) RecordProviderError(provider, category string) {
	m.providerErrors.WithLabelValues(provider, category).Inc()
}

package monitoring

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// HealthChecker tracks the outcome of the most recent analysis per symbol
type HealthChecker struct {
	mu        sync.RWMutex
	startTime time.Time
	maxAge    time.Duration
	lastRun   time.Time
	errors    map[string]string
	symbols   map[string]time.Time
}

// HealthStatus is the JSON body served by the health endpoint
type HealthStatus struct {
	Status    string               `json:"status"`
	Timestamp time.Time            `json:"timestamp"`
	LastRun   time.Time            `json:"last_run"`
	Uptime    string               `json:"uptime"`
	Symbols   map[string]time.Time `json:"symbols,omitempty"`
	Errors    []string             `json:"errors,omitempty"`
}

// NewHealthChecker reports degraded once no analysis has finished for maxAge
func NewHealthChecker(maxAge time.Duration) *HealthChecker {
	return &HealthChecker{
		startTime: time.Now(),
		maxAge:    maxAge,
		errors:    make(map[string]string),
		symbols:   make(map[string]time.Time),
	}
}

// RecordSuccess marks a symbol as freshly analyzed
func (h *HealthChecker) RecordSuccess(symbol string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	h.lastRun = now
	h.symbols[symbol] = now
	delete(h.errors, symbol)
}

// RecordFailure remembers the latest error for a symbol
func (h *HealthChecker) RecordFailure(symbol string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastRun = time.Now()
	h.errors[symbol] = err.Error()
}

// Status computes the current health
func (h *HealthChecker) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if h.lastRun.IsZero() || (h.maxAge > 0 && time.Since(h.lastRun) > h.maxAge) {
		status = "degraded"
	}

	var errs []string
	for symbol, msg := range h.errors {
		errs = append(errs, symbol+": "+msg)
	}
	sort.Strings(errs)
	if len(errs) > 0 {
		status = "unhealthy"
	}

	symbols := make(map[string]time.Time, len(h.symbols))
	for s, ts := range h.symbols {
		symbols[s] = ts
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		LastRun:   h.lastRun,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Symbols:   symbols,
		Errors:    errs,
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health := h.Status()

	w.Header().Set("Content-Type", "application/json")
	switch health.Status {
	case "degraded":
		w.WriteHeader(http.StatusServiceUnavailable)
	case "unhealthy":
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(health)
}

package handlers

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checks    map[string]Check
	startTime time.Time
	version   string
}

// NewHealthHandler creates a health handler. checks may be empty when the
// service runs on the in-memory ledger without Redis.
func NewHealthHandler(version string, checks map[string]Check) *HealthHandler {
	if checks == nil {
		checks = map[string]Check{}
	}
	return &HealthHandler{
		checks:    checks,
		startTime: time.Now(),
		version:   version,
	}
}

// CheckResult is the outcome of one dependency probe.
type CheckResult struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// HealthResponse is the readiness report.
type HealthResponse struct {
	Status        string                 `json:"status"`
	Version       string                 `json:"version,omitempty"`
	Uptime        string                 `json:"uptime"`
	Timestamp     string                 `json:"timestamp"`
	Goroutines    int                    `json:"goroutines"`
	MemoryAllocMB float64                `json:"memory_alloc_mb"`
	Checks        map[string]CheckResult `json:"checks,omitempty"`
}

// run probes every dependency in name order and reports whether all passed.
func (h *HealthHandler) run(ctx context.Context) (map[string]CheckResult, bool) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]CheckResult, len(names))
	healthy := true
	for _, name := range names {
		start := time.Now()
		err := h.checks[name](ctx)
		res := CheckResult{Status: "healthy", LatencyMS: time.Since(start).Milliseconds()}
		if err != nil {
			res.Status = "unhealthy"
			res.Error = err.Error()
			healthy = false
		}
		results[name] = res
	}
	return results, healthy
}

// Liveness only says the process is serving.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness reports every dependency along with basic runtime figures.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks, healthy := h.run(ctx)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	resp := HealthResponse{
		Status:        "healthy",
		Version:       h.version,
		Uptime:        time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Goroutines:    runtime.NumGoroutine(),
		MemoryAllocMB: float64(m.Alloc) / 1024 / 1024,
		Checks:        checks,
	}
	status := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

// Health is the short form of Readiness: it names the first failing
// dependency only.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks, healthy := h.run(ctx)
	if !healthy {
		for _, name := range sortedUnhealthy(checks) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  name + " unavailable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

func sortedUnhealthy(checks map[string]CheckResult) []string {
	var names []string
	for name, res := range checks {
		if res.Status != "healthy" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

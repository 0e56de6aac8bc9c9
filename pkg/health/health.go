// Package health serves liveness and readiness probes for a running
// simulation. Readiness aggregates named checks; a simulation that stopped
// with an error or stopped producing frames is reported as unhealthy.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/opd-ai/go-ballpit/pkg/engine"
)

// Probe paths served by Handler.
const (
	LivenessPath  = "/health"
	ReadinessPath = "/ready"
)

// Status values reported by the probes.
const (
	StatusAlive     = "alive"
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// readinessTimeout bounds one run of all checks.
const readinessTimeout = 5 * time.Second

// Check is one named readiness condition.
type Check interface {
	Name() string
	// Check returns nil when the component is ready.
	Check(ctx context.Context) error
}

// Report is the readiness probe body.
type Report struct {
	Status    string            `json:"status"`
	CheckedAt time.Time         `json:"checked_at"`
	Checks    map[string]Result `json:"checks"`
}

// Result is the outcome of one check.
type Result struct {
	Status   string  `json:"status"`
	Message  string  `json:"message,omitempty"`
	Duration float64 `json:"duration_ms"`
}

// Liveness is the liveness probe body.
type Liveness struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime_seconds"`
}

// Checker runs the registered checks and serves the probes.
type Checker struct {
	mu      sync.RWMutex
	checks  map[string]Check
	started time.Time
	now     func() time.Time
}

// NewChecker creates a checker without checks; it reports healthy until one
// is added.
func NewChecker() *Checker {
	return &Checker{
		checks:  make(map[string]Check),
		started: time.Now(),
		now:     time.Now,
	}
}

// AddCheck registers check, replacing any check with the same name.
func (c *Checker) AddCheck(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[check.Name()] = check
}

// RemoveCheck removes a check by name.
func (c *Checker) RemoveCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.checks, name)
}

// Run executes every check concurrently and waits for all of them. The
// report is healthy only if all of them pass.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	checks := make(map[string]Check, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	report := Report{
		Status:    StatusHealthy,
		CheckedAt: c.now(),
		Checks:    make(map[string]Result, len(checks)),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for name, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := runCheck(ctx, check)

			mu.Lock()
			defer mu.Unlock()
			report.Checks[name] = result
			if result.Status != StatusHealthy {
				report.Status = StatusUnhealthy
			}
		}()
	}
	wg.Wait()

	return report
}

func runCheck(ctx context.Context, check Check) Result {
	start := time.Now()
	err := check.Check(ctx)
	result := Result{
		Status:   StatusHealthy,
		Duration: float64(time.Since(start).Microseconds()) / 1000,
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = err.Error()
	}
	return result
}

// LivenessHandler answers 200 as long as the process can serve requests.
func (c *Checker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Liveness{
		Status: StatusAlive,
		Uptime: c.now().Sub(c.started).Seconds(),
	})
}

// ReadinessHandler runs all checks and answers 200 when they pass and 503
// otherwise, with the report as the body.
func (c *Checker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	report := c.Run(ctx)
	code := http.StatusOK
	if report.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, report)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// Handler returns a mux serving both probes.
func (c *Checker) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+LivenessPath, c.LivenessHandler)
	mux.HandleFunc("GET "+ReadinessPath, c.ReadinessHandler)
	return mux
}

// NewServer creates an HTTP server for the probes on addr.
func (c *Checker) NewServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           c.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// SimulationCheck reports on a runner through its snapshots.
type SimulationCheck struct {
	snapshot   func() engine.Snapshot
	staleAfter time.Duration
	now        func() time.Time
}

// NewSimulationCheck creates a check that fails when the simulation stopped
// with an error, is not running, or drew no frame for staleAfter. A zero
// staleAfter disables the staleness test.
func NewSimulationCheck(snapshot func() engine.Snapshot, staleAfter time.Duration) *SimulationCheck {
	return &SimulationCheck{
		snapshot:   snapshot,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

func (s *SimulationCheck) Name() string {
	return "simulation"
}

// Check verifies that the simulation is advancing.
func (s *SimulationCheck) Check(ctx context.Context) error {
	snap := s.snapshot()
	switch {
	case snap.Err != nil:
		return fmt.Errorf("simulation failed: %w", snap.Err)
	case !snap.Running:
		return fmt.Errorf("simulation is not running")
	case s.staleAfter <= 0 || snap.LastFrame.IsZero():
		return nil
	}

	if idle := s.now().Sub(snap.LastFrame); idle > s.staleAfter {
		return fmt.Errorf("no frame for %s after %d frames", idle.Round(time.Millisecond), snap.Frames)
	}
	return nil
}

// HeapCheck fails when the Go heap grows past a limit.
type HeapCheck struct {
	limitMB int64
	usage   func() int64
}

// NewHeapCheck creates a check failing above limitMB. A nil usage reads the
// Go heap.
func NewHeapCheck(limitMB int64, usage func() int64) *HeapCheck {
	if usage == nil {
		usage = HeapMB
	}
	return &HeapCheck{limitMB: limitMB, usage: usage}
}

func (h *HeapCheck) Name() string {
	return "memory"
}

func (h *HeapCheck) Check(ctx context.Context) error {
	if used := h.usage(); used > h.limitMB {
		return fmt.Errorf("heap %dMB exceeds limit %dMB", used, h.limitMB)
	}
	return nil
}

// HeapMB returns the allocated Go heap in megabytes.
func HeapMB() int64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return int64(stats.HeapAlloc >> 20)
}

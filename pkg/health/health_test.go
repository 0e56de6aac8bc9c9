package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/opd-ai/go-ballpit/pkg/engine"
)

// stubCheck returns a fixed result
type stubCheck struct {
	name string
	err  error
}

func (s *stubCheck) Name() string { return s.name }

func (s *stubCheck) Check(ctx context.Context) error { return s.err }

// blockingCheck waits for delay or the context, whichever comes first
type blockingCheck struct {
	name  string
	delay time.Duration
}

func (b *blockingCheck) Name() string { return b.name }

func (b *blockingCheck) Check(ctx context.Context) error {
	select {
	case <-time.After(b.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestChecker_AddAndRemoveCheck(t *testing.T) {
	c := NewChecker()

	first := &stubCheck{name: "simulation"}
	c.AddCheck(first)
	c.AddCheck(&stubCheck{name: "simulation", err: errors.New("replaced")})

	if len(c.checks) != 1 {
		t.Fatalf("Expected 1 check, got %d", len(c.checks))
	}
	if c.checks["simulation"] == first {
		t.Error("Expected a check with the same name to be replaced")
	}

	c.RemoveCheck("simulation")
	c.RemoveCheck("unknown")
	if len(c.checks) != 0 {
		t.Errorf("Expected 0 checks after removal, got %d", len(c.checks))
	}
}

func TestChecker_Run(t *testing.T) {
	failure := errors.New("check failed")

	tests := []struct {
		name   string
		checks []*stubCheck
		want   string
	}{
		{name: "no_checks", want: StatusHealthy},
		{name: "all_pass", checks: []*stubCheck{{name: "a"}, {name: "b"}}, want: StatusHealthy},
		{name: "one_fails", checks: []*stubCheck{{name: "a"}, {name: "b", err: failure}}, want: StatusUnhealthy},
		{name: "all_fail", checks: []*stubCheck{{name: "a", err: failure}, {name: "b", err: failure}}, want: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker()
			for _, check := range tt.checks {
				c.AddCheck(check)
			}

			report := c.Run(context.Background())

			if report.Status != tt.want {
				t.Errorf("Expected status %s, got %s", tt.want, report.Status)
			}
			if len(report.Checks) != len(tt.checks) {
				t.Fatalf("Expected %d results, got %d", len(tt.checks), len(report.Checks))
			}
			for _, check := range tt.checks {
				result := report.Checks[check.name]
				switch {
				case check.err != nil && (result.Status != StatusUnhealthy || result.Message != check.err.Error()):
					t.Errorf("check %s: got %+v", check.name, result)
				case check.err == nil && (result.Status != StatusHealthy || result.Message != ""):
					t.Errorf("check %s: got %+v", check.name, result)
				}
			}
		})
	}
}

func TestChecker_RunRecordsDuration(t *testing.T) {
	c := NewChecker()
	c.AddCheck(&blockingCheck{name: "slow", delay: 20 * time.Millisecond})

	result := c.Run(context.Background()).Checks["slow"]
	if result.Status != StatusHealthy {
		t.Fatalf("Expected the slow check to pass, got %+v", result)
	}
	if result.Duration < 20 {
		t.Errorf("Expected a duration of at least 20ms, got %vms", result.Duration)
	}
}

func TestChecker_RunHonoursContext(t *testing.T) {
	c := NewChecker()
	c.AddCheck(&blockingCheck{name: "slow", delay: time.Minute})
	c.AddCheck(&stubCheck{name: "fast"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	report := c.Run(ctx)
	if report.Status != StatusUnhealthy || report.Checks["slow"].Status != StatusUnhealthy {
		t.Errorf("Expected the timed out check to fail, got %+v", report)
	}
	if report.Checks["fast"].Status != StatusHealthy {
		t.Errorf("Expected the fast check to pass, got %+v", report.Checks["fast"])
	}
}

func TestChecker_Handler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		checks     []*stubCheck
		wantCode   int
		wantStatus string
	}{
		{name: "liveness", path: LivenessPath, wantCode: http.StatusOK, wantStatus: StatusAlive},
		{
			name:       "liveness_ignores_checks",
			path:       LivenessPath,
			checks:     []*stubCheck{{name: "simulation", err: errors.New("down")}},
			wantCode:   http.StatusOK,
			wantStatus: StatusAlive,
		},
		{name: "ready_without_checks", path: ReadinessPath, wantCode: http.StatusOK, wantStatus: StatusHealthy},
		{
			name:       "ready",
			path:       ReadinessPath,
			checks:     []*stubCheck{{name: "simulation"}},
			wantCode:   http.StatusOK,
			wantStatus: StatusHealthy,
		},
		{
			name:       "not_ready",
			path:       ReadinessPath,
			checks:     []*stubCheck{{name: "simulation", err: errors.New("down")}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: StatusUnhealthy,
		},
		{name: "post_rejected", method: http.MethodPost, path: ReadinessPath, wantCode: http.StatusMethodNotAllowed},
		{name: "unknown_path", path: "/metrics", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker()
			for _, check := range tt.checks {
				c.AddCheck(check)
			}
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}

			w := httptest.NewRecorder()
			c.Handler().ServeHTTP(w, httptest.NewRequest(method, tt.path, nil))

			if w.Code != tt.wantCode {
				t.Fatalf("Expected status code %d, got %d", tt.wantCode, w.Code)
			}
			if tt.wantStatus == "" {
				return
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type application/json, got %s", ct)
			}

			var body struct {
				Status string `json:"status"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("Expected status %q, got %q", tt.wantStatus, body.Status)
			}
		})
	}
}

func TestChecker_LivenessReportsUptime(t *testing.T) {
	c := NewChecker()
	c.now = func() time.Time { return c.started.Add(90 * time.Second) }

	w := httptest.NewRecorder()
	c.LivenessHandler(w, httptest.NewRequest(http.MethodGet, LivenessPath, nil))

	var body Liveness
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Uptime != 90 {
		t.Errorf("Expected uptime 90s, got %v", body.Uptime)
	}
}

func TestChecker_NewServer(t *testing.T) {
	srv := NewChecker().NewServer("127.0.0.1:0")
	if srv.Addr != "127.0.0.1:0" || srv.Handler == nil || srv.ReadHeaderTimeout == 0 {
		t.Errorf("unexpected server %+v", srv)
	}
}

func TestSimulationCheck(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name       string
		snapshot   engine.Snapshot
		staleAfter time.Duration
		wantErr    string
	}{
		{
			name:       "running",
			snapshot:   engine.Snapshot{Frames: 10, LastFrame: now.Add(-time.Second), Running: true},
			staleAfter: 2 * time.Second,
		},
		{
			name:       "not_started",
			snapshot:   engine.Snapshot{},
			staleAfter: 2 * time.Second,
			wantErr:    "not running",
		},
		{
			name:       "running_before_first_frame",
			snapshot:   engine.Snapshot{Running: true},
			staleAfter: 2 * time.Second,
		},
		{
			name:       "stale",
			snapshot:   engine.Snapshot{Frames: 10, LastFrame: now.Add(-3 * time.Second), Running: true},
			staleAfter: 2 * time.Second,
			wantErr:    "no frame for 3s after 10 frames",
		},
		{
			name:     "staleness_disabled",
			snapshot: engine.Snapshot{Frames: 10, LastFrame: now.Add(-time.Hour), Running: true},
		},
		{
			name:       "stepper_failed",
			snapshot:   engine.Snapshot{Frames: 3, Err: engine.ErrSubStepLimit},
			staleAfter: 2 * time.Second,
			wantErr:    "simulation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewSimulationCheck(func() engine.Snapshot { return tt.snapshot }, tt.staleAfter)
			check.now = func() time.Time { return now }

			if check.Name() != "simulation" {
				t.Errorf("Expected name 'simulation', got %s", check.Name())
			}

			err := check.Check(context.Background())
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSimulationCheck_WrapsStepperError(t *testing.T) {
	check := NewSimulationCheck(func() engine.Snapshot {
		return engine.Snapshot{Err: fmt.Errorf("frame 3: %w", engine.ErrSubStepLimit)}
	}, 0)

	if err := check.Check(context.Background()); !errors.Is(err, engine.ErrSubStepLimit) {
		t.Errorf("Expected ErrSubStepLimit, got %v", err)
	}
}

func TestHeapCheck(t *testing.T) {
	tests := []struct {
		name    string
		limitMB int64
		usedMB  int64
		wantErr bool
	}{
		{name: "within_limit", limitMB: 100, usedMB: 50},
		{name: "at_limit", limitMB: 100, usedMB: 100},
		{name: "exceeds_limit", limitMB: 100, usedMB: 150, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewHeapCheck(tt.limitMB, func() int64 { return tt.usedMB })

			if check.Name() != "memory" {
				t.Errorf("Expected name 'memory', got %s", check.Name())
			}
			if err := check.Check(context.Background()); tt.wantErr != (err != nil) {
				t.Errorf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHeapCheck_DefaultsToGoHeap(t *testing.T) {
	if err := NewHeapCheck(1<<20, nil).Check(context.Background()); err != nil {
		t.Errorf("Expected the test process to be within 1TB, got %v", err)
	}
	if HeapMB() < 0 {
		t.Error("HeapMB returned a negative value")
	}
}

func BenchmarkChecker_Run(b *testing.B) {
	c := NewChecker()
	for i := 0; i < 10; i++ {
		c.AddCheck(&stubCheck{name: fmt.Sprintf("check%d", i)})
	}

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Run(ctx)
	}
}

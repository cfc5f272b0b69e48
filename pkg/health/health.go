// Package health implements liveness and readiness probes backed by
// registered dependency checks.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status is the reported state of a check or the whole service.
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// CheckFunc probes a single dependency.
type CheckFunc func(ctx context.Context) error

type check struct {
	name     string
	fn       CheckFunc
	critical bool
}

// Checker aggregates dependency checks. Critical check failures make the
// service unready; non-critical failures only degrade it.
type Checker struct {
	mu      sync.RWMutex
	checks  []check
	timeout time.Duration
}

// NewChecker creates a Checker with a per-check timeout.
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{timeout: timeout}
}

// Register adds a critical check. A failure makes readiness fail.
func (c *Checker) Register(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, check{name: name, fn: fn, critical: true})
}

// RegisterNonCritical adds a check whose failure degrades but does not
// unready the service.
func (c *Checker) RegisterNonCritical(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, check{name: name, fn: fn, critical: false})
}

// Report is the JSON body returned by the readiness endpoint.
type Report struct {
	Status Status            `json:"status"`
	Checks map[string]Status `json:"checks,omitempty"`
}

// Check runs every registered check and aggregates the result.
func (c *Checker) Check(ctx context.Context) Report {
	c.mu.RLock()
	checks := make([]check, len(c.checks))
	copy(checks, c.checks)
	c.mu.RUnlock()

	report := Report{Status: StatusUp, Checks: make(map[string]Status, len(checks))}

	for _, chk := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := chk.fn(checkCtx)
		cancel()

		if err != nil {
			report.Checks[chk.name] = StatusDown
			if chk.critical {
				report.Status = StatusDown
			} else if report.Status == StatusUp {
				report.Status = StatusDegraded
			}
			continue
		}
		report.Checks[chk.name] = StatusUp
	}

	return report
}

// LiveHandler always reports up; it only proves the process is serving.
func (c *Checker) LiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(Report{Status: StatusUp})
	}
}

// ReadyHandler runs all checks; 503 when any critical dependency is down.
func (c *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := c.Check(r.Context())

		status := http.StatusOK
		if report.Status == StatusDown {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(report)
	}
}

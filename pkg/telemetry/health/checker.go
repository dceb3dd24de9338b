package health

import (
	"context"
	"sync"
	"time"
)

// CheckFunc probes one component. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

// CheckResult is the outcome of a single component check.
type CheckResult struct {
	// Status is "ok" or "unhealthy".
	Status string `json:"status"`

	// Message carries the failure detail for unhealthy components.
	Message string `json:"message,omitempty"`
}

// Status is the aggregated health of the process.
type Status struct {
	// Status is "ok", "ready" or "unhealthy".
	Status string `json:"status"`

	// Checks holds per-component results (readiness only).
	Checks map[string]CheckResult `json:"checks,omitempty"`

	// Timestamp is when the check ran.
	Timestamp time.Time `json:"timestamp"`
}

// Checker runs registered component checks with a per-check timeout.
type Checker struct {
	mu      sync.RWMutex
	checks  map[string]CheckFunc
	timeout time.Duration
}

// New creates a checker. A zero timeout defaults to 5 seconds per check.
func New(timeout time.Duration) *Checker {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Checker{
		checks:  make(map[string]CheckFunc),
		timeout: timeout,
	}
}

// Register adds or replaces the check for a named component.
func (c *Checker) Register(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Liveness reports that the process is running. It never fails.
func (c *Checker) Liveness(context.Context) Status {
	return Status{Status: "ok", Timestamp: time.Now()}
}

// Readiness runs every registered check and aggregates the results.
// Any failing component makes the overall status "unhealthy".
func (c *Checker) Readiness(ctx context.Context) Status {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	status := Status{
		Status:    "ready",
		Checks:    make(map[string]CheckResult, len(checks)),
		Timestamp: time.Now(),
	}
	for name, check := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := check(checkCtx)
		cancel()
		if err != nil {
			status.Status = "unhealthy"
			status.Checks[name] = CheckResult{Status: "unhealthy", Message: err.Error()}
		} else {
			status.Checks[name] = CheckResult{Status: "ok"}
		}
	}
	return status
}

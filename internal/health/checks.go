package health

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/unalkalkan/PaperVoice/internal/storage"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Check names used by the session
const (
	CheckSummarizer = "summarizer"
	CheckSpeech     = "speech"
	CheckStorage    = "storage"
)

// CheckFunc reports the status of one capability
type CheckFunc func(ctx context.Context) (Status, error)

// Report represents the result of running all checks
type Report struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	Version   string                 `json:"version,omitempty"`
}

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Healthy reports whether the named check ran and was healthy
func (r Report) Healthy(name string) bool {
	res, ok := r.Checks[name]
	return ok && res.Status == StatusHealthy
}

// Results returns the check results ordered by name
func (r Report) Results() []CheckResult {
	results := make([]CheckResult, 0, len(r.Checks))
	for _, res := range r.Checks {
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results
}

// Checker manages named health checks
type Checker struct {
	checks  map[string]CheckFunc
	mu      sync.RWMutex
	version string
}

// NewChecker creates a new health checker
func NewChecker(version string) *Checker {
	return &Checker{
		checks:  make(map[string]CheckFunc),
		version: version,
	}
}

// Register adds a health check, replacing any check with the same name
func (c *Checker) Register(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// RunChecks executes all registered health checks
func (c *Checker) RunChecks(ctx context.Context) Report {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for k, v := range c.checks {
		checks[k] = v
	}
	c.mu.RUnlock()

	results := make(map[string]CheckResult)
	overallStatus := StatusHealthy

	for name, check := range checks {
		status, err := check(ctx)
		result := CheckResult{
			Name:   name,
			Status: status,
		}
		if err != nil {
			result.Error = err.Error()
		}

		results[name] = result

		if status == StatusUnhealthy {
			overallStatus = StatusUnhealthy
		} else if status == StatusDegraded && overallStatus == StatusHealthy {
			overallStatus = StatusDegraded
		}
	}

	return Report{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Checks:    results,
		Version:   c.version,
	}
}

// ErrMissingCredential is the summarizer check failure when no API key is set
var ErrMissingCredential = errors.New("API key is not configured. Please set the API_KEY environment variable.")

// CredentialCheck is unhealthy when the summarization credential is missing
func CredentialCheck(present bool) CheckFunc {
	return func(ctx context.Context) (Status, error) {
		if !present {
			return StatusUnhealthy, ErrMissingCredential
		}
		return StatusHealthy, nil
	}
}

// SpeechCheck is degraded when no speech backend is usable
func SpeechCheck(available bool) CheckFunc {
	return func(ctx context.Context) (Status, error) {
		if !available {
			return StatusDegraded, errors.New("text-to-speech is not available on this system")
		}
		return StatusHealthy, nil
	}
}

// StorageCheck lists the root of store within timeout
func StorageCheck(store storage.Adapter, timeout time.Duration) CheckFunc {
	return func(ctx context.Context) (Status, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if _, err := store.List(ctx, ""); err != nil {
			return StatusDegraded, fmt.Errorf("storage not reachable: %w", err)
		}
		return StatusHealthy, nil
	}
}

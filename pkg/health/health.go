// Package health exposes liveness and readiness endpoints backed by named
// dependency checks.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

const checkTimeout = 5 * time.Second

// Checker probes one dependency. A nil return means healthy.
type Checker func(ctx context.Context) error

// Status is the reported state of the service or one of its dependencies.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Response is the JSON body of the health endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult reports one dependency probe.
type CheckResult struct {
	Status   Status `json:"status"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

// Handler serves liveness and readiness over HTTP.
type Handler struct {
	mu       sync.RWMutex
	checkers map[string]Checker
}

func NewHandler() *Handler {
	return &Handler{checkers: make(map[string]Checker)}
}

// Register adds a named dependency check. Later registrations under the same
// name replace earlier ones.
func (h *Handler) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// LivenessHandler reports the process is up. It never probes dependencies, so
// a dependency outage cannot get the pod restarted.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, http.StatusOK, Response{
			Status:    StatusUp,
			Timestamp: time.Now().UTC(),
		})
	}
}

// ReadinessHandler probes every registered dependency concurrently and
// reports 503 if any of them fails.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		h.mu.RLock()
		names := make([]string, 0, len(h.checkers))
		checkers := make([]Checker, 0, len(h.checkers))
		for name, checker := range h.checkers {
			names = append(names, name)
			checkers = append(checkers, checker)
		}
		h.mu.RUnlock()

		results := make([]CheckResult, len(checkers))
		var wg sync.WaitGroup
		for i, checker := range checkers {
			wg.Add(1)
			go func(i int, checker Checker) {
				defer wg.Done()
				start := time.Now()
				result := CheckResult{Status: StatusUp}
				if err := checker(ctx); err != nil {
					result = CheckResult{Status: StatusDown, Error: err.Error()}
				}
				result.Duration = time.Since(start).String()
				results[i] = result
			}(i, checker)
		}
		wg.Wait()

		status := StatusUp
		checks := make(map[string]CheckResult, len(results))
		for i, result := range results {
			checks[names[i]] = result
			if result.Status == StatusDown {
				status = StatusDown
			}
		}

		code := http.StatusOK
		if status == StatusDown {
			code = http.StatusServiceUnavailable
		}
		writeResponse(w, code, Response{
			Status:    status,
			Timestamp: time.Now().UTC(),
			Checks:    checks,
		})
	}
}

func writeResponse(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

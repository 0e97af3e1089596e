// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

// probeTimeout bounds the whole readiness sweep, not each probe.
const probeTimeout = 5 * time.Second

// Probe is one named dependency the readiness endpoint verifies. Check
// must honor ctx cancellation.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// Handler serves the liveness and readiness endpoints. Probes run on
// every readiness request; liveness only reflects process state so the
// orchestrator never restarts a pod because a dependency blinked.
type Handler struct {
	probes   []Probe
	ready    atomic.Bool
	shutdown atomic.Bool
}

func NewHandler(probes ...Probe) *Handler {
	h := &Handler{probes: probes}
	h.ready.Store(true)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "shutting_down",
		})
		return
	}

	writeStatus(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "shutting_down",
		})
		return
	}

	if !h.ready.Load() {
		writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "not_ready",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	results := h.runProbes(ctx)

	status := "ok"
	code := http.StatusOK
	for _, res := range results {
		if !res.Healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}

	writeStatus(w, code, ReadinessResponse{
		Status: status,
		Checks: results,
	})
}

// runProbes checks every dependency concurrently so a slow one cannot
// push the others past the deadline.
func (h *Handler) runProbes(ctx context.Context) []ProbeResult {
	results := make([]ProbeResult, len(h.probes))

	var wg sync.WaitGroup
	for i, probe := range h.probes {
		wg.Add(1)
		go func(i int, probe Probe) {
			defer wg.Done()
			results[i] = runProbe(ctx, probe)
		}(i, probe)
	}
	wg.Wait()

	return results
}

func runProbe(ctx context.Context, probe Probe) ProbeResult {
	res := ProbeResult{
		Name:    probe.Name,
		Healthy: true,
	}

	if probe.Check == nil {
		res.Healthy = false
		res.Message = "probe not configured"
		return res
	}

	start := time.Now()
	err := probe.Check(ctx)
	res.Latency = time.Since(start).String()

	if err != nil {
		// Error details stay out of the body; these endpoints are
		// unauthenticated.
		res.Healthy = false
		res.Message = "check failed"
	}

	return res
}

// SetReady gates readiness during warmup without touching liveness.
func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// SetShutdown flips both endpoints to shutting_down so load balancers
// drain the instance before the listener closes.
func (h *Handler) SetShutdown(shutdown bool) {
	h.shutdown.Store(shutdown)
}

func writeStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response
	_ = json.NewEncoder(w).Encode(data)
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ReadinessResponse struct {
	Status string        `json:"status"`
	Checks []ProbeResult `json:"checks"`
}

type ProbeResult struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

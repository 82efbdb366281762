package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dmdv/ants-simulation/internal/config"
	"github.com/Dmdv/ants-simulation/internal/metrics"
	"github.com/Dmdv/ants-simulation/internal/runner"
)

const maxMapBytes = 4 << 20

// Handler holds all HTTP handler dependencies.
type Handler struct {
	run    *runner.Runner
	loader *config.Loader
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(run *runner.Runner, loader *config.Loader) http.Handler {
	h := &Handler{run: run, loader: loader, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST /v1/simulations", h.runSimulation)
	h.mux.HandleFunc("POST /v1/simulations/async", h.enqueueSimulation)
	h.mux.HandleFunc("GET /v1/simulations/{id}", h.getSimulation)
	h.mux.HandleFunc("GET /v1/config", h.getConfig)
	h.mux.HandleFunc("POST /v1/config/reload", h.reloadConfig)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) *runner.Request {
	var req runner.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMapBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return nil
	}
	if req.MapText == "" {
		writeError(w, http.StatusBadRequest, "map is required")
		return nil
	}
	if req.Ants <= 0 {
		writeError(w, http.StatusBadRequest, "ants must be a positive integer")
		return nil
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	return &req
}

// POST /v1/simulations — run a simulation and wait for its result.
func (h *Handler) runSimulation(w http.ResponseWriter, r *http.Request) {
	req := h.decodeRequest(w, r)
	if req == nil {
		return
	}
	res, err := h.run.RunSync(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusTooManyRequests, err.Error())
		return
	}
	if res.Error != "" {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /v1/simulations/async — enqueue and return the run id immediately.
func (h *Handler) enqueueSimulation(w http.ResponseWriter, r *http.Request) {
	req := h.decodeRequest(w, r)
	if req == nil {
		return
	}
	if !h.run.RunAsync(req) {
		writeError(w, http.StatusTooManyRequests, "run queue full")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"id": req.ID})
}

// GET /v1/simulations/{id} — fetch a stored run result.
func (h *Handler) getSimulation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	res, ok := h.run.Result(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no result for run %q", id))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /v1/config — current server and simulation defaults.
func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.loader.Config())
}

// POST /v1/config/reload — force a re-read of the config file.
func (h *Handler) reloadConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.loader.Reload()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := config.Validate(cfg); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.run.UpdateDefaults(cfg.Simulation)
	writeJSON(w, http.StatusOK, map[string]any{"reloaded": true})
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz — 503 if the run queue is >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.run.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ready",
		"queue_utilization": util,
	})
}

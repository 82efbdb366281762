// Package runner schedules simulation runs on a bounded worker pool and
// keeps their results for later retrieval. It is the server-side
// counterpart of running a single simulation from the CLI.
package runner

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Dmdv/ants-simulation/internal/config"
	"github.com/Dmdv/ants-simulation/internal/mapfile"
	"github.com/Dmdv/ants-simulation/internal/metrics"
	"github.com/Dmdv/ants-simulation/internal/report"
	"github.com/Dmdv/ants-simulation/internal/sim"
)

// Request describes one simulation run. Zero-valued optional fields fall
// back to the server's current simulation defaults.
type Request struct {
	ID            string   `json:"id,omitempty"`
	MapText       string   `json:"map"`
	Ants          int      `json:"ants"`
	Seed          *uint64  `json:"seed,omitempty"`
	MaxTicks      int      `json:"max_ticks,omitempty"`
	MaxMoves      int      `json:"max_moves,omitempty"`
	DistinctStart *bool    `json:"distinct_start,omitempty"`
	Starts        []string `json:"starts,omitempty"`
}

// RunResult is the stored outcome of one run. Error is set when the map
// or parameters were rejected; Summary and friends are set on success.
type RunResult struct {
	ID         string                    `json:"id"`
	Seed       uint64                    `json:"seed"`
	Summary    *sim.Result               `json:"summary,omitempty"`
	Events     []report.DestructionEvent `json:"events,omitempty"`
	FinalMap   string                    `json:"final_map,omitempty"`
	DurationMs int64                     `json:"duration_ms"`
	Error      string                    `json:"error,omitempty"`
}

type runWork struct {
	req     *Request
	resultC chan *RunResult
}

// Runner owns the run pool and the in-memory result store. Simulation
// defaults are swapped atomically on config hot-reload.
type Runner struct {
	defaults atomic.Pointer[config.SimConf]
	pool     *workerPool[*runWork]
	timeout  time.Duration

	mu      sync.RWMutex
	results map[string]*RunResult
}

// New creates a Runner using conf and starts its worker pool.
func New(ctx context.Context, conf *config.Config) *Runner {
	r := &Runner{
		timeout: time.Duration(conf.Server.RunTimeoutMs) * time.Millisecond,
		results: make(map[string]*RunResult),
	}
	simConf := conf.Simulation
	r.defaults.Store(&simConf)

	r.pool = newWorkerPool(ctx, conf.Server.RunWorkers, conf.Server.QueueDepth,
		func(ctx context.Context, w *runWork) {
			res := r.execute(ctx, w.req)
			r.store(res)
			if w.resultC != nil {
				w.resultC <- res
			}
		})
	return r
}

// UpdateDefaults atomically replaces the simulation defaults (used on
// config hot-reload). Queued and running simulations are unaffected.
func (r *Runner) UpdateDefaults(conf config.SimConf) {
	r.defaults.Store(&conf)
}

// RunSync schedules a run and waits for its result.
func (r *Runner) RunSync(ctx context.Context, req *Request) (*RunResult, error) {
	resultC := make(chan *RunResult, 1)
	if !r.pool.Submit(&runWork{req: req, resultC: resultC}) {
		metrics.RunsDropped.Inc()
		return nil, fmt.Errorf("run queue full (capacity %d)", r.pool.QueueCap())
	}
	metrics.RunsEnqueued.Inc()

	select {
	case res := <-resultC:
		return res, nil
	case <-time.After(r.timeout):
		return nil, fmt.Errorf("run timeout after %v", r.timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RunAsync enqueues a run for background execution. Returns false if the
// queue is full.
func (r *Runner) RunAsync(req *Request) bool {
	if !r.pool.Submit(&runWork{req: req}) {
		metrics.RunsDropped.Inc()
		return false
	}
	metrics.RunsEnqueued.Inc()
	return true
}

// Result returns a stored run result by id.
func (r *Runner) Result(id string) (*RunResult, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.results[id]
	return res, ok
}

// QueueUtilization returns queue used / capacity (0–1).
func (r *Runner) QueueUtilization() float64 {
	if r.pool.QueueCap() == 0 {
		return 0
	}
	return float64(r.pool.QueueLen()) / float64(r.pool.QueueCap())
}

// Shutdown drains the pool gracefully.
func (r *Runner) Shutdown() {
	r.pool.Drain()
}

func (r *Runner) execute(ctx context.Context, req *Request) *RunResult {
	defaults := r.defaults.Load()

	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}
	out := &RunResult{ID: req.ID, Seed: seed}

	g, err := mapfile.Parse(strings.NewReader(req.MapText))
	if err != nil {
		out.Error = err.Error()
		return out
	}

	params := sim.Params{
		Ants:          req.Ants,
		Seed:          seed,
		MaxTicks:      req.MaxTicks,
		MaxMoves:      req.MaxMoves,
		DistinctStart: defaults.DistinctStart,
		MoveWorkers:   defaults.MoveWorkers,
		Starts:        req.Starts,
	}
	if params.MaxTicks == 0 {
		params.MaxTicks = defaults.MaxTicks
	}
	if params.MaxMoves == 0 {
		params.MaxMoves = defaults.MaxMoves
	}
	if req.DistinctStart != nil {
		params.DistinctStart = *req.DistinctStart
	}

	var col report.Collector
	eng, err := sim.New(g, params, &col)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	summary, err := eng.Run(ctx)
	if err != nil {
		out.Error = err.Error()
		return out
	}

	out.Summary = summary
	out.DurationMs = summary.Duration.Milliseconds()
	out.Events = col.Events()
	out.FinalMap = report.RenderMap(eng.Graph())
	return out
}

func (r *Runner) store(res *RunResult) {
	if res.ID == "" {
		return
	}
	r.mu.Lock()
	r.results[res.ID] = res
	r.mu.Unlock()
}

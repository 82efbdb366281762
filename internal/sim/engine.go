// Package sim implements the colony-destruction simulation: ants wander
// the directed colony graph one tick at a time, and any colony holding
// two or more ants at the end of a tick is destroyed together with them.
//
// Each tick is a scatter/gather: move choices are computed in parallel
// against the graph, which is immutable for the duration of the move
// phase, then collisions and destruction are resolved serially behind
// the errgroup barrier.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dmdv/ants-simulation/internal/colony"
	"github.com/Dmdv/ants-simulation/internal/metrics"
	"github.com/Dmdv/ants-simulation/internal/report"
)

// ErrInvalidConfiguration rejects unusable simulation parameters before
// any tick runs.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Safety bounds for graphs where ants can cycle forever without ever
// colliding.
const (
	DefaultMaxTicks = 100_000
	DefaultMaxMoves = 10_000
)

// Params configures a single simulation run.
type Params struct {
	// Ants is the number of ants to spawn. Must be positive.
	Ants int
	// Seed drives all random placement and movement. Two runs with the
	// same seed on the same map produce identical results.
	Seed uint64
	// MaxTicks caps the tick loop; 0 means DefaultMaxTicks.
	MaxTicks int
	// MaxMoves caps how many times a single ant may move; 0 means
	// DefaultMaxMoves. An exhausted ant stays put, like a trapped one.
	MaxMoves int
	// MoveWorkers bounds the parallel move phase; 0 means GOMAXPROCS.
	MoveWorkers int
	// DistinctStart places every ant on its own colony and rejects
	// Ants > colony count. When false, starting colonies are drawn
	// uniformly and may repeat.
	DistinctStart bool
	// Starts pins starting colonies explicitly (len must equal Ants).
	// Overrides random placement; used by tests and the HTTP API.
	Starts []string
}

// Outcome says how a run ended.
type Outcome string

const (
	// OutcomeTerminated: no surviving ant has a legal move left.
	OutcomeTerminated Outcome = "terminated"
	// OutcomeBounded: a safety bound (MaxTicks, or every remaining
	// mover's MaxMoves budget) ended the run first.
	OutcomeBounded Outcome = "bounded"
)

// Result summarizes a finished run.
type Result struct {
	Ticks             int           `json:"ticks"`
	Outcome           Outcome       `json:"outcome"`
	ColoniesDestroyed int           `json:"colonies_destroyed"`
	AntsKilled        int           `json:"ants_killed"`
	AntsRemaining     int           `json:"ants_remaining"`
	ColoniesRemaining int           `json:"colonies_remaining"`
	Duration          time.Duration `json:"-"`
}

// proposal is one ant's chosen move for the current tick. An empty to
// means the ant stays (trapped or move-exhausted).
type proposal struct {
	from string
	to   string
}

// Engine owns the graph and roster for the duration of a run. It is not
// safe for concurrent use; Run drives all internal parallelism itself.
type Engine struct {
	graph    *colony.Graph
	roster   *Roster
	reporter report.Reporter
	p        Params

	rngs  []*rand.Rand // one per ant, derived from Seed
	moves []int        // per-ant move count, for the MaxMoves budget

	tick      int
	destroyed int
	killed    int
}

type nopReporter struct{}

func (nopReporter) ColonyDestroyed(report.DestructionEvent) {}

// New validates params, seeds the roster and returns a ready engine.
// The graph is owned by the engine until Run returns.
func New(g *colony.Graph, p Params, rep report.Reporter) (*Engine, error) {
	if g == nil || g.Count() == 0 {
		return nil, fmt.Errorf("%w: map has no colonies", ErrInvalidConfiguration)
	}
	if p.Ants <= 0 {
		return nil, fmt.Errorf("%w: ant count %d must be positive", ErrInvalidConfiguration, p.Ants)
	}
	if p.MaxTicks == 0 {
		p.MaxTicks = DefaultMaxTicks
	}
	if p.MaxMoves == 0 {
		p.MaxMoves = DefaultMaxMoves
	}
	if p.MaxTicks < 0 || p.MaxMoves < 0 {
		return nil, fmt.Errorf("%w: tick and move bounds must not be negative", ErrInvalidConfiguration)
	}
	if p.MoveWorkers <= 0 {
		p.MoveWorkers = runtime.GOMAXPROCS(0)
	}
	if rep == nil {
		rep = nopReporter{}
	}

	e := &Engine{
		graph:    g,
		roster:   NewRoster(),
		reporter: rep,
		p:        p,
		rngs:     make([]*rand.Rand, p.Ants),
		moves:    make([]int, p.Ants),
	}
	// Stream 0 is reserved for placement; ant i draws from stream i+1.
	// Deriving a source per ant makes move choices a pure function of
	// (seed, ant, tick), so worker scheduling cannot change outcomes.
	for i := range e.rngs {
		e.rngs[i] = rand.New(rand.NewPCG(p.Seed, uint64(i)+1))
	}
	if err := e.place(rand.New(rand.NewPCG(p.Seed, 0))); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) place(master *rand.Rand) error {
	names := e.graph.Names()
	switch {
	case len(e.p.Starts) > 0:
		if len(e.p.Starts) != e.p.Ants {
			return fmt.Errorf("%w: %d starting colonies for %d ants", ErrInvalidConfiguration, len(e.p.Starts), e.p.Ants)
		}
		for id, name := range e.p.Starts {
			if !e.graph.Exists(name) {
				return fmt.Errorf("%w: starting colony %q not on the map", ErrInvalidConfiguration, name)
			}
			e.roster.Place(id, name)
		}
	case e.p.DistinctStart:
		if e.p.Ants > len(names) {
			return fmt.Errorf("%w: %d ants need distinct starts but the map has only %d colonies",
				ErrInvalidConfiguration, e.p.Ants, len(names))
		}
		perm := master.Perm(len(names))
		for id := 0; id < e.p.Ants; id++ {
			e.roster.Place(id, names[perm[id]])
		}
	default:
		for id := 0; id < e.p.Ants; id++ {
			e.roster.Place(id, names[master.IntN(len(names))])
		}
	}
	return nil
}

// Graph returns the (possibly partially destroyed) colony graph. Meant
// for rendering the surviving map after Run returns.
func (e *Engine) Graph() *colony.Graph {
	return e.graph
}

// Run drives the simulation to completion and returns its summary.
// It stops early only if ctx is cancelled.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	// Shared starting colonies can collide before anyone moves.
	e.resolveCollisions(nil, nil)

	outcome := OutcomeTerminated
	for {
		if e.roster.Len() == 0 {
			break
		}
		canMove, budgetSpent := e.moversLeft()
		if !canMove {
			// An ant stopped only by its move budget is a bound being
			// hit, not natural termination.
			if budgetSpent {
				outcome = OutcomeBounded
			}
			break
		}
		if e.tick >= e.p.MaxTicks {
			outcome = OutcomeBounded
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.tick++
		if err := e.step(ctx); err != nil {
			return nil, err
		}
		metrics.TicksSimulated.Inc()
	}

	res := &Result{
		Ticks:             e.tick,
		Outcome:           outcome,
		ColoniesDestroyed: e.destroyed,
		AntsKilled:        e.killed,
		AntsRemaining:     e.roster.Len(),
		ColoniesRemaining: e.graph.Count(),
		Duration:          time.Since(start),
	}
	metrics.RunsCompleted.WithLabelValues(string(outcome)).Inc()
	metrics.RunDuration.Observe(float64(res.Duration.Milliseconds()))
	return res, nil
}

// moversLeft sweeps the surviving ants. canMove means at least one ant
// has an outgoing tunnel and moves left in its budget; budgetSpent means
// some ant with an outgoing tunnel is held back only by MaxMoves, which
// distinguishes a bounded stop from natural termination.
func (e *Engine) moversLeft() (canMove, budgetSpent bool) {
	for _, id := range e.roster.Active() {
		pos, ok := e.roster.Position(id)
		if !ok {
			continue
		}
		if len(e.graph.Neighbors(pos)) == 0 {
			continue // trapped: no move regardless of budget
		}
		if e.moves[id] >= e.p.MaxMoves {
			budgetSpent = true
			continue
		}
		return true, false
	}
	return false, budgetSpent
}

// step runs one tick: parallel move proposals, a barrier, serial
// application, then collision resolution on the post-move snapshot.
func (e *Engine) step(ctx context.Context) error {
	active := e.roster.Active()
	props := make([]proposal, len(active))

	// Scatter: each worker reads the graph and its own ant's state and
	// writes only its own proposal slot. The graph and roster are not
	// mutated until every worker has passed the barrier.
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(e.p.MoveWorkers)
	for i, id := range active {
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if e.moves[id] >= e.p.MaxMoves {
				return nil
			}
			cur, ok := e.roster.Position(id)
			if !ok {
				return nil
			}
			nbrs := e.graph.Neighbors(cur)
			if len(nbrs) == 0 {
				return nil // trapped: skips this and every future tick
			}
			pick := nbrs[e.rngs[id].IntN(len(nbrs))]
			props[i] = proposal{from: cur, to: pick.Target}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}

	// Gather: apply every move, then resolve collisions off the
	// resulting occupancy snapshot. Never destroy-as-you-go: that would
	// make the outcome depend on ant iteration order.
	for i, id := range active {
		if props[i].to == "" {
			continue
		}
		e.roster.Place(id, props[i].to)
		e.moves[id]++
	}
	e.resolveCollisions(active, props)
	return nil
}

// resolveCollisions finds every colony that must die this tick and
// applies the destruction: one event per colony, all occupants removed,
// the colony and its edges dropped from the graph.
//
// Two rules feed the victim set, both computed from the same post-move
// snapshot so the result is independent of scheduling:
//
//  1. occupancy — a colony holds two or more ants;
//  2. crossing — exactly two ants swapped colonies along opposite
//     tunnels this tick; they met mid-tunnel, and the fight lands on the
//     destination of the lower-numbered ant.
//
// Ants claimed by rule 1 are excluded from rule 2, which keeps a swap
// adjacent to a pileup from killing anyone twice.
func (e *Engine) resolveCollisions(active []int, props []proposal) {
	victims := make(map[string]map[int]struct{})
	claimed := make(map[int]struct{})
	claim := func(colonyName string, ids ...int) {
		set, ok := victims[colonyName]
		if !ok {
			set = make(map[int]struct{})
			victims[colonyName] = set
		}
		for _, id := range ids {
			set[id] = struct{}{}
			claimed[id] = struct{}{}
		}
	}

	for _, name := range e.roster.Crowded() {
		claim(name, e.roster.Occupants(name)...)
	}

	// Tunnel crossings. Ants that shared a destination are already in an
	// occupancy group, so each side of a genuine crossing holds exactly
	// one unclaimed ant.
	trav := make(map[[2]string][]int, len(props))
	for i := range props {
		if props[i].to == "" || props[i].from == props[i].to {
			continue
		}
		key := [2]string{props[i].from, props[i].to}
		trav[key] = append(trav[key], active[i])
	}
	for key, fwd := range trav {
		if key[0] >= key[1] {
			continue // each pair handled once, from its lower endpoint
		}
		rev, ok := trav[[2]string{key[1], key[0]}]
		if !ok {
			continue
		}
		a, okA := soleUnclaimed(fwd, claimed)
		b, okB := soleUnclaimed(rev, claimed)
		if !okA || !okB {
			continue
		}
		site := key[1] // destination of the fwd ant
		if b < a {
			site = key[0]
		}
		claim(site, a, b)
	}

	if len(victims) == 0 {
		return
	}
	names := make([]string, 0, len(victims))
	for name := range victims {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ids := make([]int, 0, len(victims[name]))
		for id := range victims[name] {
			ids = append(ids, id)
		}
		sort.Ints(ids)

		e.reporter.ColonyDestroyed(report.DestructionEvent{Tick: e.tick, Colony: name, Ants: ids})
		for _, id := range ids {
			e.roster.Remove(id)
		}
		e.graph.Destroy(name)
		e.destroyed++
		e.killed += len(ids)
		metrics.ColoniesDestroyed.Inc()
		metrics.AntsKilled.Add(float64(len(ids)))
	}
}

func soleUnclaimed(ids []int, claimed map[int]struct{}) (int, bool) {
	found := -1
	for _, id := range ids {
		if _, dead := claimed[id]; dead {
			continue
		}
		if found >= 0 {
			return 0, false
		}
		found = id
	}
	if found < 0 {
		return 0, false
	}
	return found, true
}

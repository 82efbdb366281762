package colony

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownColony is returned when an edge references a colony that was
// never added. The simulation engine never triggers it; seeing it at
// runtime means the map loader violated its contract.
var ErrUnknownColony = errors.New("unknown colony")

// Edge is one outgoing tunnel: a direction label and the colony it leads to.
type Edge struct {
	Direction string `json:"direction"`
	Target    string `json:"target"`
}

// edgeRef identifies an edge from the target's point of view, for the
// reverse index.
type edgeRef struct {
	from      string
	direction string
}

// Graph is the mutable directed colony map. Outgoing edges are stored as
// direction→target per colony; a reverse index (target→referencing edges)
// makes Destroy O(degree) instead of a full scan.
//
// The Graph is not internally locked: the engine owns it exclusively and
// only reads it during the parallel move phase, mutating it solely in the
// serialized destruction pass.
type Graph struct {
	outgoing map[string]map[string]string // colony → direction → target
	incoming map[string]map[edgeRef]struct{}
	order    []string // insertion order of explicitly added colonies
}

// NewGraph allocates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		outgoing: make(map[string]map[string]string),
		incoming: make(map[string]map[edgeRef]struct{}),
	}
}

// AddColony registers a named colony with no edges. Adding an existing
// colony is a no-op.
func (g *Graph) AddColony(name string) {
	if _, ok := g.outgoing[name]; ok {
		return
	}
	g.outgoing[name] = make(map[string]string)
	g.order = append(g.order, name)
}

// AddEdge records a directed labeled edge. An existing edge with the same
// (from, direction) pair is overwritten. Both endpoints must already exist.
func (g *Graph) AddEdge(from, direction, to string) error {
	if _, ok := g.outgoing[from]; !ok {
		return fmt.Errorf("add edge %s-%s->%s: %w %q", from, direction, to, ErrUnknownColony, from)
	}
	if _, ok := g.outgoing[to]; !ok {
		return fmt.Errorf("add edge %s-%s->%s: %w %q", from, direction, to, ErrUnknownColony, to)
	}
	if prev, ok := g.outgoing[from][direction]; ok {
		g.dropIncoming(prev, edgeRef{from: from, direction: direction})
	}
	g.outgoing[from][direction] = to
	refs, ok := g.incoming[to]
	if !ok {
		refs = make(map[edgeRef]struct{})
		g.incoming[to] = refs
	}
	refs[edgeRef{from: from, direction: direction}] = struct{}{}
	return nil
}

// Neighbors returns the colony's current outgoing edges in canonical
// direction order (north, south, east, west, then any other labels
// sorted). Returns nil for a dead end or an absent colony. The stable
// order keeps random direction choice reproducible for a fixed seed.
func (g *Graph) Neighbors(name string) []Edge {
	out := g.outgoing[name]
	if len(out) == 0 {
		return nil
	}
	edges := make([]Edge, 0, len(out))
	for dir, target := range out {
		edges = append(edges, Edge{Direction: dir, Target: target})
	}
	sort.Slice(edges, func(i, j int) bool {
		ri, rj := directionRank(edges[i].Direction), directionRank(edges[j].Direction)
		if ri != rj {
			return ri < rj
		}
		return edges[i].Direction < edges[j].Direction
	})
	return edges
}

// Destroy removes the colony together with every edge touching it, both
// outgoing and incoming. Destroying an absent colony is a no-op, so
// repeated destruction attempts on the same target are safe.
func (g *Graph) Destroy(name string) {
	out, ok := g.outgoing[name]
	if !ok {
		return
	}
	for dir, target := range out {
		g.dropIncoming(target, edgeRef{from: name, direction: dir})
	}
	delete(g.outgoing, name)
	for ref := range g.incoming[name] {
		delete(g.outgoing[ref.from], ref.direction)
	}
	delete(g.incoming, name)
}

// Exists reports whether the colony is still part of the map.
func (g *Graph) Exists(name string) bool {
	_, ok := g.outgoing[name]
	return ok
}

// Count returns the number of surviving colonies.
func (g *Graph) Count() int {
	return len(g.outgoing)
}

// Names returns the surviving colonies in the order they were added.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.outgoing))
	for _, name := range g.order {
		if g.Exists(name) {
			names = append(names, name)
		}
	}
	return names
}

func (g *Graph) dropIncoming(target string, ref edgeRef) {
	refs := g.incoming[target]
	delete(refs, ref)
	if len(refs) == 0 {
		delete(g.incoming, target)
	}
}

// directionRank orders the four compass labels the way map files
// conventionally list them; unknown labels sort after, alphabetically.
func directionRank(dir string) int {
	switch dir {
	case "north":
		return 0
	case "south":
		return 1
	case "east":
		return 2
	case "west":
		return 3
	default:
		return 4
	}
}

package sim

import "sort"

// Roster tracks the active ants and where they are. It keeps a reverse
// index from colony to occupants so collision detection is a lookup, not
// a scan over all ants. An ant is present iff it has not been destroyed.
type Roster struct {
	position  map[int]string
	occupants map[string]map[int]struct{}
	order     []int // placement order, for stable iteration
}

// NewRoster allocates an empty roster.
func NewRoster() *Roster {
	return &Roster{
		position:  make(map[int]string),
		occupants: make(map[string]map[int]struct{}),
	}
}

// Place puts the ant at the given colony, relocating it if it was
// somewhere else. The colony may already be occupied; collisions are
// detected afterwards, not prevented here.
func (r *Roster) Place(id int, colonyName string) {
	if prev, ok := r.position[id]; ok {
		r.leave(id, prev)
	} else {
		r.order = append(r.order, id)
	}
	r.position[id] = colonyName
	set, ok := r.occupants[colonyName]
	if !ok {
		set = make(map[int]struct{})
		r.occupants[colonyName] = set
	}
	set[id] = struct{}{}
}

// Position returns the ant's current colony, or false if it was destroyed
// or never placed.
func (r *Roster) Position(id int) (string, bool) {
	colonyName, ok := r.position[id]
	return colonyName, ok
}

// Occupants returns the ants at a colony in ascending id order.
func (r *Roster) Occupants(colonyName string) []int {
	set := r.occupants[colonyName]
	if len(set) == 0 {
		return nil
	}
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Crowded returns, sorted by name, every colony holding two or more ants.
func (r *Roster) Crowded() []string {
	var names []string
	for name, set := range r.occupants {
		if len(set) >= 2 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Remove deletes the ant from all indices. Removing an absent ant is a
// no-op.
func (r *Roster) Remove(id int) {
	colonyName, ok := r.position[id]
	if !ok {
		return
	}
	delete(r.position, id)
	r.leave(id, colonyName)
}

// Active returns the surviving ant ids in their original placement order.
func (r *Roster) Active() []int {
	ids := make([]int, 0, len(r.position))
	for _, id := range r.order {
		if _, ok := r.position[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len returns the number of surviving ants.
func (r *Roster) Len() int {
	return len(r.position)
}

func (r *Roster) leave(id int, colonyName string) {
	set := r.occupants[colonyName]
	delete(set, id)
	if len(set) == 0 {
		delete(r.occupants, colonyName)
	}
}

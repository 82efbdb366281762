package report

// DestructionEvent is the canonical record of one colony being wiped out:
// the tick it happened on, the colony, and every ant that collided there.
// At least two ants are always involved; more than two means a multi-ant
// pileup, reported as a single event.
type DestructionEvent struct {
	Tick   int    `json:"tick"`
	Colony string `json:"colony"`
	Ants   []int  `json:"ants"`
}

// Package trigger implements the song-timeline engine for one pattern: a
// sorted, non-overlapping list of segments describing when the pattern plays
// and at what phase of its own loop. The list performs no locking; the owning
// pattern holds its mutex across every call (see Pattern in the sequencer
// package).
package trigger

// Trigger is one timeline segment: the pattern sounds from Start through End
// (both inclusive, in ticks), with Offset giving the position inside the
// pattern's loop that lines up with Start.
//
// Callers must keep Start <= End; nothing here validates it, and Length or
// PlayWindow will misbehave on an inverted segment.
type Trigger struct {
	Start    int64 `json:"start"`
	End      int64 `json:"end"`
	Offset   int64 `json:"offset"`
	Selected bool  `json:"-"`
}

// Length returns the tick span of the segment, End inclusive.
func (t Trigger) Length() int64 {
	return t.End - t.Start + 1
}

// Contains reports whether tick falls inside the segment.
func (t Trigger) Contains(tick int64) bool {
	return tick >= t.Start && tick <= t.End
}

// Shift moves both edges by d (negative d moves the segment earlier).
func (t *Trigger) Shift(d int64) {
	t.Start += d
	t.End += d
}

// IncrementStart moves the start edge by d.
func (t *Trigger) IncrementStart(d int64) {
	t.Start += d
}

// IncrementEnd moves the end edge by d.
func (t *Trigger) IncrementEnd(d int64) {
	t.End += d
}

// IncrementOffset adds d to the loop-phase offset without normalizing; the
// list's modulo fix-up runs afterwards where it matters.
func (t *Trigger) IncrementOffset(d int64) {
	t.Offset += d
}

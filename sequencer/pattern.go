package sequencer

import (
	"sync"

	"go-songseq/debug"
	"go-songseq/midi"
	"go-songseq/trigger"
)

// Note is one note inside a pattern's looped content.
type Note struct {
	Tick     int64 `json:"tick"` // position inside the loop
	Duration int64 `json:"duration"`
	Pitch    uint8 `json:"pitch"`
	Velocity uint8 `json:"velocity"`
}

// Pattern is a looped phrase plus its placement on the song timeline. It owns
// a trigger list 1:1 and is that list's playback sink: during a playback
// slice the trigger engine flips the pattern's play state and reports the
// loop phase back here.
//
// The mutex is the external lock the trigger engine relies on: every call
// into the engine happens with mu held, whether it comes from the UI
// goroutine (edits) or the playback loop (PlaySlice).
type Pattern struct {
	mu sync.Mutex

	Name    string
	Channel uint8 // MIDI output channel (1-16)
	Muted   bool

	ppqn   int64
	length int64 // loop length in ticks
	notes  []Note

	triggers *trigger.List

	// Playback state driven by the trigger engine
	playing       bool
	lastTick      int64
	triggerOffset int64
}

// NewPattern creates an empty pattern of lengthBeats quarter notes.
func NewPattern(name string, channel uint8, lengthBeats int) *Pattern {
	p := &Pattern{
		Name:    name,
		Channel: channel,
		ppqn:    DefaultPPQN,
		length:  int64(lengthBeats) * DefaultPPQN,
	}
	p.triggers = trigger.New(p, p.ppqn, p.length)
	return p
}

// trigger.PlaybackSink implementation. The engine calls these while the
// pattern's own mutex is already held; none of them may lock again.

func (p *Pattern) Playing() bool { return p.playing }

func (p *Pattern) SetPlaying(on bool) {
	if on != p.playing {
		debug.Log("pattern", "%s playing=%v", p.Name, on)
	}
	p.playing = on
}

func (p *Pattern) LastTick() int64 { return p.lastTick }

func (p *Pattern) SetTriggerOffset(offset int64) { p.triggerOffset = offset }

// Length returns the loop length in ticks.
func (p *Pattern) Length() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.length
}

// SetLength resizes the loop and remaps every trigger offset to the new
// length.
func (p *Pattern) SetLength(ticks int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggers.SetLength(ticks)
	p.length = ticks
}

// PPQN returns the pattern's timing resolution.
func (p *Pattern) PPQN() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ppqn
}

// SetPPQN changes the timing resolution, mirrored into the trigger list.
func (p *Pattern) SetPPQN(ppqn int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ppqn = ppqn
	p.triggers.SetPPQN(ppqn)
}

// Notes returns a copy of the looped content.
func (p *Pattern) Notes() []Note {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Note, len(p.notes))
	copy(out, p.notes)
	return out
}

// SetNotes replaces the looped content.
func (p *Pattern) SetNotes(notes []Note) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notes = notes
}

// AddNote appends one note to the looped content.
func (p *Pattern) AddNote(n Note) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notes = append(p.notes, n)
}

// Trigger editing forwarders. Each one snapshots undo state first, then
// mutates under the pattern lock.

// AddTrigger places the pattern on the timeline at [tick, tick+length-1].
func (p *Pattern) AddTrigger(tick, length, offset int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggers.PushUndo()
	p.triggers.Add(tick, length, offset, true)
	debug.Log("trig", "%s add %d+%d", p.Name, tick, length)
}

// SplitTrigger bisects the segment under tick at its midpoint.
func (p *Pattern) SplitTrigger(tick int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggers.PushUndo()
	return p.triggers.Split(tick)
}

// GrowTrigger widens the segment under tickFrom to reach tickTo.
func (p *Pattern) GrowTrigger(tickFrom, tickTo, length int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggers.PushUndo()
	return p.triggers.Grow(tickFrom, tickTo, length)
}

// MoveTriggers shifts the timeline at startTick by distance.
func (p *Pattern) MoveTriggers(startTick, distance int64, forward bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggers.PushUndo()
	p.triggers.Move(startTick, distance, forward)
}

// CopyTriggers duplicates the window at startTick forward by distance.
func (p *Pattern) CopyTriggers(startTick, distance int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggers.PushUndo()
	p.triggers.CopyRange(startTick, distance)
}

// MoveSelectedTrigger drags the first selected segment.
func (p *Pattern) MoveSelectedTrigger(tick int64, fixOffset bool, which trigger.DragMode) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggers.PushUndo()
	return p.triggers.MoveSelected(tick, fixOffset, which)
}

// SelectTrigger selects the segment under tick.
func (p *Pattern) SelectTrigger(tick int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.triggers.Select(tick)
}

// UnselectTriggers clears all selections.
func (p *Pattern) UnselectTriggers() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggers.Unselect()
}

// RemoveSelectedTrigger deletes the first selected segment.
func (p *Pattern) RemoveSelectedTrigger() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggers.PushUndo()
	return p.triggers.RemoveSelected()
}

// CopySelectedTrigger captures the first selected segment for pasting.
func (p *Pattern) CopySelectedTrigger() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.triggers.CopySelected()
}

// PasteTrigger appends a clipboard copy after the previous paste.
func (p *Pattern) PasteTrigger() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggers.PushUndo()
	p.triggers.Paste()
}

// ClearTriggers removes the pattern from the timeline entirely.
func (p *Pattern) ClearTriggers() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggers.PushUndo()
	p.triggers.Clear()
}

// Undo restores the trigger list to before the last mutation.
func (p *Pattern) Undo() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggers.PopUndo()
}

// Redo reverses the last Undo.
func (p *Pattern) Redo() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggers.PopRedo()
}

// Triggers returns a copy of the segment list for rendering and export.
func (p *Pattern) Triggers() []trigger.Trigger {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]trigger.Trigger, len(p.triggers.Triggers()))
	copy(out, p.triggers.Triggers())
	return out
}

// TriggeredAt reports whether the pattern is placed on the timeline at tick.
func (p *Pattern) TriggeredAt(tick int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.triggers.GetState(tick)
}

// MaxTick returns the end of the pattern's last timeline segment.
func (p *Pattern) MaxTick() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.triggers.MaxTick()
}

// ResetPlayback rewinds the pattern's playback state to tick 0.
func (p *Pattern) ResetPlayback() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	p.lastTick = 0
	p.triggerOffset = 0
}

// PlaySlice processes the song window [start, end], both inclusive: the
// trigger engine decides whether the pattern should be sounding and at what
// loop phase, and the notes covered by the surviving window come back as
// timestamped events. A muted pattern still advances its trigger state so
// unmuting mid-song resumes in phase.
func (p *Pattern) PlaySlice(start, end int64) []midi.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	start, end, stop := p.triggers.PlayWindow(start, end)

	// stop means the pattern was sounding up to the clipped end; that final
	// partial window still plays even though the state is already off.
	var events []midi.Event
	if (p.playing || stop) && !p.Muted && p.length > 0 && end >= start {
		events = p.notesIn(start, end)
	}
	if stop {
		debug.Log("play", "%s off at %d", p.Name, end)
	}
	p.lastTick = end + 1
	return events
}

// notesIn emits note on/off pairs for every loop position covered by
// [start, end], phase-shifted by the current trigger offset: the loop
// position sounding at global tick g is (g - offset) mod length, so a note
// at loop position n lands on every g with g ≡ n + offset (mod length).
// A segment moved forward by d carries offset advanced by d, which is what
// keeps its content pinned to the segment as it moves.
func (p *Pattern) notesIn(start, end int64) []midi.Event {
	var events []midi.Event
	for _, n := range p.notes {
		if n.Tick < 0 || n.Tick >= p.length {
			continue
		}
		base := floorMod(n.Tick+p.triggerOffset, p.length)
		for g := start + floorMod(base-start, p.length); g <= end; g += p.length {
			events = append(events,
				midi.Event{Tick: g, Type: midi.NoteOn, Channel: p.Channel, Note: n.Pitch, Velocity: n.Velocity},
				midi.Event{Tick: g + n.Duration, Type: midi.NoteOff, Channel: p.Channel, Note: n.Pitch},
			)
		}
	}
	return events
}

func floorMod(a, m int64) int64 {
	a %= m
	if a < 0 {
		a += m
	}
	return a
}

package trigger

import (
	"fmt"
	"sort"
	"strings"
)

// DragMode selects which part of a selected segment MoveSelected drags.
type DragMode int

const (
	DragStart DragMode = iota // drag the start edge
	DragEnd                   // drag the end edge
	DragMove                  // drag the whole segment
)

// untilEnd stands in for "no next segment" when clamping a drag.
const untilEnd = int64(1) << 62

// List holds one pattern's timeline segments, sorted ascending by start tick
// and kept non-overlapping by every mutator. It mirrors the owning pattern's
// PPQN and loop length, and calls back into the pattern through a
// PlaybackSink during playback.
//
// All state lives in plain slices indexed by position; there are no interior
// pointers to invalidate when the list is resorted mid-edit.
type List struct {
	triggers []Trigger
	sink     PlaybackSink
	ppqn     int64
	length   int64 // owning pattern's loop length in ticks
	selected int   // count of selected segments

	clipboard     Trigger
	haveClipboard bool

	undo [][]Trigger
	redo [][]Trigger

	drawIndex int
}

// New creates an empty list bound to sink, mirroring the pattern's PPQN and
// loop length. sink may be nil if PlayWindow is never called.
func New(sink PlaybackSink, ppqn, length int64) *List {
	return &List{
		sink:   sink,
		ppqn:   ppqn,
		length: length,
	}
}

// Triggers returns the underlying segment slice, sorted by start tick.
// Read-only for callers; it is reused across mutations.
func (l *List) Triggers() []Trigger {
	return l.triggers
}

// Count returns the number of segments.
func (l *List) Count() int {
	return len(l.triggers)
}

// SelectedCount returns the number of currently selected segments.
func (l *List) SelectedCount() int {
	return l.selected
}

// PPQN returns the mirrored timing resolution.
func (l *List) PPQN() int64 {
	return l.ppqn
}

// SetPPQN records the owning pattern's new timing resolution.
func (l *List) SetPPQN(ppqn int64) {
	l.ppqn = ppqn
}

// Length returns the mirrored pattern loop length in ticks.
func (l *List) Length() int64 {
	return l.length
}

// SetLength records the owning pattern's new loop length, remapping every
// segment offset so looped content stays phase-aligned across the resize.
func (l *List) SetLength(length int64) {
	if length > 0 && l.length > 0 && length != l.length {
		l.AdjustOffsetsToLength(length)
	}
	l.length = length
}

// AdjustOffsetsToLength remaps every offset from the current loop length to
// newLength, keeping each segment's local phase at its start tick.
func (l *List) AdjustOffsetsToLength(newLength int64) {
	if l.length <= 0 || newLength <= 0 {
		return
	}
	for i := range l.triggers {
		t := &l.triggers[i]
		off := l.length - l.fixOffset(t.Offset)
		local := (l.length - t.Start%l.length - off) % l.length
		newOff := (newLength - t.Start%newLength - local) % newLength
		if newOff < 0 {
			newOff += newLength
		}
		t.Offset = newOff
	}
}

// Clear removes every segment and resets the selection count. The clipboard
// and undo history survive.
func (l *List) Clear() {
	l.triggers = nil
	l.selected = 0
	l.drawIndex = 0
}

// MaxTick returns the end tick of the last segment, 0 for an empty list.
// Callers use it to bound scrolling and the song length.
func (l *List) MaxTick() int64 {
	if len(l.triggers) == 0 {
		return 0
	}
	return l.triggers[len(l.triggers)-1].End
}

// fixOffset normalizes an offset into [0, length).
func (l *List) fixOffset(offset int64) int64 {
	if l.length <= 0 {
		return offset
	}
	offset %= l.length
	if offset < 0 {
		offset += l.length
	}
	return offset
}

func (l *List) sort() {
	sort.Slice(l.triggers, func(i, j int) bool {
		return l.triggers[i].Start < l.triggers[j].Start
	})
}

// Add inserts the segment [tick, tick+length-1] with the given offset,
// normalized into the loop when fixOffset is set. The new segment always wins
// overlap conflicts: existing segments fully inside the new range are
// deleted, and partial overlaps are cropped back to tick-1 or forward to
// tick+length. A cropped segment never survives as two pieces.
//
// length <= 0 silently produces an inverted segment; callers own validation.
func (l *List) Add(tick, length, offset int64, fixOffset bool) {
	if fixOffset {
		offset = l.fixOffset(offset)
	}
	add := Trigger{Start: tick, End: tick + length - 1, Offset: offset}

	out := make([]Trigger, 0, len(l.triggers)+1)
	for _, t := range l.triggers {
		switch {
		case t.Start >= add.Start && t.End <= add.End:
			if t.Selected {
				l.selected--
			}
			continue
		case t.Start < add.Start && t.End >= add.Start:
			t.End = add.Start - 1
		case t.Start >= add.Start && t.Start <= add.End:
			t.Start = add.End + 1
		}
		out = append(out, t)
	}
	l.triggers = append(out, add)
	l.sort()
}

// Split bisects the segment bracketing tick at that segment's own midpoint.
// The split point is the midpoint regardless of where tick falls inside the
// segment. Returns false if no segment contains tick.
func (l *List) Split(tick int64) bool {
	for i := range l.triggers {
		if l.triggers[i].Contains(tick) {
			l.splitAt(i, l.triggers[i].Start+l.triggers[i].Length()/2)
			return true
		}
	}
	return false
}

// splitAt truncates the segment at index i to end just before splitTick and,
// when the remainder spans more than one tick, re-adds it as a trailing
// segment with the same offset.
func (l *List) splitAt(i int, splitTick int64) {
	origEnd := l.triggers[i].End
	l.triggers[i].End = splitTick - 1
	if origEnd-splitTick+1 > 1 {
		l.triggers = append(l.triggers, Trigger{
			Start:  splitTick,
			End:    origEnd,
			Offset: l.triggers[i].Offset,
		})
		l.sort()
	}
}

// Grow widens the segment bracketing tickFrom to cover at least
// [min(start, tickTo), max(end, tickTo+length-1)], re-inserting through Add
// with the original offset so anything newly overlapped gets cropped away.
// Returns false if no segment contains tickFrom.
func (l *List) Grow(tickFrom, tickTo, length int64) bool {
	for _, t := range l.triggers {
		if t.Contains(tickFrom) {
			start, end := t.Start, t.End
			if tickTo < start {
				start = tickTo
			}
			if tickTo+length-1 > end {
				end = tickTo + length - 1
			}
			l.Add(start, end-start+1, t.Offset, false)
			return true
		}
	}
	return false
}

// Move shifts the timeline at startTick by distance ticks. Forward moves
// shift every segment starting at or after startTick and advance offsets by
// distance mod length. Backward moves delete segments inside the vacated
// window [startTick, startTick+distance-1], pull everything at or after
// startTick+distance back, and advance offsets by the complement
// length - distance mod length; forward and backward phase corrections must
// stay complementary so the two directions invert each other.
// Segments straddling the move boundary are split first so only whole
// segments move.
func (l *List) Move(startTick, distance int64, forward bool) {
	endTick := startTick + distance

	boundary := startTick
	if !forward {
		boundary = endTick
	}
	for i := range l.triggers {
		if l.triggers[i].Start < boundary && l.triggers[i].End >= boundary {
			l.splitAt(i, boundary)
			break
		}
	}

	if forward {
		for i := range l.triggers {
			if l.triggers[i].Start >= startTick {
				l.triggers[i].Shift(distance)
				l.triggers[i].Offset = l.fixOffset(l.triggers[i].Offset + distance)
			}
		}
	} else {
		var back int64
		if l.length > 0 {
			back = l.length - distance%l.length
		}
		out := l.triggers[:0]
		for _, t := range l.triggers {
			if t.Start >= startTick && t.End < endTick {
				if t.Selected {
					l.selected--
				}
				continue
			}
			if t.Start >= endTick {
				t.Shift(-distance)
				t.Offset = l.fixOffset(t.Offset + back)
			}
			out = append(out, t)
		}
		l.triggers = out
	}
	l.sort()
}

// MoveSelected drags the first selected segment to tick: its start edge, end
// edge, or whole body depending on which. The drag is clamped strictly
// between the previous segment's end and the next segment's start, and edges
// keep at least PPQN/8 ticks of width. Returns false when nothing is
// selected.
func (l *List) MoveSelected(tick int64, fixOffset bool, which DragMode) bool {
	i := l.firstSelected()
	if i < 0 {
		return false
	}

	minTick, maxTick := int64(0), int64(untilEnd)
	if i > 0 {
		minTick = l.triggers[i-1].End + 1
	}
	if i+1 < len(l.triggers) {
		maxTick = l.triggers[i+1].Start - 1
	}
	minWidth := l.ppqn / 8

	t := &l.triggers[i]
	switch which {
	case DragMove:
		d := tick - t.Start
		if t.Start+d < minTick {
			d = minTick - t.Start
		}
		if t.End+d > maxTick {
			d = maxTick - t.End
		}
		t.Shift(d)
		if fixOffset {
			t.Offset = l.fixOffset(t.Offset + d)
		}
	case DragStart:
		if tick < minTick {
			tick = minTick
		}
		if tick > t.End-minWidth {
			tick = t.End - minWidth
		}
		d := tick - t.Start
		t.Start = tick
		if fixOffset {
			t.Offset = l.fixOffset(t.Offset + d)
		}
	case DragEnd:
		tick--
		if tick > maxTick {
			tick = maxTick
		}
		if tick < t.Start+minWidth {
			tick = t.Start + minWidth
		}
		t.End = tick
	}
	return true
}

// CopyRange duplicates the window [startTick, startTick+distance-1] forward
// by distance: the existing segments are moved forward to open the gap, then
// copied back into the original window with their pre-move positions, ends
// clipped at the window boundary. Each copy's offset is rolled back by the
// backward complement so it carries the phase its original had before the
// move, not the moved segment's.
func (l *List) CopyRange(startTick, distance int64) {
	l.Move(startTick, distance, true)

	var back int64
	if l.length > 0 {
		back = l.length - distance%l.length
	}
	windowEnd := startTick + distance - 1
	var copies []Trigger
	for _, t := range l.triggers {
		if t.Start >= startTick+distance && t.Start <= startTick+2*distance-1 {
			c := Trigger{
				Start:  t.Start - distance,
				End:    t.End - distance,
				Offset: l.fixOffset(t.Offset + back),
			}
			if c.End > windowEnd {
				c.End = windowEnd
			}
			copies = append(copies, c)
		}
	}
	if len(copies) > 0 {
		l.triggers = append(l.triggers, copies...)
		l.sort()
	}
}

// Select marks the segment containing tick as selected. Returns false when
// tick falls outside every segment.
func (l *List) Select(tick int64) bool {
	for i := range l.triggers {
		if l.triggers[i].Contains(tick) {
			if !l.triggers[i].Selected {
				l.triggers[i].Selected = true
				l.selected++
			}
			return true
		}
	}
	return false
}

// Unselect clears every selection.
func (l *List) Unselect() {
	for i := range l.triggers {
		l.triggers[i].Selected = false
	}
	l.selected = 0
}

// firstSelected returns the index of the first selected segment, -1 if none.
func (l *List) firstSelected() int {
	for i := range l.triggers {
		if l.triggers[i].Selected {
			return i
		}
	}
	return -1
}

// RemoveSelected deletes the first selected segment only, not all of them.
func (l *List) RemoveSelected() bool {
	i := l.firstSelected()
	if i < 0 {
		return false
	}
	l.triggers = append(l.triggers[:i], l.triggers[i+1:]...)
	l.selected--
	return true
}

// CopySelected captures the first selected segment into the clipboard.
func (l *List) CopySelected() bool {
	i := l.firstSelected()
	if i < 0 {
		return false
	}
	l.clipboard = l.triggers[i]
	l.clipboard.Selected = false
	l.haveClipboard = true
	return true
}

// Paste appends a copy of the clipboard segment immediately after the
// clipboard's end, then advances the clipboard to the pasted copy so
// repeated pastes march forward through the timeline.
func (l *List) Paste() {
	if !l.haveClipboard {
		return
	}
	c := l.clipboard
	length := c.End - c.Start + 1
	l.Add(c.End+1, length, c.Offset, true)
	l.clipboard = Trigger{Start: c.End + 1, End: c.End + length, Offset: c.Offset}
}

// GetState reports whether the pattern is triggered at tick.
func (l *List) GetState(tick int64) bool {
	for _, t := range l.triggers {
		if t.Contains(tick) {
			return true
		}
	}
	return false
}

// Intersect returns the bounds of the segment containing position, or
// (-1, -1, false) when position falls in a gap.
func (l *List) Intersect(position int64) (start, end int64, ok bool) {
	for _, t := range l.triggers {
		if t.Contains(position) {
			return t.Start, t.End, true
		}
	}
	return -1, -1, false
}

// ResetDraw rewinds the draw cursor used for incremental iteration. The
// cursor is instance state; concurrent traversal from two callers is unsafe
// under the single-writer discipline.
func (l *List) ResetDraw() {
	l.drawIndex = 0
}

// NextDraw returns the next segment in start order, advancing the draw
// cursor. ok is false once the list is exhausted.
func (l *List) NextDraw() (t Trigger, ok bool) {
	if l.drawIndex >= len(l.triggers) {
		return Trigger{}, false
	}
	t = l.triggers[l.drawIndex]
	l.drawIndex++
	return t, true
}

// String renders the segment list for diagnostics.
func (l *List) String() string {
	var b strings.Builder
	for i, t := range l.triggers {
		sel := " "
		if t.Selected {
			sel = "*"
		}
		fmt.Fprintf(&b, "%s[%d] %d..%d off=%d\n", sel, i, t.Start, t.End, t.Offset)
	}
	return b.String()
}

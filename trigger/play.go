package trigger

// PlaybackSink is the engine's narrow view of the owning pattern during
// playback. PlayWindow reports play/pause transitions and the current
// loop-phase offset through it, which keeps the state machine testable
// without a real pattern behind it.
type PlaybackSink interface {
	// Playing reports whether the pattern is currently sounding.
	Playing() bool
	// SetPlaying flips the pattern's play state.
	SetPlaying(on bool)
	// LastTick is the last tick the owner already processed; PlayWindow
	// clamps a turn-on forward to it so paused ticks are not replayed.
	LastTick() int64
	// SetTriggerOffset reports the loop-phase offset content lookups must
	// use for the current slice.
	SetTriggerOffset(offset int64)
}

// PlayWindow decides whether the pattern should be sounding across the slice
// [start, end], both inclusive. It scans segments in start order: each
// segment start at or before end turns the would-be state on, each segment
// end at or before end turns it off again, and later boundaries in the
// window overwrite earlier ones. When the resolved state differs from the
// sink's, the transition is pushed through the sink; a turn-off additionally
// cuts the slice short at the segment boundary.
//
// The possibly adjusted bounds are returned along with stop, which is true
// only for a turn-off: the caller must not process the slice past the
// returned end.
func (l *List) PlayWindow(start, end int64) (int64, int64, bool) {
	var (
		wouldBeOn   bool
		phaseTick   int64
		phaseOffset int64
	)
	for _, t := range l.triggers {
		if t.Start <= end {
			wouldBeOn = true
			phaseTick = t.Start
			phaseOffset = t.Offset
		}
		if t.End <= end {
			wouldBeOn = false
			phaseTick = t.End
			phaseOffset = t.Offset
		}
		// Sorted list: nothing later can land in the window either.
		if t.Start > end || t.End > end {
			break
		}
	}

	stop := false
	if wouldBeOn != l.sink.Playing() {
		if wouldBeOn {
			if phaseTick < l.sink.LastTick() {
				start = l.sink.LastTick()
			}
			l.sink.SetPlaying(true)
		} else {
			end = phaseTick
			l.sink.SetPlaying(false)
			stop = true
		}
	}

	// Safety net for a song emptied while sounding.
	if len(l.triggers) == 0 && l.sink.Playing() {
		l.sink.SetPlaying(false)
	}

	// Content lookups need the phase even when the state did not change.
	l.sink.SetTriggerOffset(phaseOffset)
	return start, end, stop
}

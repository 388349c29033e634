package sequencer

import (
	"sort"

	"go-songseq/midi"
)

// Song is the arrangement: NumTracks patterns, each with its own timeline
// trigger list, played against one shared clock.
type Song struct {
	Name     string
	Patterns [NumTracks]*Pattern
}

// NewSong creates a song with an empty pattern on every track, one MIDI
// channel per track.
func NewSong(name string) *Song {
	s := &Song{Name: name}
	for i := range s.Patterns {
		s.Patterns[i] = NewPattern(trackName(i), uint8(i+1), 4)
	}
	return s
}

func trackName(i int) string {
	return "Track " + string(rune('1'+i))
}

// MaxTick returns the song length: the latest segment end over all tracks.
func (s *Song) MaxTick() int64 {
	var max int64
	for _, p := range s.Patterns {
		if p == nil {
			continue
		}
		if end := p.MaxTick(); end > max {
			max = end
		}
	}
	return max
}

// PlaySlice runs one playback window over every track and returns the
// resulting events in tick order.
func (s *Song) PlaySlice(start, end int64) []midi.Event {
	var events []midi.Event
	for _, p := range s.Patterns {
		if p == nil {
			continue
		}
		events = append(events, p.PlaySlice(start, end)...)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Tick < events[j].Tick
	})
	return events
}

// ResetPlayback rewinds every track to tick 0.
func (s *Song) ResetPlayback() {
	for _, p := range s.Patterns {
		if p != nil {
			p.ResetPlayback()
		}
	}
}

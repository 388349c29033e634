package sequencer

import "time"

// NumTracks is the number of pattern slots in a song.
const NumTracks = 8

// DefaultPPQN is the timing resolution of new patterns, in ticks per quarter
// note.
const DefaultPPQN = 192

// S is the global transport state singleton
var S *Transport

func init() {
	S = NewTransport()
}

// Transport is the single source of truth for the playback clock
type Transport struct {
	Tempo   int       `json:"tempo"`
	Playing bool      `json:"-"`
	T0      time.Time `json:"-"` // wall-clock instant of tick 0
	Tick    int64     `json:"-"` // last tick published to the UI
}

// NewTransport creates a transport with defaults
func NewTransport() *Transport {
	return &Transport{Tempo: 120}
}

// TimeToTick converts a wall-clock instant to a song tick at the current
// tempo.
func (t *Transport) TimeToTick(at time.Time) int64 {
	ticksPerSecond := float64(t.Tempo) * DefaultPPQN / 60.0
	return int64(at.Sub(t.T0).Seconds() * ticksPerSecond)
}

// TickToTime converts a song tick back to a wall-clock instant.
func (t *Transport) TickToTime(tick int64) time.Time {
	ticksPerSecond := float64(t.Tempo) * DefaultPPQN / 60.0
	return t.T0.Add(time.Duration(float64(tick) / ticksPerSecond * float64(time.Second)))
}

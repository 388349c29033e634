package midi

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// Event is one timestamped MIDI event produced by the sequencer.
type Event struct {
	Tick     int64 // song tick the event falls on
	Type     uint8 // NoteOn, NoteOff
	Channel  uint8 // MIDI channel (1-16)
	Note     uint8
	Velocity uint8
}

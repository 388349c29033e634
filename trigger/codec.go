package trigger

import (
	"encoding/binary"
	"fmt"
)

// TripleSize is the serialized size of one segment: three consecutive
// big-endian 32-bit integers (start, end, offset). This triple is the only
// externally persisted representation of a segment and must round-trip
// exactly.
const TripleSize = 12

// MarshalBinary serializes the segment list as TripleSize bytes per segment
// in start order. Offsets are written as-is: writers normalize them into
// [0, length) beforehand because the reader does not re-validate.
func (l *List) MarshalBinary() ([]byte, error) {
	buf := make([]byte, len(l.triggers)*TripleSize)
	for i, t := range l.triggers {
		b := buf[i*TripleSize:]
		binary.BigEndian.PutUint32(b[0:4], uint32(t.Start))
		binary.BigEndian.PutUint32(b[4:8], uint32(t.End))
		binary.BigEndian.PutUint32(b[8:12], uint32(t.Offset))
	}
	return buf, nil
}

// UnmarshalBinary replaces the list contents with the segments decoded from
// data. Selection state and the draw cursor reset; undo history is kept.
func (l *List) UnmarshalBinary(data []byte) error {
	if len(data)%TripleSize != 0 {
		return fmt.Errorf("trigger block is %d bytes, not a multiple of %d", len(data), TripleSize)
	}
	ts := make([]Trigger, 0, len(data)/TripleSize)
	for i := 0; i < len(data); i += TripleSize {
		ts = append(ts, Trigger{
			Start:  int64(binary.BigEndian.Uint32(data[i : i+4])),
			End:    int64(binary.BigEndian.Uint32(data[i+4 : i+8])),
			Offset: int64(binary.BigEndian.Uint32(data[i+8 : i+12])),
		})
	}
	l.triggers = ts
	l.selected = 0
	l.drawIndex = 0
	return nil
}

package trigger

import (
	"encoding/binary"
	"reflect"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	l := New(nil, 192, 768)
	l.Add(0, 192, 0, true)
	l.Add(384, 192, 96, true)
	l.Add(960, 768, 700, true)
	want := snapshot(l.Triggers())

	data, err := l.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(data) != 3*TripleSize {
		t.Fatalf("block size = %d, want %d", len(data), 3*TripleSize)
	}

	out := New(nil, 192, 768)
	if err := out.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if !reflect.DeepEqual(out.Triggers(), want) {
		t.Fatalf("round trip got %v, want %v", out.Triggers(), want)
	}
}

func TestCodecLayout(t *testing.T) {
	l := New(nil, 192, 768)
	l.Add(0x01020304, 4, 7, false)

	data, err := l.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if got := binary.BigEndian.Uint32(data[0:4]); got != 0x01020304 {
		t.Fatalf("start bytes = %#x, want big-endian 0x01020304", got)
	}
	if got := binary.BigEndian.Uint32(data[4:8]); got != 0x01020307 {
		t.Fatalf("end bytes = %#x, want 0x01020307", got)
	}
	if got := binary.BigEndian.Uint32(data[8:12]); got != 7 {
		t.Fatalf("offset bytes = %d, want 7", got)
	}
}

func TestCodecEmptyList(t *testing.T) {
	l := New(nil, 192, 768)
	data, err := l.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("empty list encoded to %d bytes, want 0", len(data))
	}
	if err := l.UnmarshalBinary(nil); err != nil {
		t.Fatalf("UnmarshalBinary(nil): %v", err)
	}
}

func TestCodecTruncatedBlock(t *testing.T) {
	l := New(nil, 192, 768)
	if err := l.UnmarshalBinary(make([]byte, TripleSize+1)); err == nil {
		t.Fatal("truncated block did not error")
	}
}

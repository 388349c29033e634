package trigger

import (
	"reflect"
	"testing"
)

// newList returns a list for a 4-beat pattern at 192 PPQN.
func newList() *List {
	return New(nil, 192, 768)
}

// bounds flattens the list to (start, end) pairs for comparison.
func bounds(l *List) [][2]int64 {
	var out [][2]int64
	for _, t := range l.Triggers() {
		out = append(out, [2]int64{t.Start, t.End})
	}
	return out
}

// checkInvariant fails the test if the list is unsorted or overlapping.
func checkInvariant(t *testing.T, l *List) {
	t.Helper()
	ts := l.Triggers()
	for i := 0; i+1 < len(ts); i++ {
		if ts[i].Start > ts[i+1].Start {
			t.Fatalf("list unsorted at %d: %d > %d", i, ts[i].Start, ts[i+1].Start)
		}
		if ts[i].End >= ts[i+1].Start {
			t.Fatalf("segments %d and %d overlap: end %d >= start %d", i, i+1, ts[i].End, ts[i+1].Start)
		}
	}
}

func TestAddKeepsSortedNonOverlapping(t *testing.T) {
	l := newList()
	l.Add(400, 100, 0, true)
	l.Add(0, 100, 0, true)
	l.Add(200, 100, 0, true)
	checkInvariant(t, l)

	want := [][2]int64{{0, 99}, {200, 299}, {400, 499}}
	if got := bounds(l); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// Partial overlap: the new segment pushes the existing start forward.
	l.Add(150, 100, 0, true)
	checkInvariant(t, l)
	want = [][2]int64{{0, 99}, {150, 249}, {250, 299}, {400, 499}}
	if got := bounds(l); !reflect.DeepEqual(got, want) {
		t.Fatalf("after overlap add: got %v, want %v", got, want)
	}
}

func TestAddIdempotent(t *testing.T) {
	l := newList()
	l.Add(100, 100, 25, true)
	l.Add(100, 100, 25, true)

	if l.Count() != 1 {
		t.Fatalf("got %d segments, want 1", l.Count())
	}
	tr := l.Triggers()[0]
	if tr.Start != 100 || tr.End != 199 || tr.Offset != 25 {
		t.Fatalf("got %+v, want start=100 end=199 offset=25", tr)
	}
}

func TestAddCropsExistingEnd(t *testing.T) {
	l := newList()
	l.Add(0, 200, 0, true)
	l.Add(100, 100, 0, true)
	checkInvariant(t, l)

	want := [][2]int64{{0, 99}, {100, 199}}
	if got := bounds(l); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAddNeverSplitsEnclosingSegment(t *testing.T) {
	// An existing segment enclosing the new one loses its right piece
	// entirely; it is cropped, never split into two survivors.
	l := newList()
	l.Add(0, 300, 0, true)
	l.Add(100, 50, 0, true)
	checkInvariant(t, l)

	want := [][2]int64{{0, 99}, {100, 149}}
	if got := bounds(l); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAddDeletesContainedSegments(t *testing.T) {
	l := newList()
	l.Add(100, 50, 0, true)
	l.Add(200, 50, 0, true)
	l.Add(0, 400, 0, true)
	checkInvariant(t, l)

	want := [][2]int64{{0, 399}}
	if got := bounds(l); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAddNormalizesOffset(t *testing.T) {
	l := newList() // length 768
	l.Add(0, 100, 768+5, true)
	if got := l.Triggers()[0].Offset; got != 5 {
		t.Fatalf("offset = %d, want 5", got)
	}
	l.Add(200, 100, -1, true)
	if got := l.Triggers()[1].Offset; got != 767 {
		t.Fatalf("negative offset normalized to %d, want 767", got)
	}
}

func TestSplitBisectsAtMidpoint(t *testing.T) {
	l := newList()
	l.Add(0, 400, 30, true)

	// The split point is the segment midpoint, not the passed tick.
	if !l.Split(10) {
		t.Fatal("Split returned false inside a segment")
	}
	checkInvariant(t, l)

	want := [][2]int64{{0, 199}, {200, 399}}
	if got := bounds(l); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	a, b := l.Triggers()[0], l.Triggers()[1]
	if a.Length()+b.Length() != 400 {
		t.Fatalf("lengths %d+%d do not sum to 400", a.Length(), b.Length())
	}
	if a.Offset != 30 || b.Offset != 30 {
		t.Fatalf("offsets %d, %d changed across split, want 30", a.Offset, b.Offset)
	}
}

func TestSplitOutsideAnySegment(t *testing.T) {
	l := newList()
	l.Add(100, 100, 0, true)
	if l.Split(500) {
		t.Fatal("Split returned true for a tick in a gap")
	}
	if l.Count() != 1 {
		t.Fatalf("got %d segments, want 1", l.Count())
	}
}

func TestGrowAbsorbsOverlapped(t *testing.T) {
	l := newList()
	l.Add(0, 100, 40, true)
	l.Add(200, 100, 0, true)
	l.Add(400, 100, 0, true)

	if !l.Grow(50, 450, 50) {
		t.Fatal("Grow returned false inside a segment")
	}
	checkInvariant(t, l)

	want := [][2]int64{{0, 499}}
	if got := bounds(l); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := l.Triggers()[0].Offset; got != 40 {
		t.Fatalf("grown segment offset = %d, want original 40", got)
	}
}

func TestMoveForward(t *testing.T) {
	l := New(nil, 192, 100)
	l.Add(0, 100, 0, true)
	l.Add(200, 100, 0, true)

	l.Move(200, 250, true)
	checkInvariant(t, l)

	want := [][2]int64{{0, 99}, {450, 549}}
	if got := bounds(l); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := l.Triggers()[1].Offset; got != 50 {
		t.Fatalf("moved offset = %d, want (0+250) mod 100 = 50", got)
	}
}

func TestMoveBackwardDeletesVacatedWindow(t *testing.T) {
	l := New(nil, 192, 100)
	l.Add(0, 100, 0, true)
	l.Add(100, 100, 0, true)
	l.Add(300, 100, 0, true)

	l.Move(100, 200, false)
	checkInvariant(t, l)

	want := [][2]int64{{0, 99}, {100, 199}}
	if got := bounds(l); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMoveSplitsStraddlingSegment(t *testing.T) {
	l := newList()
	l.Add(0, 300, 0, true)

	l.Move(100, 50, true)
	checkInvariant(t, l)

	want := [][2]int64{{0, 99}, {150, 349}}
	if got := bounds(l); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMoveRoundTripRestoresOffsets(t *testing.T) {
	// Forward then backward with matching parameters must restore every
	// offset modulo the pattern length, including distance > length.
	for _, d := range []int64{30, 100, 250} {
		l := New(nil, 192, 100)
		l.Add(100, 100, 30, true)
		l.Add(250, 50, 70, true)

		l.Move(100, d, true)
		l.Move(100, d, false)
		checkInvariant(t, l)

		want := [][2]int64{{100, 199}, {250, 299}}
		if got := bounds(l); !reflect.DeepEqual(got, want) {
			t.Fatalf("d=%d: got %v, want %v", d, got, want)
		}
		if got := l.Triggers()[0].Offset; got != 30 {
			t.Fatalf("d=%d: offset = %d, want 30", d, got)
		}
		if got := l.Triggers()[1].Offset; got != 70 {
			t.Fatalf("d=%d: offset = %d, want 70", d, got)
		}
	}
}

func TestMoveSelected(t *testing.T) {
	l := newList() // PPQN 192, min width 24
	l.Add(0, 100, 0, true)
	l.Add(200, 100, 0, true)
	l.Add(400, 100, 0, true)
	if !l.Select(250) {
		t.Fatal("Select failed")
	}

	// Whole-body move lands where asked while the neighbors allow it.
	if !l.MoveSelected(120, false, DragMove) {
		t.Fatal("MoveSelected returned false with a selection")
	}
	want := [][2]int64{{0, 99}, {120, 219}, {400, 499}}
	if got := bounds(l); !reflect.DeepEqual(got, want) {
		t.Fatalf("move: got %v, want %v", got, want)
	}

	// Start edge clamps to the previous segment's end + 1.
	l.MoveSelected(50, false, DragStart)
	if got := l.Triggers()[1].Start; got != 100 {
		t.Fatalf("start clamped to %d, want 100", got)
	}

	// End edge clamps to the next segment's start - 1.
	l.MoveSelected(1000, false, DragEnd)
	if got := l.Triggers()[1].End; got != 399 {
		t.Fatalf("end clamped to %d, want 399", got)
	}

	// The minimum width guard (PPQN/8) keeps the segment from collapsing.
	l.MoveSelected(399, false, DragStart)
	if got := l.Triggers()[1].Start; got != 399-24 {
		t.Fatalf("start = %d, want %d (min width 24)", got, 399-24)
	}
}

func TestMoveSelectedNothingSelected(t *testing.T) {
	l := newList()
	l.Add(0, 100, 0, true)
	if l.MoveSelected(50, false, DragMove) {
		t.Fatal("MoveSelected returned true with no selection")
	}
}

func TestCopyRangeDuplicatesForward(t *testing.T) {
	l := New(nil, 192, 100)
	l.Add(0, 100, 0, true)
	l.Add(100, 100, 10, true)

	l.CopyRange(0, 200)
	checkInvariant(t, l)

	want := [][2]int64{{0, 99}, {100, 199}, {200, 299}, {300, 399}}
	if got := bounds(l); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	// Copies in the original window carry the original phases.
	if got := l.Triggers()[0].Offset; got != 0 {
		t.Fatalf("first copy offset = %d, want 0", got)
	}
	if got := l.Triggers()[1].Offset; got != 10 {
		t.Fatalf("second copy offset = %d, want 10", got)
	}
}

func TestCopyRangeCopyKeepsOriginalPhase(t *testing.T) {
	// distance not a multiple of the loop length: the moved original's offset
	// advances by the forward rule, but the copy placed back at the original
	// position must carry the pre-move offset.
	l := New(nil, 192, 100)
	l.Add(0, 30, 5, true)

	l.CopyRange(0, 30)
	checkInvariant(t, l)

	want := [][2]int64{{0, 29}, {30, 59}}
	if got := bounds(l); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := l.Triggers()[0].Offset; got != 5 {
		t.Fatalf("copy offset = %d, want original 5", got)
	}
	if got := l.Triggers()[1].Offset; got != 35 {
		t.Fatalf("moved offset = %d, want (5+30) mod 100 = 35", got)
	}
}

func TestCopyRangeClipsAtWindowBoundary(t *testing.T) {
	l := New(nil, 192, 100)
	l.Add(150, 101, 0, true) // runs past the copy window

	l.CopyRange(100, 100)
	checkInvariant(t, l)

	want := [][2]int64{{150, 199}, {250, 350}}
	if got := bounds(l); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSelectionCounting(t *testing.T) {
	l := newList()
	l.Add(0, 100, 0, true)
	l.Add(200, 100, 0, true)

	if !l.Select(50) {
		t.Fatal("Select inside a segment returned false")
	}
	if got := l.SelectedCount(); got != 1 {
		t.Fatalf("selected count = %d, want 1", got)
	}
	// Selecting the same segment again does not double-count.
	l.Select(60)
	if got := l.SelectedCount(); got != 1 {
		t.Fatalf("selected count after reselect = %d, want 1", got)
	}
	if l.Select(150) {
		t.Fatal("Select in a gap returned true")
	}

	l.Select(250)
	if got := l.SelectedCount(); got != 2 {
		t.Fatalf("selected count = %d, want 2", got)
	}

	l.Unselect()
	if got := l.SelectedCount(); got != 0 {
		t.Fatalf("selected count after Unselect = %d, want 0", got)
	}
}

func TestRemoveSelectedFirstOnly(t *testing.T) {
	l := newList()
	l.Add(0, 100, 0, true)
	l.Add(200, 100, 0, true)
	l.Select(50)
	l.Select(250)

	if !l.RemoveSelected() {
		t.Fatal("RemoveSelected returned false with selections")
	}
	// Only the first selected segment goes; the second stays selected.
	want := [][2]int64{{200, 299}}
	if got := bounds(l); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := l.SelectedCount(); got != 1 {
		t.Fatalf("selected count = %d, want 1", got)
	}
	if !l.Triggers()[0].Selected {
		t.Fatal("remaining segment lost its selection")
	}
}

func TestRemoveSelectedEmpty(t *testing.T) {
	l := newList()
	if l.RemoveSelected() {
		t.Fatal("RemoveSelected returned true on an empty list")
	}
}

func TestPasteMarchesForward(t *testing.T) {
	l := New(nil, 192, 100)
	l.Add(100, 100, 5, true)
	l.Select(150)

	if !l.CopySelected() {
		t.Fatal("CopySelected returned false with a selection")
	}
	l.Paste()
	l.Paste()
	checkInvariant(t, l)

	want := [][2]int64{{100, 199}, {200, 299}, {300, 399}}
	if got := bounds(l); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, tr := range l.Triggers() {
		if tr.Offset != 5 {
			t.Fatalf("segment %d offset = %d, want 5", i, tr.Offset)
		}
	}
}

func TestPasteWithoutClipboard(t *testing.T) {
	l := newList()
	l.Paste()
	if l.Count() != 0 {
		t.Fatalf("got %d segments, want 0", l.Count())
	}
}

func TestGetStateAndIntersect(t *testing.T) {
	l := newList()
	l.Add(100, 100, 0, true)

	if !l.GetState(100) || !l.GetState(199) {
		t.Fatal("GetState false inside segment bounds")
	}
	if l.GetState(99) || l.GetState(200) {
		t.Fatal("GetState true just outside segment bounds")
	}

	start, end, ok := l.Intersect(150)
	if !ok || start != 100 || end != 199 {
		t.Fatalf("Intersect(150) = (%d, %d, %v), want (100, 199, true)", start, end, ok)
	}
	start, end, ok = l.Intersect(50)
	if ok || start != -1 || end != -1 {
		t.Fatalf("Intersect(50) = (%d, %d, %v), want (-1, -1, false)", start, end, ok)
	}
}

func TestClearAndMaxTick(t *testing.T) {
	l := newList()
	if got := l.MaxTick(); got != 0 {
		t.Fatalf("empty MaxTick = %d, want 0", got)
	}
	l.Add(0, 100, 0, true)
	l.Add(400, 100, 0, true)
	l.Select(50)

	if got := l.MaxTick(); got != 499 {
		t.Fatalf("MaxTick = %d, want 499", got)
	}

	l.Clear()
	if l.Count() != 0 || l.SelectedCount() != 0 {
		t.Fatalf("Clear left %d segments, %d selected", l.Count(), l.SelectedCount())
	}
}

func TestDrawCursor(t *testing.T) {
	l := newList()
	l.Add(200, 100, 0, true)
	l.Add(0, 100, 0, true)

	l.ResetDraw()
	var starts []int64
	for {
		tr, ok := l.NextDraw()
		if !ok {
			break
		}
		starts = append(starts, tr.Start)
	}
	if !reflect.DeepEqual(starts, []int64{0, 200}) {
		t.Fatalf("draw order %v, want [0 200]", starts)
	}

	l.ResetDraw()
	if tr, ok := l.NextDraw(); !ok || tr.Start != 0 {
		t.Fatalf("after ResetDraw got (%+v, %v), want first segment", tr, ok)
	}
}

func TestSetLengthRemapsOffsets(t *testing.T) {
	l := New(nil, 192, 100)
	l.Add(0, 40, 0, true)
	l.Add(50, 40, 10, true)

	l.SetLength(200)
	if got := l.Length(); got != 200 {
		t.Fatalf("length = %d, want 200", got)
	}
	for i, tr := range l.Triggers() {
		if tr.Offset < 0 || tr.Offset >= 200 {
			t.Fatalf("segment %d offset %d outside [0, 200)", i, tr.Offset)
		}
	}
	// Segment bounds never change on a length remap.
	want := [][2]int64{{0, 39}, {50, 89}}
	if got := bounds(l); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

package trigger

// Whole-list snapshot undo/redo. Both stacks are unbounded on purpose: a
// long editing session trades memory for never losing history.

func snapshot(ts []Trigger) []Trigger {
	out := make([]Trigger, len(ts))
	copy(out, ts)
	return out
}

// PushUndo snapshots the current list onto the undo stack. Mutating entry
// points call it before changing anything.
func (l *List) PushUndo() {
	l.undo = append(l.undo, snapshot(l.triggers))
}

// PopUndo moves the current list onto the redo stack and restores the top
// undo snapshot. No-op when the undo stack is empty.
func (l *List) PopUndo() {
	if len(l.undo) == 0 {
		return
	}
	l.redo = append(l.redo, snapshot(l.triggers))
	l.triggers = l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	l.recountSelected()
}

// PopRedo moves the current list onto the undo stack and restores the top
// redo snapshot. No-op when the redo stack is empty.
func (l *List) PopRedo() {
	if len(l.redo) == 0 {
		return
	}
	l.undo = append(l.undo, snapshot(l.triggers))
	l.triggers = l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	l.recountSelected()
}

// UndoDepth returns the number of undoable snapshots.
func (l *List) UndoDepth() int {
	return len(l.undo)
}

// RedoDepth returns the number of redoable snapshots.
func (l *List) RedoDepth() int {
	return len(l.redo)
}

// recountSelected rebuilds the selection count after a snapshot restore;
// snapshots carry selection flags with them.
func (l *List) recountSelected() {
	n := 0
	for i := range l.triggers {
		if l.triggers[i].Selected {
			n++
		}
	}
	l.selected = n
	if l.drawIndex > len(l.triggers) {
		l.drawIndex = len(l.triggers)
	}
}

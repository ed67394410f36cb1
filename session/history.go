package session

type snapshot struct {
	blocks []Block
	sel    Selection
	stored storedMarks
}

type historyState struct {
	undo []snapshot
	redo []snapshot
}

func (s *Session) snapshot() snapshot {
	return snapshot{
		blocks: cloneBlocks(s.blocks),
		sel:    s.sel,
		stored: s.stored,
	}
}

func (s *Session) restore(snap snapshot) {
	s.blocks = cloneBlocks(snap.blocks)
	s.sel = ClampSelection(snap.sel, docLength(s.blocks))
	s.stored = snap.stored
	s.serialized = nil
}

func (s *Session) recordUndo(prev snapshot) {
	limit := s.opt.HistoryLimit
	if limit <= 0 {
		return
	}

	s.hist.undo = append(s.hist.undo, prev)
	if len(s.hist.undo) > limit {
		s.hist.undo = s.hist.undo[len(s.hist.undo)-limit:]
	}
	s.hist.redo = nil
}

func (s *Session) CanUndo() bool { return len(s.hist.undo) > 0 }

func (s *Session) CanRedo() bool { return len(s.hist.redo) > 0 }

// Undo restores the state before the most recent document change. It
// returns false, changing nothing, when there is nothing to undo.
func (s *Session) Undo() bool {
	if len(s.hist.undo) == 0 {
		return false
	}

	cur := s.snapshot()
	change := s.beginChange(ChangeSourceLocal, CmdUndo)
	change.record = false

	i := len(s.hist.undo) - 1
	prev := s.hist.undo[i]
	s.hist.undo = s.hist.undo[:i]
	s.hist.redo = append(s.hist.redo, cur)

	s.restore(prev)
	s.commitChange(change, true)
	return true
}

// Redo reapplies the most recently undone change.
func (s *Session) Redo() bool {
	if len(s.hist.redo) == 0 {
		return false
	}

	cur := s.snapshot()
	change := s.beginChange(ChangeSourceLocal, CmdRedo)
	change.record = false

	i := len(s.hist.redo) - 1
	next := s.hist.redo[i]
	s.hist.redo = s.hist.redo[:i]

	limit := s.opt.HistoryLimit
	if limit > 0 {
		s.hist.undo = append(s.hist.undo, cur)
		if len(s.hist.undo) > limit {
			s.hist.undo = s.hist.undo[len(s.hist.undo)-limit:]
		}
	}

	s.restore(next)
	s.commitChange(change, true)
	return true
}

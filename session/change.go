package session

// ChangeSource identifies where a change originated.
type ChangeSource uint8

const (
	// ChangeSourceLocal is an edit made through the session's own
	// operations.
	ChangeSourceLocal ChangeSource = iota
	// ChangeSourceExternal is a wholesale replacement by Load.
	ChangeSourceExternal
)

// Change describes one committed transaction.
type Change struct {
	SessionID       string
	Source          ChangeSource
	Op              string
	VersionBefore   uint64
	VersionAfter    uint64
	SelectionBefore Selection
	SelectionAfter  Selection
	// DocChanged is false for selection-only and stored-mark changes.
	DocChanged bool
}

type changeBuilder struct {
	source          ChangeSource
	op              string
	versionBefore   uint64
	selectionBefore Selection
	prev            snapshot
	// record pushes prev onto the undo stack on commit. Undo and redo
	// manage the stacks themselves.
	record bool
}

// LastChange returns the most recent committed change.
func (s *Session) LastChange() (Change, bool) {
	if !s.hasLastChange {
		return Change{}, false
	}
	return s.lastChange, true
}

func (s *Session) beginChange(source ChangeSource, op string) changeBuilder {
	return changeBuilder{
		source:          source,
		op:              op,
		versionBefore:   s.version,
		selectionBefore: s.sel,
		prev:            s.snapshot(),
		record:          source == ChangeSourceLocal,
	}
}

// commitChange finishes a transaction. docChanged says whether the blocks
// were modified; selection and stored-mark changes are detected here. A
// transaction that changed nothing commits nothing and reports false.
func (s *Session) commitChange(cb changeBuilder, docChanged bool) bool {
	s.sel = ClampSelection(s.sel, docLength(s.blocks))
	if !docChanged && s.sel == cb.prev.sel && s.stored.equal(cb.prev.stored) {
		return false
	}

	if docChanged && cb.record {
		s.recordUndo(cb.prev)
	}
	s.version++
	if docChanged {
		s.serialized = nil
	}

	s.lastChange = Change{
		SessionID:       s.id,
		Source:          cb.source,
		Op:              cb.op,
		VersionBefore:   cb.versionBefore,
		VersionAfter:    s.version,
		SelectionBefore: cb.selectionBefore,
		SelectionAfter:  s.sel,
		DocChanged:      docChanged,
	}
	s.hasLastChange = true

	if docChanged {
		s.log.Debug("session change", "session", s.id, "op", cb.op, "version", s.version)
	}
	if s.opt.OnChange != nil {
		s.opt.OnChange(s.lastChange)
	}
	return true
}

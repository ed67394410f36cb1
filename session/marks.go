package session

import "slices"

// MarkActive reports whether the mark is on for the selection: every text
// cell in a range carries it, or, for a caret, typed text would carry it.
func (s *Session) MarkActive(mark string) bool {
	if s.sel.Empty() {
		return slices.Contains(s.typingMarks(), mark)
	}
	all, some := s.rangeHasMark(s.sel.From(), s.sel.To(), mark)
	return some && all
}

// ToggleMark removes the mark when every text cell in the selection already
// carries it and adds it otherwise. With a caret it toggles the stored
// marks for the next typed text. Atoms never carry marks.
func (s *Session) ToggleMark(mark string) bool {
	if _, ok := s.reg.Mark(mark); !ok {
		return false
	}
	change := s.beginChange(ChangeSourceLocal, "toggle-"+mark)

	if s.sel.Empty() {
		cur := s.typingMarks()
		var next []string
		if slices.Contains(cur, mark) {
			next = slices.DeleteFunc(slices.Clone(cur), func(m string) bool { return m == mark })
		} else {
			next = s.reg.SortMarks(append(slices.Clone(cur), mark))
		}
		s.stored = storedMarks{set: true, marks: next}
		return s.commitChange(change, false)
	}

	from, to := s.sel.From(), s.sel.To()
	all, some := s.rangeHasMark(from, to, mark)
	if !some && !s.rangeHasText(from, to) {
		return false
	}
	remove := some && all

	s.eachCell(from, to, func(c *Cell) {
		if c.IsAtom() {
			return
		}
		if remove {
			c.Marks = slices.DeleteFunc(slices.Clone(c.Marks), func(m string) bool { return m == mark })
			if len(c.Marks) == 0 {
				c.Marks = nil
			}
			return
		}
		if !c.HasMark(mark) {
			c.Marks = s.reg.SortMarks(append(slices.Clone(c.Marks), mark))
		}
	})
	return s.commitChange(change, true)
}

func (s *Session) rangeHasMark(from, to int, mark string) (all, some bool) {
	all = true
	s.eachCell(from, to, func(c *Cell) {
		if c.IsAtom() {
			return
		}
		if c.HasMark(mark) {
			some = true
		} else {
			all = false
		}
	})
	return all, some
}

func (s *Session) rangeHasText(from, to int) bool {
	found := false
	s.eachCell(from, to, func(c *Cell) {
		if !c.IsAtom() {
			found = true
		}
	})
	return found
}

// eachCell visits the cells in [from, to) in place.
func (s *Session) eachCell(from, to int, fn func(*Cell)) {
	a, b := locate(s.blocks, from), locate(s.blocks, to)
	for bi := a.block; bi <= b.block; bi++ {
		cells := s.blocks[bi].Cells
		start, end := 0, len(cells)
		if bi == a.block {
			start = a.cell
		}
		if bi == b.block {
			end = b.cell
		}
		for i := start; i < end; i++ {
			fn(&cells[i])
		}
	}
}

// ListActive reports whether every block touched by the selection is a
// list item of kind.
func (s *Session) ListActive(kind ListKind) bool {
	a, b := locate(s.blocks, s.sel.From()), locate(s.blocks, s.sel.To())
	for bi := a.block; bi <= b.block; bi++ {
		if s.blocks[bi].List != kind {
			return false
		}
	}
	return true
}

// ToggleList turns the touched blocks back into paragraphs when all of them
// already are items of kind, and into items of kind otherwise.
func (s *Session) ToggleList(kind ListKind) bool {
	if kind == ListNone {
		return false
	}
	change := s.beginChange(ChangeSourceLocal, "toggle-"+kind.String()+"-list")
	target := kind
	if s.ListActive(kind) {
		target = ListNone
	}
	a, b := locate(s.blocks, s.sel.From()), locate(s.blocks, s.sel.To())
	for bi := a.block; bi <= b.block; bi++ {
		s.blocks[bi].List = target
	}
	return s.commitChange(change, true)
}

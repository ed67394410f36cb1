package session

import "github.com/iw2rmb/mathdoc/internal/grapheme"

type MoveUnit int

const (
	MoveGrapheme MoveUnit = iota
	MoveWord
	MoveBlock
	MoveDoc
)

type MoveDir int

const (
	DirLeft MoveDir = iota
	DirRight
	DirUp
	DirDown
	DirHome // block start (or doc start for MoveDoc)
	DirEnd  // block end (or doc end for MoveDoc)
)

type Move struct {
	Unit   MoveUnit
	Dir    MoveDir
	Extend bool // if true, keeps the anchor; if false collapses the selection
}

// Move moves the cursor. Atoms are stepped over as one unit.
func (s *Session) Move(m Move) bool {
	change := s.beginChange(ChangeSourceLocal, "move")
	prev := s.sel

	var next Selection
	switch {
	case m.Extend:
		next = Selection{Anchor: prev.Anchor, Head: s.moveCursor(prev.Head, m)}
	case !prev.Empty() && m.Unit == MoveGrapheme && m.Dir == DirLeft:
		next = Caret(prev.From())
	case !prev.Empty() && m.Unit == MoveGrapheme && m.Dir == DirRight:
		next = Caret(prev.To())
	default:
		next = Caret(s.moveCursor(prev.Head, m))
	}
	next = ClampSelection(next, s.Length())

	if next == prev {
		return false
	}
	s.sel = next
	s.stored = storedMarks{}
	return s.commitChange(change, false)
}

func (s *Session) moveCursor(pos int, m Move) int {
	switch m.Unit {
	case MoveGrapheme:
		return s.moveGrapheme(pos, m.Dir)
	case MoveWord:
		return s.moveWord(pos, m.Dir)
	case MoveBlock:
		return s.moveBlock(pos, m.Dir)
	case MoveDoc:
		return s.moveDoc(pos, m.Dir)
	default:
		return pos
	}
}

func (s *Session) moveGrapheme(pos int, dir MoveDir) int {
	switch dir {
	case DirLeft:
		return max(pos-1, 0)
	case DirRight:
		return min(pos+1, s.Length())
	case DirUp, DirDown:
		return s.moveBlock(pos, dir)
	case DirHome, DirEnd:
		return s.moveBlock(pos, dir)
	default:
		return pos
	}
}

func (s *Session) moveWord(pos int, dir MoveDir) int {
	l := locate(s.blocks, pos)
	cells := s.blocks[l.block].Cells

	switch dir {
	case DirLeft:
		if l.cell == 0 {
			return max(pos-1, 0)
		}
		return pos - (l.cell - prevWordBoundary(cells, l.cell))
	case DirRight:
		if l.cell == len(cells) {
			return min(pos+1, s.Length())
		}
		return pos + (nextWordBoundary(cells, l.cell) - l.cell)
	default:
		return s.moveBlock(pos, dir)
	}
}

func (s *Session) moveBlock(pos int, dir MoveDir) int {
	l := locate(s.blocks, pos)
	last := len(s.blocks) - 1

	switch dir {
	case DirHome:
		return offsetOf(s.blocks, loc{block: l.block})
	case DirEnd:
		return offsetOf(s.blocks, loc{block: l.block, cell: len(s.blocks[l.block].Cells)})
	case DirUp:
		if l.block == 0 {
			return offsetOf(s.blocks, loc{})
		}
		nb := l.block - 1
		return offsetOf(s.blocks, loc{block: nb, cell: min(l.cell, len(s.blocks[nb].Cells))})
	case DirDown:
		if l.block == last {
			return s.Length()
		}
		nb := l.block + 1
		return offsetOf(s.blocks, loc{block: nb, cell: min(l.cell, len(s.blocks[nb].Cells))})
	default:
		return pos
	}
}

func (s *Session) moveDoc(pos int, dir MoveDir) int {
	switch dir {
	case DirHome, DirUp:
		return 0
	case DirEnd, DirDown:
		return s.Length()
	default:
		return pos
	}
}

// Word boundary rules:
// - skip separators, then skip word cells
// - an atom is a word of its own
// - a block boundary is a hard boundary
func prevWordBoundary(cells []Cell, i int) int {
	for i > 0 && isSeparator(cells[i-1]) {
		i--
	}
	if i > 0 && cells[i-1].IsAtom() {
		return i - 1
	}
	for i > 0 && !isSeparator(cells[i-1]) && !cells[i-1].IsAtom() {
		i--
	}
	return i
}

func nextWordBoundary(cells []Cell, i int) int {
	for i < len(cells) && isSeparator(cells[i]) {
		i++
	}
	if i < len(cells) && cells[i].IsAtom() {
		return i + 1
	}
	for i < len(cells) && !isSeparator(cells[i]) && !cells[i].IsAtom() {
		i++
	}
	return i
}

func isSeparator(c Cell) bool {
	return !c.IsAtom() && grapheme.Classify(c.Text) != grapheme.ClassWord
}

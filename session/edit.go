package session

import (
	"strings"

	"github.com/iw2rmb/mathdoc/internal/grapheme"
	"github.com/iw2rmb/mathdoc/schema"
)

// InsertText inserts text at the cursor, or replaces the selection. A
// newline splits the block. Inserted text never enters an atom: it lands
// in text cells next to it.
func (s *Session) InsertText(text string) bool {
	change := s.beginChange(ChangeSourceLocal, "insert-text")
	changed := s.deleteSelection()
	if text != "" {
		marks := s.typingMarks()
		for i, line := range grapheme.Lines(text) {
			if i > 0 {
				s.splitAtCursor()
			}
			for _, g := range line {
				s.insertCell(Cell{Text: g, Marks: marks})
			}
		}
		s.stored = storedMarks{}
		changed = true
	}
	if !changed {
		return false
	}
	return s.commitChange(change, true)
}

// InsertAtom inserts an atom node at the cursor, replacing the selection.
func (s *Session) InsertAtom(n *schema.Node) bool {
	if n == nil {
		return false
	}
	change := s.beginChange(ChangeSourceLocal, "insert-"+n.Type)
	s.deleteSelection()
	s.insertCell(Cell{Atom: n})
	s.stored = storedMarks{}
	return s.commitChange(change, true)
}

// DeleteBackward applies backspace semantics: delete the selection, the
// unit before the cursor, or at the start of a block lift it out of its
// list or join it with the previous block.
func (s *Session) DeleteBackward() bool {
	change := s.beginChange(ChangeSourceLocal, "delete-backward")
	if s.deleteSelection() {
		return s.commitChange(change, true)
	}

	pos := s.sel.Head
	l := locate(s.blocks, pos)
	switch {
	case l.cell > 0:
		s.deleteRange(pos-1, pos)
	case s.blocks[l.block].List != ListNone:
		s.blocks[l.block].List = ListNone
	case l.block > 0:
		s.deleteRange(pos-1, pos)
	default:
		return false
	}
	return s.commitChange(change, true)
}

// DeleteForward applies delete-key semantics.
func (s *Session) DeleteForward() bool {
	change := s.beginChange(ChangeSourceLocal, "delete-forward")
	if s.deleteSelection() {
		return s.commitChange(change, true)
	}

	pos := s.sel.Head
	if pos >= s.Length() {
		return false
	}
	s.deleteRange(pos, pos+1)
	return s.commitChange(change, true)
}

// SplitBlock applies enter-key semantics. Enter on an empty list item lifts
// it out of the list instead of adding another empty item.
func (s *Session) SplitBlock() bool {
	change := s.beginChange(ChangeSourceLocal, "split-block")
	s.deleteSelection()
	l := locate(s.blocks, s.sel.Head)
	if b := s.blocks[l.block]; b.List != ListNone && len(b.Cells) == 0 {
		s.blocks[l.block].List = ListNone
		return s.commitChange(change, true)
	}
	s.splitAtCursor()
	return s.commitChange(change, true)
}

// DeleteSelection removes the selected range, if any.
func (s *Session) DeleteSelection() bool {
	change := s.beginChange(ChangeSourceLocal, "delete-selection")
	if !s.deleteSelection() {
		return false
	}
	return s.commitChange(change, true)
}

// SelectedText returns the plain text under the selection.
func (s *Session) SelectedText() string {
	if s.sel.Empty() {
		return ""
	}
	var sb strings.Builder
	from, to := locate(s.blocks, s.sel.From()), locate(s.blocks, s.sel.To())
	for bi := from.block; bi <= to.block; bi++ {
		if bi > from.block {
			sb.WriteByte('\n')
		}
		cells := s.blocks[bi].Cells
		start, end := 0, len(cells)
		if bi == from.block {
			start = from.cell
		}
		if bi == to.block {
			end = to.cell
		}
		for _, c := range cells[start:end] {
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}

func (s *Session) deleteSelection() bool {
	if s.sel.Empty() {
		return false
	}
	s.deleteRange(s.sel.From(), s.sel.To())
	return true
}

// deleteRange removes [from, to) and leaves a caret at from. Removing a
// block separator joins the blocks; the first block keeps its list kind.
func (s *Session) deleteRange(from, to int) {
	if from > to {
		from, to = to, from
	}
	a, b := locate(s.blocks, from), locate(s.blocks, to)

	first := s.blocks[a.block]
	last := s.blocks[b.block]
	cells := make([]Cell, 0, a.cell+len(last.Cells)-b.cell)
	cells = append(cells, first.Cells[:a.cell]...)
	cells = append(cells, last.Cells[b.cell:]...)

	out := make([]Block, 0, len(s.blocks)-(b.block-a.block))
	out = append(out, s.blocks[:a.block]...)
	out = append(out, Block{List: first.List, Cells: cells})
	out = append(out, s.blocks[b.block+1:]...)
	s.blocks = out
	s.sel = Caret(from)
}

func (s *Session) insertCell(c Cell) {
	pos := s.sel.Head
	l := locate(s.blocks, pos)
	b := &s.blocks[l.block]
	cells := make([]Cell, 0, len(b.Cells)+1)
	cells = append(cells, b.Cells[:l.cell]...)
	cells = append(cells, c)
	cells = append(cells, b.Cells[l.cell:]...)
	b.Cells = cells
	s.sel = Caret(pos + 1)
}

func (s *Session) splitAtCursor() {
	pos := s.sel.Head
	l := locate(s.blocks, pos)
	b := s.blocks[l.block]
	head := Block{List: b.List, Cells: append([]Cell(nil), b.Cells[:l.cell]...)}
	tail := Block{List: b.List, Cells: append([]Cell(nil), b.Cells[l.cell:]...)}

	out := make([]Block, 0, len(s.blocks)+1)
	out = append(out, s.blocks[:l.block]...)
	out = append(out, head, tail)
	out = append(out, s.blocks[l.block+1:]...)
	s.blocks = out
	s.sel = Caret(pos + 1)
}

// typingMarks returns the marks for text typed at the cursor: stored marks
// when set, otherwise the marks of the text cell before the cursor.
func (s *Session) typingMarks() []string {
	if s.stored.set {
		return s.stored.marks
	}
	l := locate(s.blocks, s.sel.Head)
	if l.cell > 0 {
		if c := s.blocks[l.block].Cells[l.cell-1]; !c.IsAtom() {
			return c.Marks
		}
	}
	return nil
}

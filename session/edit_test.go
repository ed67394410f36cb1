package session

import (
	"testing"

	"github.com/iw2rmb/mathdoc/schema"
)

func TestInsertText_SplitsOnNewline(t *testing.T) {
	s := New("", Options{})
	s.InsertText("ab\r\ncd\ne")
	if got, want := s.Text(), "ab\ncd\ne"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got, want := len(s.Blocks()), 3; got != want {
		t.Fatalf("blocks=%d, want %d", got, want)
	}
	if got, want := s.Selection(), Caret(s.Length()); got != want {
		t.Fatalf("selection=%v, want %v", got, want)
	}
}

func TestInsertText_GraphemeClustersAreOneUnit(t *testing.T) {
	s := New("", Options{})
	s.InsertText("é\U0001F469\u200d\U0001F52C")
	if got, want := s.Length(), 2; got != want {
		t.Fatalf("length=%d, want %d", got, want)
	}
	s.DeleteBackward()
	if got, want := s.Text(), "é"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestInsertText_ReplacesSelection(t *testing.T) {
	s := New("hello world", Options{})
	s.SetSelection(Selection{Anchor: 11, Head: 6})
	s.InsertText("there")
	if got, want := s.Text(), "hello there"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestInsertText_EmptyWithoutSelectionIsNoop(t *testing.T) {
	s := New("a", Options{})
	if s.InsertText("") {
		t.Fatalf("expected no change")
	}
}

func TestFormulaOpacity_TextInputNextToFormula(t *testing.T) {
	s := New("", Options{})
	s.InsertAtom(schema.Formula("x^2"))
	s.InsertText("y")
	s.SetSelection(Caret(0))
	s.InsertText("z")
	s.SetSelection(Caret(2))
	s.InsertText("w")

	n, ok := s.AtomAt(1)
	if !ok {
		t.Fatalf("expected formula at 1")
	}
	if got, want := n.Attr(schema.AttrSource), "x^2"; got != want {
		t.Fatalf("source=%q, want %q", got, want)
	}
	if got, want := s.Text(), "zwy"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestDelete_FormulaIsRemovedAsUnit(t *testing.T) {
	s := New("", Options{})
	s.InsertText("a")
	s.InsertAtom(schema.Formula(`\alpha+\beta`))
	s.InsertText("b")

	s.SetSelection(Caret(1))
	s.DeleteForward()
	if got := s.Atoms(); len(got) != 0 {
		t.Fatalf("atoms=%v, want none", got)
	}
	if got, want := s.Text(), "ab"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}

	s.Undo()
	s.SetSelection(Caret(2))
	s.DeleteBackward()
	if got := s.Atoms(); len(got) != 0 {
		t.Fatalf("atoms after backspace=%v, want none", got)
	}
}

func TestDeleteBackward_JoinsBlocks(t *testing.T) {
	s := New("ab\ncd", Options{})
	s.SetSelection(Caret(3))
	s.DeleteBackward()
	if got, want := s.Text(), "abcd"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got, want := s.Selection(), Caret(2); got != want {
		t.Fatalf("selection=%v, want %v", got, want)
	}
}

func TestDeleteBackward_AtDocStartIsNoop(t *testing.T) {
	s := New("ab", Options{})
	v := s.Version()
	if s.DeleteBackward() {
		t.Fatalf("expected no change")
	}
	if s.Version() != v {
		t.Fatalf("version changed")
	}
}

func TestDeleteBackward_LiftsListItem(t *testing.T) {
	s := New("", Options{})
	s.InsertText("a")
	s.ToggleList(ListBullet)
	s.SetSelection(Caret(0))
	s.DeleteBackward()

	blocks := s.Blocks()
	if got, want := blocks[0].List, ListNone; got != want {
		t.Fatalf("list=%v, want %v", got, want)
	}
	if got, want := s.Text(), "a"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestDeleteForward_AtEndIsNoop(t *testing.T) {
	s := New("ab", Options{})
	s.SetSelection(Caret(2))
	if s.DeleteForward() {
		t.Fatalf("expected no change")
	}
}

func TestSplitBlock_EmptyListItemLifts(t *testing.T) {
	s := New("", Options{})
	s.InsertText("a")
	s.ToggleList(ListBullet)
	s.SplitBlock()

	blocks := s.Blocks()
	if len(blocks) != 2 || blocks[1].List != ListBullet {
		t.Fatalf("blocks=%+v, want two bullet items", blocks)
	}

	s.SplitBlock()
	blocks = s.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("blocks=%d, want 2", len(blocks))
	}
	if got, want := blocks[1].List, ListNone; got != want {
		t.Fatalf("list=%v, want %v", got, want)
	}
}

func TestDeleteSelection_CollapsesToValidBoundary(t *testing.T) {
	s := New("hello\nworld", Options{})
	s.SetSelection(Selection{Anchor: 2, Head: 9})
	s.DeleteBackward()
	if got, want := s.Text(), "held"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got, want := s.Selection(), Caret(2); got != want {
		t.Fatalf("selection=%v, want %v", got, want)
	}
}

func TestSetSelection_Clamps(t *testing.T) {
	s := New("abc", Options{})
	s.SetSelection(Selection{Anchor: -4, Head: 99})
	if got, want := s.Selection(), (Selection{Anchor: 0, Head: 3}); got != want {
		t.Fatalf("selection=%v, want %v", got, want)
	}
	if got, want := s.SelectedText(), "abc"; got != want {
		t.Fatalf("selected=%q, want %q", got, want)
	}
}

func TestTypingInheritsMarksFromPreviousCell(t *testing.T) {
	s := New(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"a","marks":[{"type":"strong"}]}]}]}`, Options{})
	s.SetSelection(Caret(1))
	s.InsertText("b")
	blocks := s.Blocks()
	if !blocks[0].Cells[1].HasMark(schema.MarkStrong) {
		t.Fatalf("typed text did not inherit strong")
	}
}

package session

import (
	"testing"

	"github.com/iw2rmb/mathdoc/schema"
)

func TestSession_UndoRedo_BasicTyping(t *testing.T) {
	s := New("", Options{})
	if s.CanUndo() {
		t.Fatalf("expected CanUndo=false")
	}
	if s.CanRedo() {
		t.Fatalf("expected CanRedo=false")
	}

	s.InsertText("a")
	if !s.CanUndo() {
		t.Fatalf("expected CanUndo=true")
	}

	v := s.Version()
	if ok := s.Undo(); !ok {
		t.Fatalf("expected Undo=true")
	}
	if got, want := s.Text(), ""; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got, want := s.SerializedValue(), ""; got != want {
		t.Fatalf("value=%q, want %q", got, want)
	}
	if got, want := s.Selection(), Caret(0); got != want {
		t.Fatalf("selection=%v, want %v", got, want)
	}
	if got := s.Version(); got != v+1 {
		t.Fatalf("version=%d, want %d", got, v+1)
	}
	if !s.CanRedo() {
		t.Fatalf("expected CanRedo=true")
	}

	if ok := s.Redo(); !ok {
		t.Fatalf("expected Redo=true")
	}
	if got, want := s.Text(), "a"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got, want := s.Selection(), Caret(1); got != want {
		t.Fatalf("selection=%v, want %v", got, want)
	}
}

func TestSession_UndoRedo_EmptyStacks_NoMutation(t *testing.T) {
	s := New("hi", Options{})
	s.SetSelection(Caret(1))

	value := s.SerializedValue()
	sel := s.Selection()
	v := s.Version()
	calls := 0
	s.opt.OnChange = func(Change) { calls++ }

	if ok := s.Undo(); ok {
		t.Fatalf("expected Undo=false")
	}
	if ok := s.Redo(); ok {
		t.Fatalf("expected Redo=false")
	}
	if got := s.SerializedValue(); got != value {
		t.Fatalf("value=%q, want %q", got, value)
	}
	if got := s.Selection(); got != sel {
		t.Fatalf("selection=%v, want %v", got, sel)
	}
	if got := s.Version(); got != v {
		t.Fatalf("version=%d, want %d", got, v)
	}
	if calls != 0 {
		t.Fatalf("OnChange calls=%d, want 0", calls)
	}
}

func TestSession_UndoInverseLaw(t *testing.T) {
	s := New("start", Options{})
	initial := s.SerializedValue()

	steps := []func() bool{
		func() bool { return s.InsertText("abc ") },
		func() bool { return s.SetSelection(Selection{Anchor: 0, Head: 3}) && s.ToggleMark(schema.MarkStrong) },
		func() bool { return s.Move(Move{Unit: MoveDoc, Dir: DirEnd}) && s.InsertText("\nnext") },
		func() bool { return s.ToggleList(ListOrdered) },
		func() bool { return s.InsertAtom(schema.Formula(`\frac{1}{2}`)) },
		func() bool { return s.SetFormulaSource(s.Length()-1, `\frac{1}{3}`) == nil },
		func() bool { return s.DeleteBackward() },
	}
	mutations := 0
	for i, step := range steps {
		if !step() {
			t.Fatalf("step %d did not apply", i)
		}
		mutations++
	}
	for i := 0; i < mutations; i++ {
		if !s.Undo() {
			t.Fatalf("undo %d failed", i)
		}
	}
	if s.CanUndo() {
		t.Fatalf("history longer than the number of mutations")
	}
	if got := s.SerializedValue(); got != initial {
		t.Fatalf("value=%q, want %q", got, initial)
	}
}

func TestSession_NewMutationClearsRedo(t *testing.T) {
	s := New("", Options{})
	s.InsertText("a")
	s.InsertText("b")
	s.Undo()
	if !s.CanRedo() {
		t.Fatalf("expected CanRedo=true")
	}
	s.InsertText("c")
	if s.CanRedo() {
		t.Fatalf("expected redo cleared by new mutation")
	}
	if got, want := s.Text(), "ac"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestSession_SelectionOnlyChangesSkipHistory(t *testing.T) {
	s := New("abc", Options{})
	s.SetSelection(Caret(2))
	s.Move(Move{Unit: MoveGrapheme, Dir: DirLeft})
	if s.CanUndo() {
		t.Fatalf("selection changes must not enter history")
	}
}

func TestSession_HistoryLimit(t *testing.T) {
	s := New("", Options{HistoryLimit: 2})
	s.InsertText("a")
	s.InsertText("b")
	s.InsertText("c")
	if !s.Undo() || !s.Undo() {
		t.Fatalf("expected two undos")
	}
	if s.Undo() {
		t.Fatalf("expected history capped at 2")
	}
	if got, want := s.Text(), "a"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestSession_HistoryDisabled(t *testing.T) {
	s := New("", Options{HistoryLimit: -1})
	s.InsertText("a")
	if s.CanUndo() {
		t.Fatalf("expected no history")
	}
}

func TestSession_TypeThenUndoRedoRestoresExactly(t *testing.T) {
	s := New(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"x = "},{"type":"formula","attrs":{"source":"a^2"}}]}]}`, Options{})
	before := s.SerializedValue()

	s.SetSelection(Caret(s.Length()))
	s.InsertText(" done")
	after := s.SerializedValue()

	s.Undo()
	if got := s.SerializedValue(); got != before {
		t.Fatalf("after undo value=%q, want %q", got, before)
	}
	s.Redo()
	if got := s.SerializedValue(); got != after {
		t.Fatalf("after redo value=%q, want %q", got, after)
	}
}

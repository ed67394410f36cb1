package editor

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/mathdoc/schema"
	"github.com/iw2rmb/mathdoc/session"
)

type memClipboard struct {
	s string
}

func (c *memClipboard) ReadText() (string, error) { return c.s, nil }
func (c *memClipboard) WriteText(s string) error  { c.s = s; return nil }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func alt(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Alt: true} }

func typeText(m Model, s string) Model {
	for _, r := range s {
		if r == ' ' {
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m, _ = m.Update(runes(string(r)))
	}
	return m
}

func TestUpdate_TypingMovementAndDelete(t *testing.T) {
	m := New(Config{Value: "ab"})
	s := m.session()
	s.SetSelection(session.Caret(0))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m, _ = m.Update(runes("X"))
	if got := s.Text(); got != "aXb" {
		t.Fatalf("text after insert: got %q, want %q", got, "aXb")
	}
	if got := s.Selection(); got != session.Caret(2) {
		t.Fatalf("selection after insert: got %+v, want caret 2", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := s.Text(); got != "ab" {
		t.Fatalf("text after backspace: got %q, want %q", got, "ab")
	}
	if got := s.Selection(); got != session.Caret(1) {
		t.Fatalf("selection after backspace: got %+v, want caret 1", got)
	}
}

func TestUpdate_EnterSplitsBlock(t *testing.T) {
	m := New(Config{})
	m = typeText(m, "ab")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = typeText(m, "c")
	if got := len(m.session().Blocks()); got != 2 {
		t.Fatalf("blocks=%d, want 2", got)
	}
	if got := m.session().Text(); got != "ab\nc" {
		t.Fatalf("text=%q, want %q", got, "ab\nc")
	}
}

func TestUpdate_ReadOnly_IgnoresMutations(t *testing.T) {
	m := New(Config{Value: "ab", ReadOnly: true})
	s := m.session()
	s.SetSelection(session.Caret(0))
	v := m.Value()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := s.Selection(); got != session.Caret(1) {
		t.Fatalf("selection after move: got %+v, want caret 1", got)
	}
	m, _ = m.Update(runes("X"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = m.Update(alt("b"))
	m, _ = m.Update(alt("m"))
	if m.Value() != v {
		t.Fatalf("read-only editor mutated: %q", m.Value())
	}
	if m.Prompting() {
		t.Fatalf("read-only editor opened a prompt")
	}
}

func TestUpdate_UndoRedoThroughToolbarKeys(t *testing.T) {
	m := New(Config{})
	m = typeText(m, "ab")
	if got := m.session().Text(); got != "ab" {
		t.Fatalf("text after typing: got %q, want %q", got, "ab")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlZ})
	if got := m.session().Text(); got != "a" {
		t.Fatalf("text after undo: got %q, want %q", got, "a")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if got := m.session().Text(); got != "ab" {
		t.Fatalf("text after redo: got %q, want %q", got, "ab")
	}
}

func TestUpdate_ToggleStrongOnSelection(t *testing.T) {
	m := New(Config{Value: "hello"})
	s := m.session()
	s.SetSelection(session.Caret(0))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftRight})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftRight})
	m, _ = m.Update(alt("b"))

	cells := s.Blocks()[0].Cells
	if !cells[0].HasMark(schema.MarkStrong) || !cells[1].HasMark(schema.MarkStrong) || cells[2].HasMark(schema.MarkStrong) {
		t.Fatalf("strong applied to wrong cells")
	}
}

func TestUpdate_StoredMarkAppliesToNextTyping(t *testing.T) {
	m := New(Config{})
	m, _ = m.Update(alt("i"))
	m = typeText(m, "x")
	if !m.session().Blocks()[0].Cells[0].HasMark(schema.MarkEm) {
		t.Fatalf("typed text missing stored emphasis")
	}
}

func TestUpdate_InsertFormulaPrompt(t *testing.T) {
	m := New(Config{Value: "a"})
	s := m.session()
	s.SetSelection(session.Caret(1))

	m, _ = m.Update(alt("m"))
	if !m.Prompting() {
		t.Fatalf("expected prompt")
	}
	v := s.Version()
	m = typeText(m, `\sqrt{2}`)
	if s.Version() != v {
		t.Fatalf("document changed while prompting")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Prompting() {
		t.Fatalf("prompt still open after submit")
	}
	n, ok := s.AtomAt(1)
	if !ok || n.Type != schema.TypeFormula || n.Attr(schema.AttrSource) != `\sqrt{2}` {
		t.Fatalf("atom=%+v", n)
	}
}

func TestUpdate_InsertPromptCancel(t *testing.T) {
	m := New(Config{})
	m, _ = m.Update(alt("g"))
	if !m.Prompting() {
		t.Fatalf("expected prompt")
	}
	m = typeText(m, "x.png")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Prompting() || m.session().Length() != 0 || m.session().CanUndo() {
		t.Fatalf("cancelled prompt mutated the document")
	}
}

func TestUpdate_EditFormulaNearCursor(t *testing.T) {
	var events []ChangeEvent
	m := New(Config{OnChange: func(ev ChangeEvent) { events = append(events, ev) }})
	s := m.session()
	s.InsertAtom(schema.Formula("x"))
	events = nil

	m, _ = m.Update(alt("e"))
	if !m.Prompting() {
		t.Fatalf("expected edit prompt")
	}
	if got := m.prompt.input.Value(); got != "x" {
		t.Fatalf("prompt seed=%q, want %q", got, "x")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = typeText(m, "y^2")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	n, _ := s.AtomAt(0)
	if got := n.Attr(schema.AttrSource); got != "y^2" {
		t.Fatalf("source=%q, want %q", got, "y^2")
	}
	if len(events) != 1 {
		t.Fatalf("events=%d, want 1", len(events))
	}
	if !s.Undo() {
		t.Fatalf("edit not undoable")
	}
	n, _ = s.AtomAt(0)
	if got := n.Attr(schema.AttrSource); got != "x" {
		t.Fatalf("source after undo=%q, want %q", got, "x")
	}
}

func TestUpdate_EditFormulaSubmitUnchangedKeepsSource(t *testing.T) {
	sources := []string{
		"a % note\n+ b",
		"\\begin{aligned}x&=1\\\\\n\ty&=2\\end{aligned}",
		strings.Repeat("x+", 2100) + "1",
	}
	for _, src := range sources {
		m := New(Config{})
		s := m.session()
		s.InsertAtom(schema.Formula(src))
		v := s.Version()

		m, _ = m.Update(alt("e"))
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		n, _ := s.AtomAt(0)
		if got := n.Attr(schema.AttrSource); got != src {
			t.Fatalf("source of %d bytes rewritten: got %d bytes %q", len(src), len(got), got)
		}
		if s.Version() != v {
			t.Fatalf("unchanged submit produced a change")
		}
	}
}

func TestUpdate_EditFormulaMultiLine(t *testing.T) {
	m := New(Config{})
	s := m.session()
	s.InsertAtom(schema.Formula("a"))

	m, _ = m.Update(alt("e"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	m = typeText(m, "b")
	if !m.Prompting() {
		t.Fatalf("alt+enter closed the prompt")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	n, _ := s.AtomAt(0)
	if got := n.Attr(schema.AttrSource); got != "a\nb" {
		t.Fatalf("source=%q, want %q", got, "a\nb")
	}
}

func TestUpdate_EditFormulaWithoutFormulaIsNoop(t *testing.T) {
	m := New(Config{Value: "abc"})
	m, _ = m.Update(alt("e"))
	if m.Prompting() {
		t.Fatalf("prompt opened without a formula")
	}
}

func TestUpdate_BlurDismissesPrompt(t *testing.T) {
	m := New(Config{})
	m, _ = m.Update(alt("m"))
	m = m.Blur()
	if m.Prompting() {
		t.Fatalf("prompt survived blur")
	}
	m, _ = m.Update(runes("x"))
	if m.session().Length() != 0 {
		t.Fatalf("blurred editor accepted input")
	}
}

func TestUpdate_CopyCutPaste(t *testing.T) {
	cb := &memClipboard{}
	m := New(Config{Value: "hello", Clipboard: cb})
	s := m.session()
	s.SetSelection(session.Caret(0))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftRight})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftRight})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if got := cb.s; got != "he" {
		t.Fatalf("clipboard after copy: got %q, want %q", got, "he")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	if got := s.Text(); got != "llo" {
		t.Fatalf("text after cut: got %q, want %q", got, "llo")
	}
	if got := s.Selection(); got != session.Caret(0) {
		t.Fatalf("selection after cut: got %+v, want caret 0", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	if got := s.Text(); got != "hello" {
		t.Fatalf("text after paste: got %q, want %q", got, "hello")
	}
}

func TestUpdate_PasteEventInsertsLiteralText(t *testing.T) {
	m := New(Config{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a\nb"), Paste: true})
	if got := m.session().Text(); got != "a\nb" {
		t.Fatalf("text=%q, want %q", got, "a\nb")
	}
}

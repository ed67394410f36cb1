package editor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/mathdoc/nodeview"
	"github.com/iw2rmb/mathdoc/session"
	"github.com/iw2rmb/mathdoc/toolbar"
)

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	if m.prompt.active {
		return m.updatePrompt(msg)
	}
	s := m.session()

	// Paste events should always insert literal text and never trigger shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		if !m.cfg.ReadOnly {
			s.InsertText(string(msg.Runes))
		}
		return m, nil
	}

	if it, ok := m.cfg.Toolbar.Lookup(msg.String()); ok {
		if m.cfg.ReadOnly {
			return m, nil
		}
		return m.runCommand(it.Command)
	}

	km := m.cfg.KeyMap
	switch {
	case key.Matches(msg, km.Left):
		s.Move(session.Move{Unit: session.MoveGrapheme, Dir: session.DirLeft})
	case key.Matches(msg, km.Right):
		s.Move(session.Move{Unit: session.MoveGrapheme, Dir: session.DirRight})
	case key.Matches(msg, km.Up):
		s.Move(session.Move{Unit: session.MoveBlock, Dir: session.DirUp})
	case key.Matches(msg, km.Down):
		s.Move(session.Move{Unit: session.MoveBlock, Dir: session.DirDown})

	case key.Matches(msg, km.ShiftLeft):
		s.Move(session.Move{Unit: session.MoveGrapheme, Dir: session.DirLeft, Extend: true})
	case key.Matches(msg, km.ShiftRight):
		s.Move(session.Move{Unit: session.MoveGrapheme, Dir: session.DirRight, Extend: true})
	case key.Matches(msg, km.ShiftUp):
		s.Move(session.Move{Unit: session.MoveBlock, Dir: session.DirUp, Extend: true})
	case key.Matches(msg, km.ShiftDown):
		s.Move(session.Move{Unit: session.MoveBlock, Dir: session.DirDown, Extend: true})

	case key.Matches(msg, km.WordLeft):
		s.Move(session.Move{Unit: session.MoveWord, Dir: session.DirLeft})
	case key.Matches(msg, km.WordRight):
		s.Move(session.Move{Unit: session.MoveWord, Dir: session.DirRight})
	case key.Matches(msg, km.ShiftWordLeft):
		s.Move(session.Move{Unit: session.MoveWord, Dir: session.DirLeft, Extend: true})
	case key.Matches(msg, km.ShiftWordRight):
		s.Move(session.Move{Unit: session.MoveWord, Dir: session.DirRight, Extend: true})

	case key.Matches(msg, km.Home):
		s.Move(session.Move{Unit: session.MoveBlock, Dir: session.DirHome})
	case key.Matches(msg, km.End):
		s.Move(session.Move{Unit: session.MoveBlock, Dir: session.DirEnd})
	case key.Matches(msg, km.DocStart):
		s.Move(session.Move{Unit: session.MoveDoc, Dir: session.DirHome})
	case key.Matches(msg, km.DocEnd):
		s.Move(session.Move{Unit: session.MoveDoc, Dir: session.DirEnd})
	case key.Matches(msg, km.SelectAll):
		s.SetSelection(session.Selection{Anchor: 0, Head: s.Length()})

	case key.Matches(msg, km.Backspace):
		if !m.cfg.ReadOnly {
			s.DeleteBackward()
		}
	case key.Matches(msg, km.Delete):
		if !m.cfg.ReadOnly {
			s.DeleteForward()
		}
	case key.Matches(msg, km.Enter):
		if !m.cfg.ReadOnly {
			s.SplitBlock()
		}

	case key.Matches(msg, km.EditFormula):
		if m.cfg.ReadOnly {
			return m, nil
		}
		if v, ok := m.formulaNearCursor(); ok {
			return m.openEditPrompt(v)
		}

	case key.Matches(msg, km.Copy):
		m.copySelection()
	case key.Matches(msg, km.Cut):
		if !m.cfg.ReadOnly {
			m.cutSelection()
		} else {
			m.copySelection()
		}
	case key.Matches(msg, km.Paste):
		if !m.cfg.ReadOnly {
			m.pasteClipboard()
		}

	default:
		if msg.Type == tea.KeySpace {
			if !m.cfg.ReadOnly {
				s.InsertText(" ")
			}
			return m, nil
		}
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt {
			if !m.cfg.ReadOnly {
				s.InsertText(string(msg.Runes))
			}
		}
	}

	return m, nil
}

// runCommand runs a toolbar command on this editor's session. Insert
// commands open the inline prompt first.
func (m Model) runCommand(name string) (Model, tea.Cmd) {
	if req, arg, ok := toolbar.PromptFor(name); ok {
		return m.openInsertPrompt(name, arg, req)
	}
	out := m.cfg.Toolbar.DispatchTo(m.session(), name, nil)
	if out == toolbar.Unsupported {
		m.log.Warn("unsupported command", "command", name)
	}
	return m, nil
}

// formulaNearCursor finds the formula the edit gesture applies to: the
// one selected alone, else the one just before the caret, else the one
// just after it.
func (m Model) formulaNearCursor() (*nodeview.FormulaView, bool) {
	s := m.session()
	views := m.cfg.Views.Mount(s)
	sel := s.Selection()

	var candidates []int
	if sel.To()-sel.From() == 1 {
		candidates = []int{sel.From()}
	} else if sel.Empty() {
		candidates = []int{sel.Head - 1, sel.Head}
	}
	for _, pos := range candidates {
		if fv, ok := views[pos].(*nodeview.FormulaView); ok {
			return fv, true
		}
	}
	return nil, false
}

func (m Model) copySelection() {
	if m.cfg.Clipboard == nil {
		return
	}
	text := m.session().SelectedText()
	if text == "" {
		return
	}
	if err := m.cfg.Clipboard.WriteText(text); err != nil {
		m.log.Debug("clipboard write failed", "err", err)
	}
}

func (m Model) cutSelection() {
	if m.cfg.Clipboard == nil {
		return
	}
	m.copySelection()
	m.session().DeleteSelection()
}

func (m Model) pasteClipboard() {
	if m.cfg.Clipboard == nil {
		return
	}
	text, err := m.cfg.Clipboard.ReadText()
	if err != nil {
		m.log.Debug("clipboard read failed", "err", err)
		return
	}
	if text == "" {
		return
	}
	// InsertText normalizes newlines from external sources.
	m.session().InsertText(text)
}

package session

import (
	"errors"
	"fmt"

	"github.com/iw2rmb/mathdoc/schema"
)

// Command names accepted by ApplyCommand.
const (
	CmdToggleEmphasis    = "toggle-emphasis"
	CmdToggleStrong      = "toggle-strong"
	CmdToggleBulletList  = "toggle-bullet-list"
	CmdToggleOrderedList = "toggle-ordered-list"
	CmdInsertFormula     = "insert-formula"
	CmdInsertImage       = "insert-image"
	CmdUndo              = "undo"
	CmdRedo              = "redo"
)

// Argument keys.
const (
	ArgSource = "source"
	ArgSrc    = "src"
	ArgAlt    = "alt"
)

// Commands returns the command vocabulary in toolbar order.
func Commands() []string {
	return []string{
		CmdToggleStrong,
		CmdToggleEmphasis,
		CmdToggleBulletList,
		CmdToggleOrderedList,
		CmdInsertFormula,
		CmdInsertImage,
		CmdUndo,
		CmdRedo,
	}
}

// CommandStatus is the outcome of ApplyCommand.
type CommandStatus uint8

const (
	// CommandApplied means the session committed a change.
	CommandApplied CommandStatus = iota
	// CommandNoChange means the command is known but had nothing to do.
	CommandNoChange
	// CommandUnsupported means the name is not in the vocabulary.
	CommandUnsupported
	// CommandInvalidArgs means a required argument was missing.
	CommandInvalidArgs
)

func (st CommandStatus) String() string {
	switch st {
	case CommandApplied:
		return "applied"
	case CommandNoChange:
		return "no-change"
	case CommandUnsupported:
		return "unsupported"
	case CommandInvalidArgs:
		return "invalid-args"
	default:
		return fmt.Sprintf("CommandStatus(%d)", uint8(st))
	}
}

var (
	// ErrNotFormula is returned when an attribute update targets a
	// position that does not hold a formula.
	ErrNotFormula = errors.New("session: no formula at position")
)

func status(applied bool) CommandStatus {
	if applied {
		return CommandApplied
	}
	return CommandNoChange
}

// ApplyCommand runs a named command. Unknown names are reported as
// CommandUnsupported and change nothing.
//
// insert-formula requires args["source"] (which may be empty).
// insert-image requires args["src"] and takes an optional args["alt"].
func (s *Session) ApplyCommand(name string, args map[string]string) CommandStatus {
	switch name {
	case CmdToggleEmphasis:
		return status(s.ToggleMark(schema.MarkEm))
	case CmdToggleStrong:
		return status(s.ToggleMark(schema.MarkStrong))
	case CmdToggleBulletList:
		return status(s.ToggleList(ListBullet))
	case CmdToggleOrderedList:
		return status(s.ToggleList(ListOrdered))
	case CmdInsertFormula:
		src, ok := args[ArgSource]
		if !ok {
			return CommandInvalidArgs
		}
		return status(s.InsertAtom(schema.Formula(src)))
	case CmdInsertImage:
		src := args[ArgSrc]
		if src == "" {
			return CommandInvalidArgs
		}
		return status(s.InsertAtom(schema.Image(src, args[ArgAlt])))
	case CmdUndo:
		return status(s.Undo())
	case CmdRedo:
		return status(s.Redo())
	default:
		s.log.Debug("unsupported command", "command", name)
		return CommandUnsupported
	}
}

// SetFormulaSource replaces the source of the formula at pos as one undoable
// change. This is the only way a formula's source changes.
func (s *Session) SetFormulaSource(pos int, source string) error {
	n, ok := s.AtomAt(pos)
	if !ok || n.Type != schema.TypeFormula {
		return fmt.Errorf("%w: %d", ErrNotFormula, pos)
	}
	if n.Attr(schema.AttrSource) == source {
		return nil
	}

	change := s.beginChange(ChangeSourceLocal, "set-formula-source")
	l := locate(s.blocks, pos)
	s.blocks[l.block].Cells[l.cell].Atom = n.WithAttr(schema.AttrSource, source)
	s.commitChange(change, true)
	return nil
}

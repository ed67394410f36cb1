// Package toolbar turns named UI gestures into commands on the focused
// editing session.
package toolbar

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"

	"github.com/iw2rmb/mathdoc/prompt"
	"github.com/iw2rmb/mathdoc/schema"
	"github.com/iw2rmb/mathdoc/session"
)

// Outcome is the result of one dispatch.
type Outcome uint8

const (
	Applied Outcome = iota
	NoChange
	Unsupported
	Cancelled
	NoFocus
	Invalid
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case NoChange:
		return "no-change"
	case Unsupported:
		return "unsupported"
	case Cancelled:
		return "cancelled"
	case NoFocus:
		return "no-focus"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// Item is one toolbar button.
type Item struct {
	Command string
	Label   string
	Key     key.Binding
}

// DefaultItems returns the toolbar in display order.
func DefaultItems() []Item {
	return []Item{
		{Command: session.CmdToggleStrong, Label: "B", Key: key.NewBinding(key.WithKeys("alt+b"), key.WithHelp("alt+b", "bold"))},
		{Command: session.CmdToggleEmphasis, Label: "I", Key: key.NewBinding(key.WithKeys("alt+i"), key.WithHelp("alt+i", "italic"))},
		{Command: session.CmdToggleBulletList, Label: "•", Key: key.NewBinding(key.WithKeys("alt+u"), key.WithHelp("alt+u", "bullet list"))},
		{Command: session.CmdToggleOrderedList, Label: "1.", Key: key.NewBinding(key.WithKeys("alt+o"), key.WithHelp("alt+o", "ordered list"))},
		{Command: session.CmdInsertFormula, Label: "∑", Key: key.NewBinding(key.WithKeys("alt+m"), key.WithHelp("alt+m", "formula"))},
		{Command: session.CmdInsertImage, Label: "img", Key: key.NewBinding(key.WithKeys("alt+g"), key.WithHelp("alt+g", "image"))},
		{Command: session.CmdUndo, Label: "↶", Key: key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo"))},
		{Command: session.CmdRedo, Label: "↷", Key: key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "redo"))},
	}
}

type Options struct {
	Items    []Item // default: DefaultItems()
	Prompter prompt.Prompter
	Logger   *slog.Logger
}

// Dispatcher routes commands to whichever session has focus.
type Dispatcher struct {
	items    []Item
	prompter prompt.Prompter
	log      *slog.Logger
	focused  *session.Session
}

func New(opt Options) *Dispatcher {
	if opt.Items == nil {
		opt.Items = DefaultItems()
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{items: opt.Items, prompter: opt.Prompter, log: opt.Logger}
}

func (d *Dispatcher) Items() []Item { return append([]Item(nil), d.items...) }

// Focus makes s the target of later commands.
func (d *Dispatcher) Focus(s *session.Session) { d.focused = s }

// Blur clears the target if it is s.
func (d *Dispatcher) Blur(s *session.Session) {
	if d.focused == s {
		d.focused = nil
	}
}

func (d *Dispatcher) Focused() *session.Session { return d.focused }

// Lookup finds the item whose binding matches a key string such as
// "alt+b".
func (d *Dispatcher) Lookup(k string) (Item, bool) {
	for _, it := range d.items {
		if !it.Key.Enabled() {
			continue
		}
		for _, bk := range it.Key.Keys() {
			if bk == k {
				return it, true
			}
		}
	}
	return Item{}, false
}

// Active reports whether a toggle command is on for the focused session's
// selection, for highlighting its button.
func (d *Dispatcher) Active(name string) bool {
	s := d.focused
	if s == nil {
		return false
	}
	switch name {
	case session.CmdToggleStrong:
		return s.MarkActive(schema.MarkStrong)
	case session.CmdToggleEmphasis:
		return s.MarkActive(schema.MarkEm)
	case session.CmdToggleBulletList:
		return s.ListActive(session.ListBullet)
	case session.CmdToggleOrderedList:
		return s.ListActive(session.ListOrdered)
	default:
		return false
	}
}

// Dispatch applies a command with explicit arguments to the focused
// session.
func (d *Dispatcher) Dispatch(name string, args map[string]string) Outcome {
	s := d.focused
	if s == nil {
		return NoFocus
	}
	return d.apply(s, name, args)
}

// Trigger runs a command as a UI gesture. Insert commands first collect
// their argument through the prompter; the session that had focus when
// the gesture started receives the result. A dismissed prompt inserts
// nothing.
func (d *Dispatcher) Trigger(ctx context.Context, name string) (Outcome, error) {
	s := d.focused
	if s == nil {
		return NoFocus, nil
	}

	req, arg, ok := PromptFor(name)
	if !ok {
		return d.apply(s, name, nil), nil
	}

	if d.prompter == nil {
		return Cancelled, nil
	}
	v, answered, err := d.prompter.Prompt(ctx, req)
	if err != nil {
		return Cancelled, fmt.Errorf("toolbar %s: %w", name, err)
	}
	if !answered {
		d.log.Debug("prompt dismissed", "command", name)
		return Cancelled, nil
	}
	return d.apply(s, name, map[string]string{arg: v}), nil
}

// DispatchTo applies a command to s whatever currently has focus. Hosts
// that collect insert arguments asynchronously use it to deliver the
// answer to the session captured when the gesture started.
func (d *Dispatcher) DispatchTo(s *session.Session, name string, args map[string]string) Outcome {
	if s == nil {
		return NoFocus
	}
	return d.apply(s, name, args)
}

// PromptFor returns the prompt an insert command needs, and the argument
// key its answer is stored under.
func PromptFor(name string) (prompt.Request, string, bool) {
	switch name {
	case session.CmdInsertFormula:
		return prompt.FormulaRequest(""), session.ArgSource, true
	case session.CmdInsertImage:
		return prompt.ImageRequest(), session.ArgSrc, true
	default:
		return prompt.Request{}, "", false
	}
}

func (d *Dispatcher) apply(s *session.Session, name string, args map[string]string) Outcome {
	st := s.ApplyCommand(name, args)
	d.log.Debug("command dispatched", "command", name, "status", st.String(), "session", s.ID())
	switch st {
	case session.CommandApplied:
		return Applied
	case session.CommandUnsupported:
		return Unsupported
	case session.CommandInvalidArgs:
		return Invalid
	default:
		return NoChange
	}
}

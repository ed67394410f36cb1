package editor

import (
	"log/slog"

	"github.com/iw2rmb/mathdoc/nodeview"
	"github.com/iw2rmb/mathdoc/session"
	"github.com/iw2rmb/mathdoc/toolbar"
)

// Config configures the editor Model.
type Config struct {
	// Initial serialized value.
	Value string

	// Forwarded to the field's session.
	Session session.Options

	// Rendering options.
	Style       Style
	ShowToolbar bool

	KeyMap KeyMap

	// Toolbar routes command gestures. Hosts with several editors share
	// one dispatcher so commands reach whichever editor has focus. Nil
	// creates a private one.
	Toolbar *toolbar.Dispatcher

	// Views presents atoms. Nil uses a registry with the formula view.
	Views *nodeview.Registry

	ReadOnly  bool
	Clipboard Clipboard

	// OnChange is called once per document change made through the
	// editor. Values applied with SetValue never trigger it.
	OnChange func(ChangeEvent)

	Logger *slog.Logger
}

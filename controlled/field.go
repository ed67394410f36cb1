// Package controlled makes an editing session behave like a controlled
// value: the host owns a string, the session owns selection and history,
// and equality of serialized values decides which side a change came from.
package controlled

import (
	"io"
	"log/slog"

	"github.com/iw2rmb/mathdoc/session"
)

type Options struct {
	// Session configures the underlying session. Its OnChange, if set, is
	// called for every session change before the host callback.
	Session session.Options

	// OnChange receives the new serialized value once per document change
	// made inside the field. Loads from SetValue never call it.
	OnChange func(value string)

	Logger *slog.Logger
}

// Field binds one session to a host-held value.
type Field struct {
	sess     *session.Session
	onChange func(string)
	log      *slog.Logger
}

// New creates a field seeded with value.
func New(value string, opt Options) *Field {
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	f := &Field{onChange: opt.OnChange}

	inner := opt.Session.OnChange
	sopt := opt.Session
	if sopt.Logger == nil {
		sopt.Logger = opt.Logger
	}
	sopt.OnChange = func(c session.Change) {
		if inner != nil {
			inner(c)
		}
		f.sessionChanged(c)
	}
	f.sess = session.New(value, sopt)
	f.log = opt.Logger.With("session", f.sess.ID())
	return f
}

// Session returns the underlying session for editing operations.
func (f *Field) Session() *session.Session { return f.sess }

// Value returns the current serialized value.
func (f *Field) Value() string { return f.sess.SerializedValue() }

// SetOnChange replaces the host callback.
func (f *Field) SetOnChange(fn func(string)) { f.onChange = fn }

// SetValue applies a host-provided value. A value equal to the session's
// own serialized value is an echo and is ignored; anything else is an
// external change and replaces the document. It reports whether the
// document was replaced.
func (f *Field) SetValue(v string) bool {
	if !f.sess.Load(v) {
		return false
	}
	f.log.Debug("external value loaded", "bytes", len(v), "issues", len(f.sess.Issues()))
	return true
}

func (f *Field) sessionChanged(c session.Change) {
	if !c.DocChanged || c.Source != session.ChangeSourceLocal {
		return
	}
	if f.onChange != nil {
		f.onChange(f.sess.SerializedValue())
	}
}

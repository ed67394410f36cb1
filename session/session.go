package session

import (
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/iw2rmb/mathdoc/schema"
)

const defaultHistoryLimit = 1000

type Options struct {
	HistoryLimit int // default: 1000; negative disables history

	// Registry defaults to schema.Default().
	Registry *schema.Registry
	Logger   *slog.Logger

	// OnChange is called once per committed transaction, after the
	// session reached its new state. It may call back into the session.
	OnChange func(Change)
}

type storedMarks struct {
	set   bool
	marks []string
}

func (m storedMarks) equal(o storedMarks) bool {
	return m.set == o.set && slices.Equal(m.marks, o.marks)
}

// Session is one live editing session. It is not safe for concurrent use;
// sessions share no state with each other.
type Session struct {
	id  string
	reg *schema.Registry
	log *slog.Logger
	opt Options

	blocks []Block
	sel    Selection
	stored storedMarks

	version uint64
	hist    historyState

	// serialized caches SerializedValue until the next document change.
	serialized *string

	// loaded is the raw value last passed to Load; synced is its
	// canonical form.
	loaded string
	synced string
	issues []schema.Issue

	lastChange    Change
	hasLastChange bool
}

// New creates a session seeded from a serialized value.
func New(value string, opt Options) *Session {
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = defaultHistoryLimit
	}
	if opt.Registry == nil {
		opt.Registry = schema.Default()
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Session{
		id:  uuid.NewString(),
		reg: opt.Registry,
		opt: opt,
	}
	s.log = opt.Logger.With("session", s.id)
	s.replace(value)
	return s
}

// ID identifies the session in logs and change events.
func (s *Session) ID() string { return s.id }

func (s *Session) Version() uint64 { return s.version }

func (s *Session) Registry() *schema.Registry { return s.reg }

// Blocks returns a copy of the document blocks.
func (s *Session) Blocks() []Block { return cloneBlocks(s.blocks) }

func (s *Session) Selection() Selection { return s.sel }

// Length is the largest valid offset.
func (s *Session) Length() int { return docLength(s.blocks) }

// Doc returns the document tree for the current state.
func (s *Session) Doc() *schema.Node { return toDoc(s.blocks) }

// SerializedValue returns the canonical serialized form of the document.
// It does not change session state beyond an internal cache.
func (s *Session) SerializedValue() string {
	if s.serialized == nil {
		v := s.reg.Serialize(toDoc(s.blocks))
		s.serialized = &v
	}
	return *s.serialized
}

// Dirty reports whether internal edits made the document diverge from the
// value last loaded.
func (s *Session) Dirty() bool { return s.SerializedValue() != s.synced }

// Issues returns the parse recoveries from the most recent load.
func (s *Session) Issues() []schema.Issue { return append([]schema.Issue(nil), s.issues...) }

// Load replaces the document with the one in value, clearing history,
// selection and the dirty flag. A value equal to the current serialized
// value, or to the value last loaded while nothing has been edited since,
// is an echo: Load does nothing and returns false.
func (s *Session) Load(value string) bool {
	if value == s.SerializedValue() || (value == s.loaded && !s.Dirty()) {
		return false
	}
	change := s.beginChange(ChangeSourceExternal, "load")
	s.replace(value)
	s.commitChange(change, true)
	return true
}

func (s *Session) replace(value string) {
	doc, issues := s.reg.Parse(value)
	for _, is := range issues {
		s.log.Warn("recovered while loading value", "path", is.Path, "kind", is.Kind.String(), "detail", is.Detail)
	}
	s.blocks = fromDoc(s.reg, doc)
	s.sel = Selection{}
	s.stored = storedMarks{}
	s.hist = historyState{}
	s.serialized = nil
	s.issues = issues
	s.loaded = value
	s.synced = s.SerializedValue()
}

// Text returns the plain text of the document, blocks separated by
// newlines. Placeholders contribute their text; other atoms nothing.
func (s *Session) Text() string {
	var out []byte
	for i, b := range s.blocks {
		if i > 0 {
			out = append(out, '\n')
		}
		for _, c := range b.Cells {
			if c.IsAtom() {
				if c.Atom.Type == schema.TypePlaceholder {
					out = append(out, c.Atom.Attr(schema.AttrText)...)
				}
				continue
			}
			out = append(out, c.Text...)
		}
	}
	return string(out)
}

// AtomAt returns the atom occupying [pos, pos+1), if any.
func (s *Session) AtomAt(pos int) (*schema.Node, bool) {
	if pos < 0 || pos >= s.Length() {
		return nil, false
	}
	l := locate(s.blocks, pos)
	b := s.blocks[l.block]
	if l.cell >= len(b.Cells) || !b.Cells[l.cell].IsAtom() {
		return nil, false
	}
	return b.Cells[l.cell].Atom, true
}

// Atoms lists every atom with its offset, in document order.
func (s *Session) Atoms() []AtomRef {
	var out []AtomRef
	off := 0
	for i, b := range s.blocks {
		if i > 0 {
			off++
		}
		for j, c := range b.Cells {
			if c.IsAtom() {
				out = append(out, AtomRef{Pos: off + j, Node: c.Atom})
			}
		}
		off += len(b.Cells)
	}
	return out
}

// StoredMarks returns the marks the next typed text will carry when they
// were set explicitly by a toggle on an empty selection.
func (s *Session) StoredMarks() ([]string, bool) {
	return append([]string(nil), s.stored.marks...), s.stored.set
}

// SetSelection moves the selection, clamped into the document. It clears
// stored marks when the selection actually moves.
func (s *Session) SetSelection(sel Selection) bool {
	change := s.beginChange(ChangeSourceLocal, "select")
	next := ClampSelection(sel, s.Length())
	if next == s.sel {
		return false
	}
	s.sel = next
	s.stored = storedMarks{}
	return s.commitChange(change, false)
}

package editor

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/mathdoc/controlled"
	"github.com/iw2rmb/mathdoc/nodeview"
	"github.com/iw2rmb/mathdoc/session"
	"github.com/iw2rmb/mathdoc/toolbar"
)

// Model is a Bubble Tea component that renders and edits one controlled
// rich-text field.
type Model struct {
	cfg   Config
	field *controlled.Field
	log   *slog.Logger

	focused bool
	width   int
	height  int

	viewport viewport.Model
	prompt   inlinePrompt

	lastVersion uint64
	lastSel     session.Selection
	cursorLine  int
}

func New(cfg Config) Model {
	if len(cfg.KeyMap.Left.Keys()) == 0 {
		cfg.KeyMap = DefaultKeyMap()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Toolbar == nil {
		cfg.Toolbar = toolbar.New(toolbar.Options{Logger: cfg.Logger})
	}
	if cfg.Views == nil {
		cfg.Views = nodeview.NewRegistry(nil)
	}

	m := Model{
		cfg:      cfg,
		focused:  true,
		viewport: viewport.New(0, 0),
	}

	var f *controlled.Field
	f = controlled.New(cfg.Value, controlled.Options{
		Session: cfg.Session,
		Logger:  cfg.Logger,
		OnChange: func(v string) {
			if cfg.OnChange != nil {
				cfg.OnChange(buildChangeEvent(f.Session(), v))
			}
		},
	})
	m.field = f
	m.log = cfg.Logger.With("session", f.Session().ID())
	cfg.Toolbar.Focus(f.Session())

	m.lastVersion = m.session().Version()
	m.lastSel = m.session().Selection()
	m.rebuildContent()
	return m
}

// Field returns the controlled field the editor edits.
func (m Model) Field() *controlled.Field { return m.field }

func (m Model) session() *session.Session { return m.field.Session() }

// Value returns the current serialized value.
func (m Model) Value() string { return m.field.Value() }

// SetValue applies a host value. Echoes of the editor's own value are
// ignored.
func (m Model) SetValue(v string) Model {
	if m.field.SetValue(v) {
		m.syncFromSession()
		m.followCursor()
	}
	return m
}

// Prompting reports whether the inline prompt is open.
func (m Model) Prompting() bool { return m.prompt.active }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) SetSize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.width = width
	m.height = height
	if m.prompt.active {
		m.prompt.input.SetWidth(inputWidth(m.prompt.req, width))
	}

	m.rebuildContent()
	m.followCursor()
	return m
}

// Focus makes the editor accept keys and the toolbar target its session.
func (m Model) Focus() Model {
	m.cfg.Toolbar.Focus(m.session())
	if !m.focused {
		m.focused = true
		m.rebuildContent()
		m.followCursor()
	}
	return m
}

// Blur stops key handling. An open prompt is dismissed without changes.
func (m Model) Blur() Model {
	m.cfg.Toolbar.Blur(m.session())
	if m.focused {
		m.focused = false
		m.prompt = m.prompt.close()
		m.rebuildContent()
	}
	return m
}

func (m Model) Focused() bool { return m.focused }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		// The host may have mutated the session outside of the editor.
		m.syncFromSession()
		return m, cmd
	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.updateKey(msg)
		if m.syncFromSession() {
			m.followCursor()
		}
		return m, cmd
	default:
		var cmd tea.Cmd
		if m.prompt.active {
			m.prompt.input, cmd = m.prompt.input.Update(msg)
			m.rebuildContent()
		}
		if m.syncFromSession() {
			m.followCursor()
		}
		return m, cmd
	}
}

func (m Model) View() string {
	return m.render()
}

func (m *Model) syncFromSession() (changed bool) {
	s := m.session()
	ver := s.Version()
	sel := s.Selection()
	if ver == m.lastVersion && sel == m.lastSel {
		return false
	}
	m.lastVersion = ver
	m.lastSel = sel
	m.rebuildContent()
	return true
}

func (m *Model) rebuildContent() {
	h := m.height - m.chromeLines()
	if h < 0 {
		h = 0
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
	content, cursorLine := m.renderContent()
	m.cursorLine = cursorLine
	m.viewport.SetContent(content)
}

func (m *Model) chromeLines() int {
	n := 0
	if m.cfg.ShowToolbar {
		n++
	}
	return n + m.prompt.height()
}

func (m *Model) followCursor() {
	h := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if h <= 0 {
		return
	}

	y := m.viewport.YOffset
	if m.cursorLine < y {
		m.viewport.SetYOffset(m.cursorLine)
		return
	}
	if m.cursorLine >= y+h {
		m.viewport.SetYOffset(m.cursorLine - h + 1)
	}
}

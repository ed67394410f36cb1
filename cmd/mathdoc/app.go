package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/mathdoc/editor"
	"github.com/iw2rmb/mathdoc/internal/config"
	"github.com/iw2rmb/mathdoc/internal/record"
	"github.com/iw2rmb/mathdoc/nodeview"
	"github.com/iw2rmb/mathdoc/toolbar"
)

// fileChangedMsg carries a record re-read after an external write.
type fileChangedMsg struct {
	rec *record.Record
	err error
}

type savedMsg struct{ err error }

type appKeys struct {
	Save, Quit, Next, Prev key.Binding
}

func defaultAppKeys() appKeys {
	return appKeys{
		Save: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Quit: key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		Next: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
	}
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusedTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// document is the host-held state the editors are controlled by.
type document struct {
	path  string
	rec   *record.Record
	dirty bool

	// written is the last record this process saved. The watcher reports
	// our own writes back, possibly after newer keystrokes.
	written *record.Record
}

// appModel hosts one editor per record field. The record holds the
// values; each editor reports its changes back into it.
type appModel struct {
	cfg  config.Config
	log  *slog.Logger
	keys appKeys

	doc     *document
	names   []string
	editors []editor.Model
	focus   int

	bar   *toolbar.Dispatcher
	views *nodeview.Registry
	save  func(path string, r *record.Record) tea.Cmd

	width, height int
	status        string
	quitArmed     bool
}

func newAppModel(cfg config.Config, log *slog.Logger, path string, rec *record.Record) appModel {
	m := appModel{
		cfg:   cfg,
		log:   log,
		keys:  defaultAppKeys(),
		doc:   &document{path: path, rec: rec},
		bar:   toolbar.New(toolbar.Options{Items: cfg.ToolbarItems(), Logger: log}),
		views: nodeview.NewRegistry(nil),
		save:  saveCmd,
	}
	m.buildEditors()
	return m
}

// saveCmd writes r from the command goroutine; callers hand it a snapshot.
func saveCmd(path string, r *record.Record) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{err: record.Save(path, r)}
	}
}

func (m *appModel) buildEditors() {
	km := editor.DefaultKeyMap()
	km.EditFormula = m.cfg.EditFormulaBinding(km.EditFormula)

	fields := m.doc.rec.Fields()
	m.names = make([]string, len(fields))
	m.editors = make([]editor.Model, len(fields))
	for i, f := range fields {
		name := f.Name
		m.names[i] = name
		doc, log := m.doc, m.log
		ed := editor.New(editor.Config{
			Value:       f.Value,
			Session:     m.cfg.SessionOptions(),
			Style:       editor.DefaultStyle(),
			ShowToolbar: m.cfg.Editor.ShowToolbar && i == 0,
			KeyMap:      km,
			Toolbar:     m.bar,
			Views:       m.views,
			Logger:      m.log.With("field", name),
			OnChange: func(ev editor.ChangeEvent) {
				if err := doc.rec.Set(name, ev.Value); err != nil {
					log.Error("field change dropped", "field", name, "err", err)
					return
				}
				doc.dirty = true
				log.Debug("field changed", "field", name, "op", ev.Op, "version", ev.Version)
			},
		})
		m.editors[i] = ed.Blur()
	}
	if m.focus >= len(m.editors) {
		m.focus = 0
	}
	if len(m.editors) > 0 {
		m.editors[m.focus] = m.editors[m.focus].Focus()
	}
	m.layout()
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case fileChangedMsg:
		m.applyExternal(msg)
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
			m.log.Error("save failed", "file", m.doc.path, "err", msg.err)
			return m, nil
		}
		m.status = "saved " + m.doc.path
		return m, nil

	case tea.KeyMsg:
		if !key.Matches(msg, m.keys.Quit) {
			m.quitArmed = false
		}
		ed := m.focused()
		prompting := ed != nil && ed.Prompting()
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.doc.dirty && !m.quitArmed {
				m.quitArmed = true
				m.status = "unsaved changes, " + m.keys.Quit.Help().Key + " again to quit"
				return m, nil
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Save):
			snap := m.doc.rec.Clone()
			m.doc.written = snap
			m.doc.dirty = false
			m.status = "saving..."
			return m, m.save(m.doc.path, snap)
		case !prompting && key.Matches(msg, m.keys.Next):
			m.moveFocus(1)
			return m, nil
		case !prompting && key.Matches(msg, m.keys.Prev):
			m.moveFocus(-1)
			return m, nil
		}
	}

	if ed := m.focused(); ed != nil {
		var cmd tea.Cmd
		m.editors[m.focus], cmd = ed.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) focused() *editor.Model {
	if m.focus < 0 || m.focus >= len(m.editors) {
		return nil
	}
	return &m.editors[m.focus]
}

func (m *appModel) moveFocus(delta int) {
	n := len(m.editors)
	if n == 0 {
		return
	}
	m.editors[m.focus] = m.editors[m.focus].Blur()
	m.focus = ((m.focus+delta)%n + n) % n
	m.editors[m.focus] = m.editors[m.focus].Focus()
}

// applyExternal pushes a re-read record into the editors. The record we
// last wrote is ignored, and so are values equal to an editor's own.
func (m *appModel) applyExternal(msg fileChangedMsg) {
	if msg.err != nil {
		m.status = "reload failed: " + msg.err.Error()
		m.log.Warn("reload failed", "file", m.doc.path, "err", msg.err)
		return
	}
	if msg.rec.Equal(m.doc.written) {
		m.log.Debug("ignoring our own write", "file", m.doc.path)
		return
	}
	fields := msg.rec.Fields()
	if len(fields) != len(m.editors) {
		m.log.Info("field set changed on disk, rebuilding", "file", m.doc.path)
		m.doc.rec = msg.rec
		m.doc.dirty = false
		m.buildEditors()
		m.status = "reloaded " + m.doc.path
		return
	}

	reloaded := false
	for i, f := range fields {
		before := m.editors[i].Field().Session().Version()
		m.editors[i] = m.editors[i].SetValue(f.Value)
		if m.editors[i].Field().Session().Version() != before {
			reloaded = true
		}
		if err := m.doc.rec.Set(f.Name, f.Value); err != nil {
			m.log.Error("reloaded field dropped", "field", f.Name, "err", err)
		}
	}
	if reloaded {
		m.doc.dirty = false
		m.status = "reloaded " + m.doc.path
	}
}

func (m *appModel) layout() {
	n := len(m.editors)
	if n == 0 {
		return
	}
	// One title row per field, the status row and the toolbar.
	avail := m.height - n - 1
	if m.cfg.Editor.ShowToolbar {
		avail--
	}
	per := max(avail/n, 1)
	for i := range m.editors {
		h := per
		if i == 0 && m.cfg.Editor.ShowToolbar {
			h++
		}
		m.editors[i] = m.editors[i].SetSize(m.width, h)
	}
}

func (m appModel) View() string {
	var sb strings.Builder
	for i, ed := range m.editors {
		st := titleStyle
		if i == m.focus {
			st = focusedTitle
		}
		sb.WriteString(st.Render(m.names[i]))
		sb.WriteByte('\n')
		sb.WriteString(ed.View())
		sb.WriteByte('\n')
	}
	status := m.status
	if m.doc.dirty {
		status = strings.TrimSpace("modified " + status)
	}
	sb.WriteString(statusStyle.Render(fmt.Sprintf("%s  [%s save · %s quit · %s next]",
		status, m.keys.Save.Help().Key, m.keys.Quit.Help().Key, m.keys.Next.Help().Key)))
	return sb.String()
}

package editor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/mathdoc/nodeview"
	"github.com/iw2rmb/mathdoc/prompt"
	"github.com/iw2rmb/mathdoc/session"
)

// inlinePrompt is the input shown under the document while a formula or
// image is being entered. The document is not touched until the answer is
// submitted.
type inlinePrompt struct {
	active bool
	req    prompt.Request
	input  prompt.Input

	// Insert target: a command and the session captured when the gesture
	// started.
	command string
	arg     string
	sess    *session.Session

	// Edit target, set instead of command when editing an existing formula.
	view *nodeview.FormulaView
}

func (p inlinePrompt) open(req prompt.Request, width int) (inlinePrompt, tea.Cmd) {
	in, cmd := prompt.NewInput(req, inputWidth(req, width))
	return inlinePrompt{active: true, req: req, input: in}, cmd
}

func inputWidth(req prompt.Request, width int) int {
	return width - lipgloss.Width(req.Title) - 1
}

// height is the number of rows the prompt adds below the document.
func (p inlinePrompt) height() int {
	if !p.active {
		return 0
	}
	return p.input.Height()
}

func (p inlinePrompt) close() inlinePrompt {
	return inlinePrompt{}
}

func (m Model) openInsertPrompt(name, arg string, req prompt.Request) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.open(req, m.width)
	m.prompt.command = name
	m.prompt.arg = arg
	m.prompt.sess = m.session()
	m.rebuildContent()
	return m, cmd
}

func (m Model) openEditPrompt(v *nodeview.FormulaView) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.open(prompt.FormulaRequest(v.Source()), m.width)
	m.prompt.view = v
	m.rebuildContent()
	return m, cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (Model, tea.Cmd) {
	km := m.cfg.KeyMap
	switch {
	case key.Matches(msg, km.Cancel), msg.Type == tea.KeyCtrlC:
		m.log.Debug("prompt dismissed", "kind", m.prompt.req.Kind.String())
		m.prompt = m.prompt.close()
		m.rebuildContent()
		return m, nil
	case key.Matches(msg, km.Submit):
		m.submitPrompt()
		m.prompt = m.prompt.close()
		m.rebuildContent()
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	m.rebuildContent()
	return m, cmd
}

func (m Model) submitPrompt() {
	p := m.prompt
	v := p.input.Value()
	if p.view != nil {
		if err := p.view.Commit(v); err != nil {
			m.log.Warn("formula edit dropped", "err", err)
		}
		return
	}
	out := m.cfg.Toolbar.DispatchTo(p.sess, p.command, map[string]string{p.arg: v})
	m.log.Debug("prompt submitted", "command", p.command, "outcome", out.String())
}

package prompt

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// maxInputRows caps how many rows an input grows to before it scrolls.
const maxInputRows = 6

// NewlineKeys insert a line break into an input. Enter submits.
var NewlineKeys = []string{"alt+enter", "ctrl+j"}

// Input is a multi-line text area seeded from a Request.
//
// The text area cleans what it is given: tabs become spaces, carriage
// returns become newlines, control characters are dropped. Value therefore
// hands back the seed itself while the text still reads exactly as it was
// shown, so submitting an untouched formula never rewrites its source.
type Input struct {
	area  textarea.Model
	seed  string
	shown string
}

// NewInput builds a focused input for req, width columns wide.
func NewInput(req Request, width int) (Input, tea.Cmd) {
	ta := textarea.New()
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Placeholder = req.Placeholder
	ta.KeyMap.InsertNewline.SetKeys(NewlineKeys...)
	ta.SetWidth(max(width, 1))
	ta.SetValue(req.Initial)

	in := Input{area: ta, seed: req.Initial, shown: ta.Value()}
	in.fitHeight()
	cmd := in.area.Focus()
	return in, cmd
}

// Value returns the text to submit.
func (in Input) Value() string {
	if v := in.area.Value(); v != in.shown {
		return v
	}
	return in.seed
}

// Height is the number of rows View occupies.
func (in Input) Height() int { return in.area.Height() }

func (in *Input) SetWidth(w int) { in.area.SetWidth(max(w, 1)) }

func (in Input) Update(msg tea.Msg) (Input, tea.Cmd) {
	var cmd tea.Cmd
	in.area, cmd = in.area.Update(msg)
	in.fitHeight()
	return in, cmd
}

func (in Input) View() string { return in.area.View() }

func (in *Input) fitHeight() {
	in.area.SetHeight(min(max(in.area.LineCount(), 1), maxInputRows))
}

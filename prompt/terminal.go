package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Terminal prompts on a terminal with a Bubble Tea text area; enter
// submits, alt+enter starts a new line. When In is not a TTY it reads one
// line instead; EOF cancels.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

// NewTerminal prompts on stdin, drawing on stderr.
func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stderr}
}

var titleStyle = lipgloss.NewStyle().Bold(true)

func (t *Terminal) Prompt(ctx context.Context, req Request) (string, bool, error) {
	if !isTTY(t.In) {
		return t.readLine(req)
	}

	in, _ := NewInput(req, 72)
	m := inputModel{title: req.Title, input: in}
	p := tea.NewProgram(m, tea.WithInput(t.In), tea.WithOutput(t.Out), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", false, fmt.Errorf("prompt: %w", err)
	}
	res, ok := final.(inputModel)
	if !ok {
		return "", false, fmt.Errorf("prompt: unexpected model type %T", final)
	}
	if !res.submitted {
		return "", false, nil
	}
	return res.input.Value(), true, nil
}

func (t *Terminal) readLine(req Request) (string, bool, error) {
	if t.Out != nil {
		fmt.Fprintf(t.Out, "%s: ", req.Title)
	}
	line, err := bufio.NewReader(t.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("prompt: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", false, nil
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

func isTTY(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type inputModel struct {
	title     string
	input     Input
	submitted bool
}

func (m inputModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	return titleStyle.Render(m.title) + "\n" + m.input.View() + "\n"
}

package editor

import "github.com/charmbracelet/lipgloss"

// Style controls the editor's rendering.
type Style struct {
	Text     lipgloss.Style
	Strong   lipgloss.Style
	Emphasis lipgloss.Style

	ListMarker lipgloss.Style

	Formula         lipgloss.Style
	FormulaSelected lipgloss.Style
	FormulaEmpty    lipgloss.Style
	FormulaError    lipgloss.Style
	Image           lipgloss.Style
	Placeholder     lipgloss.Style

	Selection lipgloss.Style
	Cursor    lipgloss.Style

	Toolbar       lipgloss.Style
	ToolbarActive lipgloss.Style
	PromptTitle   lipgloss.Style
}

func DefaultStyle() Style {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	return Style{
		Text:     lipgloss.NewStyle(),
		Strong:   lipgloss.NewStyle().Bold(true),
		Emphasis: lipgloss.NewStyle().Italic(true),

		ListMarker: dim,

		Formula:         lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
		FormulaSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Underline(true),
		FormulaEmpty:    dim,
		FormulaError:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Image:           lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		Placeholder:     dim.Italic(true),

		Selection: lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:    lipgloss.NewStyle().Reverse(true),

		Toolbar:       dim,
		ToolbarActive: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
		PromptTitle:   lipgloss.NewStyle().Bold(true),
	}
}

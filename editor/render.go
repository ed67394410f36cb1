package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/mathdoc/nodeview"
	"github.com/iw2rmb/mathdoc/schema"
	"github.com/iw2rmb/mathdoc/session"
	"github.com/iw2rmb/mathdoc/texrender"
)

// segment is one rendered cell (or the end-of-block cursor).
type segment struct {
	s      string
	width  int
	cursor bool
}

func (m *Model) render() string {
	var parts []string
	if m.cfg.ShowToolbar {
		parts = append(parts, m.renderToolbar())
	}
	parts = append(parts, m.viewport.View())
	if m.prompt.active {
		title := m.cfg.Style.PromptTitle.Render(m.prompt.req.Title) + " "
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, title, m.prompt.input.View()))
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderToolbar() string {
	items := m.cfg.Toolbar.Items()
	out := make([]string, 0, len(items))
	for _, it := range items {
		st := m.cfg.Style.Toolbar
		if m.focused && m.cfg.Toolbar.Focused() == m.session() && m.cfg.Toolbar.Active(it.Command) {
			st = m.cfg.Style.ToolbarActive
		}
		out = append(out, st.Render("["+it.Label+"]"))
	}
	return strings.Join(out, " ")
}

// renderContent renders the document and returns the visual line the
// cursor is on.
func (m *Model) renderContent() (string, int) {
	s := m.session()
	blocks := s.Blocks()
	sel := s.Selection()
	views := m.cfg.Views.Mount(s)
	showCursor := m.focused && !m.prompt.active && sel.Empty()

	var lines []string
	cursorLine := 0
	start := 0
	ordinal := 0
	for bi, b := range blocks {
		if bi > 0 {
			start += len(blocks[bi-1].Cells) + 1
		}
		if b.List == session.ListOrdered {
			ordinal++
		} else {
			ordinal = 0
		}

		segs := make([]segment, 0, len(b.Cells)+1)
		for ci, c := range b.Cells {
			pos := start + ci
			cursor := showCursor && sel.Head == pos
			str := m.renderCell(c, pos, views, sel, cursor)
			segs = append(segs, segment{s: str, width: lipgloss.Width(str), cursor: cursor})
		}
		if showCursor && sel.Head == start+len(b.Cells) {
			segs = append(segs, segment{s: m.cfg.Style.Cursor.Render(" "), width: 1, cursor: true})
		}

		marker := listMarker(b.List, ordinal)
		blockLines, at := wrapSegments(m.cfg.Style.ListMarker.Render(marker), lipgloss.Width(marker), segs, m.width)
		if at >= 0 {
			cursorLine = len(lines) + at
		}
		lines = append(lines, blockLines...)
	}
	return strings.Join(lines, "\n"), cursorLine
}

func listMarker(kind session.ListKind, ordinal int) string {
	switch kind {
	case session.ListBullet:
		return "• "
	case session.ListOrdered:
		return fmt.Sprintf("%d. ", ordinal)
	default:
		return ""
	}
}

func (m *Model) renderCell(c session.Cell, pos int, views map[int]nodeview.View, sel session.Selection, cursor bool) string {
	st := m.cfg.Style
	if c.IsAtom() {
		out := m.renderAtom(c.Atom, views[pos], sel)
		if cursor {
			out = st.Cursor.Render(out)
		}
		return out
	}

	ts := st.Text
	if c.HasMark(schema.MarkStrong) {
		ts = st.Strong.Inherit(ts)
	}
	if c.HasMark(schema.MarkEm) {
		ts = st.Emphasis.Inherit(ts)
	}
	if sel.Contains(pos) && !sel.Empty() {
		ts = st.Selection.Inherit(ts)
	}
	if cursor {
		ts = st.Cursor.Inherit(ts)
	}
	text := c.Text
	if text == "\t" {
		text = "    "
	}
	return ts.Render(text)
}

func (m *Model) renderAtom(n *schema.Node, v nodeview.View, sel session.Selection) string {
	st := m.cfg.Style
	switch n.Type {
	case schema.TypeFormula:
		fv, ok := v.(*nodeview.FormulaView)
		if !ok {
			return st.Formula.Render("[formula]")
		}
		r := fv.Render()
		switch {
		case r.Result.Empty:
			return st.FormulaEmpty.Render(texrender.EmptyText)
		case r.Failed:
			return st.FormulaError.Render("⚠ " + r.Source)
		case r.Selected:
			return st.FormulaSelected.Render(r.Result.Text)
		default:
			return st.Formula.Render(r.Result.Text)
		}
	case schema.TypeImage:
		label := n.Attr(schema.AttrAlt)
		if label == "" {
			label = n.Attr(schema.AttrSrc)
		}
		return st.Image.Render("[image: " + label + "]")
	case schema.TypePlaceholder:
		label := n.Attr(schema.AttrText)
		if label == "" {
			label = n.Attr(schema.AttrOriginal)
		}
		return st.Placeholder.Render("[" + label + "]")
	default:
		return st.Placeholder.Render("[" + n.Type + "]")
	}
}

// wrapSegments lays segments out on lines no wider than width, prefixing
// the first with marker and indenting the rest to match. width <= 0
// disables wrapping. It returns the index of the line holding the cursor,
// or -1.
func wrapSegments(marker string, markerWidth int, segs []segment, width int) ([]string, int) {
	indent := strings.Repeat(" ", markerWidth)
	var lines []string
	var sb strings.Builder
	sb.WriteString(marker)
	used := markerWidth
	cursorAt := -1
	empty := true

	for _, seg := range segs {
		if width > 0 && !empty && used+seg.width > width {
			lines = append(lines, sb.String())
			sb.Reset()
			sb.WriteString(indent)
			used = markerWidth
		}
		sb.WriteString(seg.s)
		used += seg.width
		empty = false
		if seg.cursor {
			cursorAt = len(lines)
		}
	}
	lines = append(lines, sb.String())
	return lines, cursorAt
}

package session

import (
	"slices"
	"strings"

	"github.com/iw2rmb/mathdoc/internal/grapheme"
	"github.com/iw2rmb/mathdoc/schema"
)

// fromDoc flattens a document tree into blocks. Nested lists and list items
// holding several paragraphs become one block per paragraph, each taking
// the kind of its nearest enclosing list.
func fromDoc(reg *schema.Registry, doc *schema.Node) []Block {
	var out []Block
	if doc != nil {
		for _, n := range doc.Content {
			out = appendBlocks(reg, out, n, ListNone)
		}
	}
	if len(out) == 0 {
		out = []Block{{}}
	}
	return out
}

func appendBlocks(reg *schema.Registry, out []Block, n *schema.Node, kind ListKind) []Block {
	if n == nil {
		return out
	}
	switch n.Type {
	case schema.TypeParagraph:
		return append(out, Block{List: kind, Cells: inlineCells(reg, n.Content)})
	case schema.TypeBulletList:
		kind = ListBullet
	case schema.TypeOrderedList:
		kind = ListOrdered
	case schema.TypeListItem, schema.TypeDoc:
	default:
		// Inline content at block level gets a block of its own.
		return append(out, Block{List: kind, Cells: inlineCells(reg, []*schema.Node{n})})
	}
	for _, c := range n.Content {
		out = appendBlocks(reg, out, c, kind)
	}
	return out
}

func inlineCells(reg *schema.Registry, nodes []*schema.Node) []Cell {
	var cells []Cell
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.Type == schema.TypeText {
			marks := reg.SortMarks(n.Marks)
			if len(marks) == 0 {
				marks = nil
			}
			for _, g := range grapheme.Split(n.Text) {
				cells = append(cells, Cell{Text: g, Marks: marks})
			}
			continue
		}
		if t, ok := reg.Node(n.Type); ok && !t.IsAtom() {
			// A container inside a paragraph: keep its inline content.
			cells = append(cells, inlineCells(reg, n.Content)...)
			continue
		}
		cells = append(cells, Cell{Atom: n})
	}
	return cells
}

// toDoc builds the canonical document tree for blocks. Consecutive list
// blocks of the same kind share one list node; adjacent text cells with
// equal marks merge into one text node.
func toDoc(blocks []Block) *schema.Node {
	doc := schema.Doc()
	var list *schema.Node
	var listKind ListKind
	for _, b := range blocks {
		p := schema.Paragraph(inlineNodes(b.Cells)...)
		if b.List == ListNone {
			list = nil
			doc.Content = append(doc.Content, p)
			continue
		}
		if list == nil || listKind != b.List {
			if b.List == ListBullet {
				list = schema.BulletList()
			} else {
				list = schema.OrderedList()
			}
			listKind = b.List
			doc.Content = append(doc.Content, list)
		}
		list.Content = append(list.Content, schema.ListItem(p))
	}
	return doc
}

func inlineNodes(cells []Cell) []*schema.Node {
	var out []*schema.Node
	var run strings.Builder
	var runMarks []string
	flush := func() {
		if run.Len() == 0 {
			return
		}
		out = append(out, schema.Text(run.String(), runMarks...))
		run.Reset()
	}
	for _, c := range cells {
		if c.IsAtom() {
			flush()
			out = append(out, c.Atom)
			continue
		}
		if run.Len() > 0 && !slices.Equal(runMarks, c.Marks) {
			flush()
		}
		if run.Len() == 0 {
			runMarks = c.Marks
		}
		run.WriteString(c.Text)
	}
	flush()
	return out
}

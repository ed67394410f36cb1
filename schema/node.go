package schema

import "strings"

// Node is one element of a document tree.
//
// Text nodes use Text and Marks. Atoms use Attrs. Containers use Content.
// Nodes handed out by the editing session are treated as immutable; use
// WithAttr or Clone to derive modified copies.
type Node struct {
	Type    string
	Attrs   map[string]string
	Content []*Node
	Text    string
	Marks   []string
}

// Doc builds a document node.
func Doc(blocks ...*Node) *Node { return &Node{Type: TypeDoc, Content: blocks} }

// Paragraph builds a paragraph with inline content.
func Paragraph(inline ...*Node) *Node { return &Node{Type: TypeParagraph, Content: inline} }

// BulletList builds an unordered list of items.
func BulletList(items ...*Node) *Node { return &Node{Type: TypeBulletList, Content: items} }

// OrderedList builds an ordered list of items.
func OrderedList(items ...*Node) *Node { return &Node{Type: TypeOrderedList, Content: items} }

// ListItem builds a list item around one paragraph.
func ListItem(p *Node) *Node { return &Node{Type: TypeListItem, Content: []*Node{p}} }

// Text builds a text node with optional marks.
func Text(s string, marks ...string) *Node {
	return &Node{Type: TypeText, Text: s, Marks: marks}
}

// Formula builds a formula atom carrying raw typesetting source.
func Formula(source string) *Node {
	return &Node{Type: TypeFormula, Attrs: map[string]string{AttrSource: source}}
}

// Image builds an image atom.
func Image(src, alt string) *Node {
	return &Node{Type: TypeImage, Attrs: map[string]string{AttrSrc: src, AttrAlt: alt}}
}

// Placeholder builds the stand-in for content of an unknown type.
func Placeholder(original, text string) *Node {
	return &Node{Type: TypePlaceholder, Attrs: map[string]string{AttrOriginal: original, AttrText: text}}
}

// Attr returns the attribute value, or the registry default when unset.
func (n *Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	if v, ok := n.Attrs[name]; ok {
		return v
	}
	if t, ok := defaultRegistry.Node(n.Type); ok {
		for _, a := range t.Attrs {
			if a.Name == name {
				return a.Default
			}
		}
	}
	return ""
}

// WithAttr returns a copy of n with one attribute replaced.
func (n *Node) WithAttr(name, value string) *Node {
	out := n.Clone()
	if out.Attrs == nil {
		out.Attrs = make(map[string]string, 1)
	}
	out.Attrs[name] = value
	return out
}

// HasMark reports whether a text node carries the mark.
func (n *Node) HasMark(name string) bool {
	for _, m := range n.Marks {
		if m == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Type: n.Type, Text: n.Text}
	if n.Attrs != nil {
		out.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			out.Attrs[k] = v
		}
	}
	if n.Marks != nil {
		out.Marks = append([]string(nil), n.Marks...)
	}
	if n.Content != nil {
		out.Content = make([]*Node, len(n.Content))
		for i, c := range n.Content {
			out.Content[i] = c.Clone()
		}
	}
	return out
}

// TextContent concatenates the text of n and its descendants. Atoms
// contribute nothing except placeholders, which contribute their text.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.appendText(&sb)
	return sb.String()
}

func (n *Node) appendText(sb *strings.Builder) {
	if n == nil {
		return
	}
	switch n.Type {
	case TypeText:
		sb.WriteString(n.Text)
	case TypePlaceholder:
		sb.WriteString(n.Attr(AttrText))
	}
	for _, c := range n.Content {
		c.appendText(sb)
	}
}

// IsEmptyDoc reports whether n is a document with no content beyond one
// empty paragraph.
func IsEmptyDoc(n *Node) bool {
	if n == nil {
		return true
	}
	if n.Type != TypeDoc {
		return false
	}
	switch len(n.Content) {
	case 0:
		return true
	case 1:
		p := n.Content[0]
		return p != nil && p.Type == TypeParagraph && len(p.Content) == 0
	default:
		return false
	}
}

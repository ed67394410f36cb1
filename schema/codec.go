package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// IssueKind classifies a recovery made while parsing a serialized value.
type IssueKind uint8

const (
	// IssueMalformed means the value was not a JSON document and was
	// loaded as plain text instead.
	IssueMalformed IssueKind = iota
	// IssueUnknownNode means a node type is not in the registry and was
	// replaced by a placeholder.
	IssueUnknownNode
	// IssueUnknownMark means a mark was dropped.
	IssueUnknownMark
	// IssueInvalidAttr means an attribute was dropped or coerced.
	IssueInvalidAttr
	// IssueInvalidContent means a child was moved or rewrapped to fit the
	// content rules.
	IssueInvalidContent
)

func (k IssueKind) String() string {
	switch k {
	case IssueMalformed:
		return "malformed"
	case IssueUnknownNode:
		return "unknown-node"
	case IssueUnknownMark:
		return "unknown-mark"
	case IssueInvalidAttr:
		return "invalid-attr"
	case IssueInvalidContent:
		return "invalid-content"
	default:
		return "unknown"
	}
}

// Issue records one recovery made while loading a value. Issues never stop
// a parse.
type Issue struct {
	Path   string
	Kind   IssueKind
	Detail string
}

func (i Issue) String() string {
	if i.Path == "" {
		return fmt.Sprintf("%s: %s", i.Kind, i.Detail)
	}
	return fmt.Sprintf("%s at %s: %s", i.Kind, i.Path, i.Detail)
}

type wireMark struct {
	Type string `json:"type"`
}

type wireNode struct {
	Type    string            `json:"type"`
	Attrs   map[string]string `json:"attrs,omitempty"`
	Content []*wireNode       `json:"content,omitempty"`
	Text    string            `json:"text,omitempty"`
	Marks   []wireMark        `json:"marks,omitempty"`
}

type rawNode struct {
	Type    string                     `json:"type"`
	Attrs   map[string]json.RawMessage `json:"attrs"`
	Content []json.RawMessage          `json:"content"`
	Text    json.RawMessage            `json:"text"`
	Marks   []json.RawMessage          `json:"marks"`
}

// Serialize writes n with the default registry.
func Serialize(n *Node) string { return defaultRegistry.Serialize(n) }

// Parse reads s with the default registry.
func Parse(s string) (*Node, []Issue) { return defaultRegistry.Parse(s) }

// Serialize returns the canonical string form of a document.
//
// Declared attributes are always written (defaults filled in), undeclared
// ones are dropped, and marks are ordered by rank, so equal documents
// serialize to equal strings. An empty document serializes to "".
func (r *Registry) Serialize(n *Node) string {
	if IsEmptyDoc(n) {
		return ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.toWire(n)); err != nil {
		// Only reachable with unsupported values, which wireNode has none of.
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func (r *Registry) toWire(n *Node) *wireNode {
	w := &wireNode{Type: n.Type}
	if t, ok := r.Node(n.Type); ok {
		if len(t.Attrs) > 0 {
			w.Attrs = make(map[string]string, len(t.Attrs))
			for _, a := range t.Attrs {
				v, ok := n.Attrs[a.Name]
				if !ok {
					v = a.Default
				}
				w.Attrs[a.Name] = v
			}
		}
	} else if len(n.Attrs) > 0 {
		w.Attrs = n.Attrs
	}
	if n.Type == TypeText {
		w.Text = n.Text
		w.Marks = r.wireMarks(n.Marks)
	}
	for _, c := range n.Content {
		if c == nil {
			continue
		}
		w.Content = append(w.Content, r.toWire(c))
	}
	return w
}

func (r *Registry) wireMarks(marks []string) []wireMark {
	if len(marks) == 0 {
		return nil
	}
	names := r.SortMarks(marks)
	out := make([]wireMark, 0, len(names))
	for _, m := range names {
		out = append(out, wireMark{Type: m})
	}
	return out
}

// SortMarks returns the known marks in rank order without duplicates.
func (r *Registry) SortMarks(marks []string) []string {
	seen := make(map[string]bool, len(marks))
	out := make([]string, 0, len(marks))
	for _, m := range marks {
		if _, ok := r.byMark[m]; !ok || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return r.byMark[out[i]] < r.byMark[out[j]] })
	return out
}

// Parse reads a serialized value. It never fails: anything it cannot
// understand is recovered and reported as an Issue.
func (r *Registry) Parse(s string) (*Node, []Issue) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Doc(Paragraph()), nil
	}

	p := &parser{reg: r}
	switch trimmed[0] {
	case '{':
		var raw rawNode
		err := json.Unmarshal([]byte(trimmed), &raw)
		if err == nil {
			return p.root(&raw), p.issues
		}
		p.add("", IssueMalformed, err.Error())
	case '[':
		var content []json.RawMessage
		err := json.Unmarshal([]byte(trimmed), &content)
		if err == nil && len(content) > 0 && allTyped(content) {
			return p.root(&rawNode{Type: TypeDoc, Content: content}), p.issues
		}
		if err == nil {
			// Text that happens to be a JSON array, such as an interval.
			return plainTextDoc(s), nil
		}
		p.add("", IssueMalformed, err.Error())
	}
	return plainTextDoc(s), p.issues
}

// allTyped reports whether every element is an object with a type.
func allTyped(content []json.RawMessage) bool {
	for _, rc := range content {
		var n rawNode
		if err := json.Unmarshal(rc, &n); err != nil || n.Type == "" {
			return false
		}
	}
	return true
}

func plainTextDoc(s string) *Node {
	lines := strings.Split(s, "\n")
	blocks := make([]*Node, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			blocks = append(blocks, Paragraph())
			continue
		}
		blocks = append(blocks, Paragraph(Text(line)))
	}
	return Doc(blocks...)
}

type parser struct {
	reg    *Registry
	issues []Issue
}

func (p *parser) add(path string, kind IssueKind, detail string) {
	p.issues = append(p.issues, Issue{Path: path, Kind: kind, Detail: detail})
}

func (p *parser) root(raw *rawNode) *Node {
	if raw.Type == TypeDoc {
		return p.node(raw, "")
	}
	n := p.node(raw, "")
	doc := Doc()
	dt, _ := p.reg.Node(TypeDoc)
	if !dt.Allows(n.Type) {
		var open *Node
		p.adopt(dt, doc, n, "", &open)
		return doc
	}
	p.add("", IssueInvalidContent, fmt.Sprintf("root %q wrapped in %q", raw.Type, TypeDoc))
	doc.Content = append(doc.Content, n)
	return doc
}

func (p *parser) node(raw *rawNode, path string) *Node {
	t, ok := p.reg.Node(raw.Type)
	if !ok {
		p.add(path, IssueUnknownNode, fmt.Sprintf("node type %q", raw.Type))
		return Placeholder(raw.Type, rawText(raw))
	}

	n := &Node{Type: t.Name}
	switch t.Arity {
	case ArityText:
		n.Text = p.textValue(raw.Text, path)
		n.Marks = p.marks(raw.Marks, path)
	case ArityAtom:
		n.Attrs = p.attrs(t, raw.Attrs, path)
	case ArityContainer:
		n.Attrs = p.attrs(t, raw.Attrs, path)
		var open *Node
		for i, rc := range raw.Content {
			childPath := fmt.Sprintf("%s.content[%d]", path, i)
			if path == "" {
				childPath = fmt.Sprintf("content[%d]", i)
			}
			var child rawNode
			if err := json.Unmarshal(rc, &child); err != nil || child.Type == "" {
				p.add(childPath, IssueUnknownNode, "child is not a typed node")
				p.adopt(t, n, Placeholder("", jsonScalarText(rc)), childPath, &open)
				continue
			}
			p.adopt(t, n, p.node(&child, childPath), childPath, &open)
		}
	}
	return n
}

// adopt appends child to n. A child n's type does not allow is rewrapped
// or unwrapped until it fits, and the change is reported. Consecutive
// stray inline nodes share one paragraph, tracked through open.
func (p *parser) adopt(t *NodeType, n, child *Node, path string, open **Node) {
	nested := t.Name == TypeListItem && (child.Type == TypeBulletList || child.Type == TypeOrderedList)
	if t.Allows(child.Type) || nested {
		// Nested lists stay as loaded; sessions flatten them keeping
		// each item's nearest list kind.
		*open = nil
		n.Content = append(n.Content, child)
		return
	}
	ct, ok := p.reg.Node(child.Type)
	inline := !ok || ct.Group == GroupInline
	switch {
	case inline && t.Allows(TypeParagraph):
		if *open == nil {
			p.add(path, IssueInvalidContent, fmt.Sprintf("inline %q wrapped in %q", child.Type, TypeParagraph))
			*open = Paragraph()
			n.Content = append(n.Content, *open)
		}
		(*open).Content = append((*open).Content, child)
	case inline && t.Allows(TypeListItem):
		p.add(path, IssueInvalidContent, fmt.Sprintf("inline %q wrapped in %q", child.Type, TypeListItem))
		*open = nil
		n.Content = append(n.Content, ListItem(Paragraph(child)))
	case child.Type == TypeParagraph && t.Allows(TypeListItem):
		p.add(path, IssueInvalidContent, fmt.Sprintf("%q wrapped in %q", child.Type, TypeListItem))
		*open = nil
		n.Content = append(n.Content, ListItem(child))
	case child.Type == TypeListItem && t.Allows(TypeBulletList):
		p.add(path, IssueInvalidContent, fmt.Sprintf("%q wrapped in %q", child.Type, TypeBulletList))
		*open = nil
		n.Content = append(n.Content, BulletList(child))
	default:
		p.add(path, IssueInvalidContent, fmt.Sprintf("%q not allowed in %q, content lifted", child.Type, t.Name))
		for _, gc := range child.Content {
			p.adoptLifted(t, n, gc, open)
		}
	}
}

// adoptLifted places a grandchild already reported through its parent.
func (p *parser) adoptLifted(t *NodeType, n, child *Node, open **Node) {
	before := len(p.issues)
	p.adopt(t, n, child, "", open)
	p.issues = p.issues[:before]
}

func (p *parser) attrs(t *NodeType, raw map[string]json.RawMessage, path string) map[string]string {
	out := t.DefaultAttrs()
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !t.hasAttr(k) {
			p.add(path, IssueInvalidAttr, fmt.Sprintf("attribute %q dropped from %q", k, t.Name))
			continue
		}
		v := raw[k]
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = s
			continue
		}
		if string(bytes.TrimSpace(v)) == "null" {
			continue
		}
		p.add(path, IssueInvalidAttr, fmt.Sprintf("attribute %q coerced to string", k))
		out[k] = string(bytes.TrimSpace(v))
	}
	return out
}

func (p *parser) textValue(raw json.RawMessage, path string) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	p.add(path, IssueInvalidAttr, "text coerced to string")
	return jsonScalarText(raw)
}

func (p *parser) marks(raw []json.RawMessage, path string) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	for _, rm := range raw {
		var m wireMark
		if err := json.Unmarshal(rm, &m); err != nil {
			// Bare string marks are accepted as a shorthand.
			if err := json.Unmarshal(rm, &m.Type); err != nil {
				p.add(path, IssueUnknownMark, "mark is not an object")
				continue
			}
		}
		if _, ok := p.reg.Mark(m.Type); !ok {
			p.add(path, IssueUnknownMark, fmt.Sprintf("mark %q", m.Type))
			continue
		}
		out = append(out, m.Type)
	}
	return p.reg.SortMarks(out)
}

// rawText collects the text found anywhere inside an unrecognized node so
// the placeholder still shows what the author wrote.
func rawText(raw *rawNode) string {
	var sb strings.Builder
	var walk func(r *rawNode)
	walk = func(r *rawNode) {
		if len(r.Text) > 0 {
			var s string
			if json.Unmarshal(r.Text, &s) == nil {
				sb.WriteString(s)
			}
		}
		for _, rc := range r.Content {
			var child rawNode
			if json.Unmarshal(rc, &child) == nil {
				walk(&child)
			}
		}
	}
	walk(raw)
	return sb.String()
}

func jsonScalarText(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

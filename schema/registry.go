// Package schema declares the node and mark types a document may contain and
// the serialized form documents are exchanged in.
//
// The registry is immutable after construction and holds no per-document
// state, so a single instance is shared by every editing session.
package schema

// Group tells where a node type may appear.
type Group uint8

const (
	GroupBlock Group = iota
	GroupInline
)

// Arity tells whether a node type has children.
type Arity uint8

const (
	// ArityContainer nodes hold an ordered list of children.
	ArityContainer Arity = iota
	// ArityAtom nodes have no children and are edited only through their
	// attributes. The cursor never enters them.
	ArityAtom
	// ArityText is the leaf carrying character data and marks.
	ArityText
)

// Node type names.
const (
	TypeDoc         = "doc"
	TypeParagraph   = "paragraph"
	TypeBulletList  = "bullet_list"
	TypeOrderedList = "ordered_list"
	TypeListItem    = "list_item"
	TypeText        = "text"
	TypeFormula     = "formula"
	TypeImage       = "image"
	TypePlaceholder = "placeholder"
)

// Mark type names.
const (
	MarkEm     = "em"
	MarkStrong = "strong"
)

// Attribute names.
const (
	AttrSource   = "source"
	AttrSrc      = "src"
	AttrAlt      = "alt"
	AttrOriginal = "original"
	AttrText     = "text"
)

// ViewFormula is the view key bound to formula nodes.
const ViewFormula = "formula"

// AttrSpec declares one attribute and its default value.
type AttrSpec struct {
	Name    string
	Default string
}

// NodeType describes one kind of node.
type NodeType struct {
	Name  string
	Group Group
	Arity Arity

	// Content lists the node types allowed as children, in the order
	// they are expected. Empty for atoms and text.
	Content []string

	Attrs []AttrSpec

	// View names the presentation component for nodes of this type.
	// Empty means the node renders from its data alone.
	View string
}

// IsAtom reports whether nodes of this type are atomic.
func (t *NodeType) IsAtom() bool { return t.Arity == ArityAtom }

// Allows reports whether child is a permitted child type.
func (t *NodeType) Allows(child string) bool {
	for _, c := range t.Content {
		if c == child {
			return true
		}
	}
	return false
}

// DefaultAttrs returns a fresh attribute map populated with defaults.
func (t *NodeType) DefaultAttrs() map[string]string {
	if len(t.Attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(t.Attrs))
	for _, a := range t.Attrs {
		out[a.Name] = a.Default
	}
	return out
}

func (t *NodeType) hasAttr(name string) bool {
	for _, a := range t.Attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// MarkType describes an inline text mark. Rank fixes the serialization order.
type MarkType struct {
	Name string
	Rank int
}

// Registry is the fixed catalog of node and mark types.
type Registry struct {
	nodes  []NodeType
	byName map[string]int
	marks  []MarkType
	byMark map[string]int
}

var defaultRegistry = newRegistry(
	[]NodeType{
		{Name: TypeDoc, Group: GroupBlock, Arity: ArityContainer, Content: []string{TypeParagraph, TypeBulletList, TypeOrderedList}},
		{Name: TypeParagraph, Group: GroupBlock, Arity: ArityContainer, Content: []string{TypeText, TypeFormula, TypeImage, TypePlaceholder}},
		{Name: TypeBulletList, Group: GroupBlock, Arity: ArityContainer, Content: []string{TypeListItem}},
		{Name: TypeOrderedList, Group: GroupBlock, Arity: ArityContainer, Content: []string{TypeListItem}},
		{Name: TypeListItem, Group: GroupBlock, Arity: ArityContainer, Content: []string{TypeParagraph}},
		{Name: TypeText, Group: GroupInline, Arity: ArityText},
		{
			Name:  TypeFormula,
			Group: GroupInline,
			Arity: ArityAtom,
			Attrs: []AttrSpec{{Name: AttrSource}},
			View:  ViewFormula,
		},
		{
			Name:  TypeImage,
			Group: GroupInline,
			Arity: ArityAtom,
			Attrs: []AttrSpec{{Name: AttrSrc}, {Name: AttrAlt}},
		},
		{
			Name:  TypePlaceholder,
			Group: GroupInline,
			Arity: ArityAtom,
			Attrs: []AttrSpec{{Name: AttrOriginal}, {Name: AttrText}},
		},
	},
	[]MarkType{
		{Name: MarkEm},
		{Name: MarkStrong},
	},
)

// Default returns the shared registry.
func Default() *Registry { return defaultRegistry }

func newRegistry(nodes []NodeType, marks []MarkType) *Registry {
	r := &Registry{
		nodes:  nodes,
		byName: make(map[string]int, len(nodes)),
		marks:  marks,
		byMark: make(map[string]int, len(marks)),
	}
	for i, n := range nodes {
		r.byName[n.Name] = i
	}
	for i := range marks {
		r.marks[i].Rank = i
		r.byMark[marks[i].Name] = i
	}
	return r
}

// Node looks up a node type by name.
func (r *Registry) Node(name string) (*NodeType, bool) {
	i, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return &r.nodes[i], true
}

// Mark looks up a mark type by name.
func (r *Registry) Mark(name string) (MarkType, bool) {
	i, ok := r.byMark[name]
	if !ok {
		return MarkType{}, false
	}
	return r.marks[i], true
}

// Nodes returns a copy of the node catalog in declaration order.
func (r *Registry) Nodes() []NodeType {
	return append([]NodeType(nil), r.nodes...)
}

// Marks returns a copy of the mark catalog in rank order.
func (r *Registry) Marks() []MarkType {
	return append([]MarkType(nil), r.marks...)
}

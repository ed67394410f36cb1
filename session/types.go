package session

import "github.com/iw2rmb/mathdoc/schema"

// ListKind says whether a block is a list item, and of which list.
type ListKind uint8

const (
	ListNone ListKind = iota
	ListBullet
	ListOrdered
)

func (k ListKind) String() string {
	switch k {
	case ListBullet:
		return "bullet"
	case ListOrdered:
		return "ordered"
	default:
		return "none"
	}
}

// Cell is one cursor unit: a grapheme cluster of text, or an atom.
//
// Atom nodes and Marks slices are never mutated in place; edits replace them.
type Cell struct {
	Text  string
	Marks []string
	Atom  *schema.Node
}

// IsAtom reports whether the cell holds an atom node.
func (c Cell) IsAtom() bool { return c.Atom != nil }

// HasMark reports whether a text cell carries the mark.
func (c Cell) HasMark(mark string) bool {
	for _, m := range c.Marks {
		if m == mark {
			return true
		}
	}
	return false
}

// Block is one paragraph of cells.
type Block struct {
	List  ListKind
	Cells []Cell
}

func (b Block) clone() Block {
	return Block{List: b.List, Cells: append([]Cell(nil), b.Cells...)}
}

func cloneBlocks(in []Block) []Block {
	out := make([]Block, len(in))
	for i, b := range in {
		out[i] = b.clone()
	}
	return out
}

// Selection is an anchor/head pair of document offsets. Head is where the
// cursor is drawn; an empty selection is a caret.
type Selection struct {
	Anchor int
	Head   int
}

// Caret returns an empty selection at pos.
func Caret(pos int) Selection { return Selection{Anchor: pos, Head: pos} }

// From returns the smaller end.
func (s Selection) From() int { return min(s.Anchor, s.Head) }

// To returns the larger end.
func (s Selection) To() int { return max(s.Anchor, s.Head) }

// Empty reports whether the selection is a caret.
func (s Selection) Empty() bool { return s.Anchor == s.Head }

// Contains reports whether [pos, pos+1) intersects the selection. A caret
// never contains a unit.
func (s Selection) Contains(pos int) bool {
	return !s.Empty() && pos >= s.From() && pos < s.To()
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampSelection clamps both ends into [0, length].
func ClampSelection(s Selection, length int) Selection {
	return Selection{
		Anchor: clampInt(s.Anchor, 0, length),
		Head:   clampInt(s.Head, 0, length),
	}
}

// AtomRef locates one atom in the document.
type AtomRef struct {
	Pos  int
	Node *schema.Node
}

// loc addresses a gap between cells: cell is in [0, len(Cells)].
type loc struct {
	block int
	cell  int
}

func docLength(blocks []Block) int {
	n := 0
	for i, b := range blocks {
		if i > 0 {
			n++
		}
		n += len(b.Cells)
	}
	return n
}

func locate(blocks []Block, off int) loc {
	if off < 0 {
		off = 0
	}
	for i, b := range blocks {
		if off <= len(b.Cells) {
			return loc{block: i, cell: off}
		}
		off -= len(b.Cells) + 1
	}
	last := len(blocks) - 1
	return loc{block: last, cell: len(blocks[last].Cells)}
}

func offsetOf(blocks []Block, l loc) int {
	off := 0
	for i := 0; i < l.block && i < len(blocks); i++ {
		off += len(blocks[i].Cells) + 1
	}
	return off + l.cell
}

// Package session implements the editing session: one mutable, undoable
// document behind one editor field.
//
// The document is a flat list of blocks. A block is a paragraph, optionally
// marked as a bullet or ordered list item, holding cells. A cell is either
// one grapheme cluster of text (with marks) or one atom such as a formula.
//
// Offsets are 0-based. Every cell occupies one unit and consecutive blocks
// are separated by one unit, so the document spans [0, Length()].
package session

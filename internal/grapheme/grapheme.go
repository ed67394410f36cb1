// Package grapheme splits text into the user-perceived characters that the
// editing session treats as single cursor units.
package grapheme

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Split returns grapheme clusters for text in visual order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	out := make([]string, 0, len(text))
	state := -1
	for text != "" {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		out = append(out, cluster)
	}
	return out
}

// Lines splits text into lines of clusters. CRLF and lone CR count as line
// breaks, so pasted text from any platform yields the same lines. The
// result always has at least one (possibly empty) line.
func Lines(text string) [][]string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	parts := strings.Split(text, "\n")
	out := make([][]string, len(parts))
	for i, p := range parts {
		out[i] = Split(p)
	}
	return out
}

// Class groups clusters for word-wise movement.
type Class uint8

const (
	ClassWord Class = iota
	ClassSpace
	ClassPunct
)

// Classify returns the class of a cluster. A cluster is space or
// punctuation only when every rune in it is; anything mixed is a word.
func Classify(cluster string) Class {
	switch {
	case cluster == "":
		return ClassSpace
	case allRunes(cluster, unicode.IsSpace):
		return ClassSpace
	case allRunes(cluster, unicode.IsPunct):
		return ClassPunct
	default:
		return ClassWord
	}
}

func allRunes(cluster string, pred func(rune) bool) bool {
	for _, r := range cluster {
		if !pred(r) {
			return false
		}
	}
	return true
}

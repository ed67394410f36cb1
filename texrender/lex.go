package texrender

import (
	"unicode"
	"unicode/utf8"
)

type tokKind uint8

const (
	tkChar tokKind = iota
	tkCmd
	tkOpen
	tkClose
	tkSup
	tkSub
	tkAmp
	tkSpace
)

type token struct {
	kind tokKind
	val  string
	off  int
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// lex splits TeX math source into tokens. Offsets are byte offsets into src.
func lex(src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case r == '\\':
			j := i + 1
			if j >= len(src) {
				return nil, &SyntaxError{Offset: i, Msg: `stray \ at end of formula`}
			}
			k := j
			for k < len(src) && isLetter(src[k]) {
				k++
			}
			if k == j {
				_, sz := utf8.DecodeRuneInString(src[j:])
				k = j + sz
			}
			toks = append(toks, token{kind: tkCmd, val: src[j:k], off: i})
			i = k
			continue
		case r == '{':
			toks = append(toks, token{kind: tkOpen, val: "{", off: i})
		case r == '}':
			toks = append(toks, token{kind: tkClose, val: "}", off: i})
		case r == '^':
			toks = append(toks, token{kind: tkSup, val: "^", off: i})
		case r == '_':
			toks = append(toks, token{kind: tkSub, val: "_", off: i})
		case r == '&':
			toks = append(toks, token{kind: tkAmp, val: "&", off: i})
		case r == '%':
			// Comment runs to the end of the line.
			for i < len(src) && src[i] != '\n' {
				i++
			}
			continue
		case unicode.IsSpace(r):
			if n := len(toks); n == 0 || toks[n-1].kind != tkSpace {
				toks = append(toks, token{kind: tkSpace, val: " ", off: i})
			}
		case r == utf8.RuneError && size == 1:
			return nil, &SyntaxError{Offset: i, Msg: "invalid UTF-8 in formula"}
		default:
			toks = append(toks, token{kind: tkChar, val: src[i : i+size], off: i})
		}
		i += size
	}
	return toks, nil
}

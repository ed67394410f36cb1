package texrender

import (
	"strings"
	"unicode/utf8"
)

// toText renders an expression tree as a single line of Unicode text
// suitable for terminals.
func toText(e *expr) string {
	var sb strings.Builder
	writeText(&sb, e)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func textOf(e *expr) string {
	var sb strings.Builder
	writeText(&sb, e)
	return strings.TrimSpace(sb.String())
}

func writeText(sb *strings.Builder, e *expr) {
	if e == nil {
		return
	}
	switch e.kind {
	case exChar, exSym, exSpace:
		sb.WriteString(e.text)
	case exFunc:
		sb.WriteString(e.text)
		sb.WriteByte(' ')
	case exText:
		sb.WriteString(e.text)
	case exGroup:
		for _, k := range e.kids {
			writeText(sb, k)
		}
	case exScript:
		writeText(sb, e.kids[0])
		if e.sub != nil {
			sb.WriteString(script(textOf(e.sub), subscripts, "_"))
		}
		if e.sup != nil {
			sb.WriteString(script(textOf(e.sup), superscripts, "^"))
		}
	case exFrac:
		sb.WriteString(paren(textOf(e.args[0])))
		sb.WriteByte('/')
		sb.WriteString(paren(textOf(e.args[1])))
	case exBinom:
		sb.WriteString("C(")
		sb.WriteString(textOf(e.args[0]))
		sb.WriteString(", ")
		sb.WriteString(textOf(e.args[1]))
		sb.WriteByte(')')
	case exSqrt:
		writeRoot(sb, e)
	case exAccent:
		s := textOf(e.args[0])
		if utf8.RuneCountInString(s) == 1 {
			sb.WriteString(s + e.text)
			return
		}
		sb.WriteString(paren(s) + e.text)
	case exFont:
		s := textOf(e.args[0])
		if e.text == "mathbb" {
			s = mapRunes(s, blackboard)
		}
		sb.WriteString(s)
	case exPmod:
		sb.WriteString(" (mod ")
		sb.WriteString(textOf(e.args[0]))
		sb.WriteByte(')')
	case exDelim:
		sb.WriteString(e.open)
		for _, k := range e.kids {
			writeText(sb, k)
		}
		sb.WriteString(e.close)
	case exEnv:
		writeEnv(sb, e)
	case exAlign:
		sb.WriteByte(' ')
	case exNewline:
		sb.WriteString("; ")
	}
}

func writeRoot(sb *strings.Builder, e *expr) {
	if len(e.args) > 1 {
		switch idx := textOf(e.args[1]); idx {
		case "", "2":
			sb.WriteString("√")
		case "3":
			sb.WriteString("∛")
		case "4":
			sb.WriteString("∜")
		default:
			sb.WriteString(script(idx, superscripts, "^") + "√")
		}
	} else {
		sb.WriteString("√")
	}
	sb.WriteString(paren(textOf(e.args[0])))
}

func writeEnv(sb *strings.Builder, e *expr) {
	var rows []string
	var cells []string
	var cell strings.Builder
	flushCell := func() {
		cells = append(cells, strings.TrimSpace(cell.String()))
		cell.Reset()
	}
	flushRow := func() {
		flushCell()
		row := strings.Join(cells, " ")
		cells = cells[:0]
		if strings.TrimSpace(row) != "" {
			rows = append(rows, row)
		}
	}
	for _, k := range e.kids {
		switch k.kind {
		case exAlign:
			flushCell()
		case exNewline:
			flushRow()
		default:
			writeText(&cell, k)
		}
	}
	flushRow()

	sb.WriteString(e.open)
	sb.WriteString(strings.Join(rows, "; "))
	sb.WriteString(e.close)
}

// script maps s to Unicode super/subscript characters when every rune has
// one, and falls back to caret notation otherwise.
func script(s string, table map[rune]rune, marker string) string {
	if s == "" {
		return ""
	}
	if mapped, ok := mapAll(s, table); ok {
		return mapped
	}
	if utf8.RuneCountInString(s) == 1 {
		return marker + s
	}
	return marker + "(" + s + ")"
}

func mapAll(s string, table map[rune]rune) (string, bool) {
	var sb strings.Builder
	for _, r := range s {
		m, ok := table[r]
		if !ok {
			return "", false
		}
		sb.WriteRune(m)
	}
	return sb.String(), true
}

func mapRunes(s string, table map[rune]rune) string {
	var sb strings.Builder
	for _, r := range s {
		if m, ok := table[r]; ok {
			sb.WriteRune(m)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func paren(s string) string {
	if utf8.RuneCountInString(s) <= 1 {
		return s
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && balanced(s[1:len(s)-1]) {
		return s
	}
	return "(" + s + ")"
}

func balanced(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

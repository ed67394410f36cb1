package texrender

import (
	"fmt"
	"strings"
)

type exprKind uint8

const (
	exChar exprKind = iota
	exSym
	exFunc
	exGroup
	exScript
	exFrac
	exBinom
	exSqrt
	exAccent
	exFont
	exText
	exDelim
	exEnv
	exSpace
	exAlign
	exNewline
	exPmod
)

type expr struct {
	kind exprKind
	text string
	kids []*expr

	// Scripts: kids[0] is the base.
	sup, sub *expr

	// Fractions, accents, fonts, roots: positional arguments.
	args []*expr

	// Delimiters and environments.
	open, close string
}

type stopAt uint8

const (
	stopEOF stopAt = iota
	stopClose
	stopRight
	stopEnd
	stopBracket
)

type parser struct {
	src      string
	toks     []token
	pos      int
	envDepth int
}

// parse validates src and returns its expression tree.
func parse(src string) (*expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	kids, err := p.list(stopEOF, 0)
	if err != nil {
		return nil, err
	}
	return &expr{kind: exGroup, kids: kids}, nil
}

func (p *parser) eof() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

func (p *parser) skipSpace() {
	for !p.eof() && p.peek().kind == tkSpace {
		p.pos++
	}
}

func (p *parser) errAt(off int, format string, args ...any) error {
	return &SyntaxError{Offset: off, Msg: fmt.Sprintf(format, args...)}
}

// list parses a sequence until the given terminator. openOff is the offset
// of the construct that opened the sequence, for error messages.
func (p *parser) list(stop stopAt, openOff int) ([]*expr, error) {
	var out []*expr
	for {
		if p.eof() {
			switch stop {
			case stopEOF:
				return out, nil
			case stopClose:
				return nil, p.errAt(openOff, "missing } for group opened here")
			case stopRight:
				return nil, p.errAt(openOff, `missing \right for \left`)
			case stopEnd:
				return nil, p.errAt(openOff, `missing \end for \begin`)
			default:
				return nil, p.errAt(openOff, "missing ] for optional argument")
			}
		}

		t := p.peek()
		switch {
		case t.kind == tkClose:
			if stop != stopClose {
				return nil, p.errAt(t.off, "unexpected }")
			}
			p.pos++
			return out, nil
		case stop == stopBracket && t.kind == tkChar && t.val == "]":
			p.pos++
			return out, nil
		case t.kind == tkCmd && t.val == "right":
			if stop != stopRight {
				return nil, p.errAt(t.off, `\right without matching \left`)
			}
			return out, nil
		case t.kind == tkCmd && t.val == "end":
			if stop != stopEnd {
				return nil, p.errAt(t.off, `\end without matching \begin`)
			}
			return out, nil
		case t.kind == tkSup || t.kind == tkSub:
			p.pos++
			var err error
			out, err = p.attachScript(out, t)
			if err != nil {
				return nil, err
			}
			continue
		}

		e, err := p.atom()
		if err != nil {
			return nil, err
		}
		if e != nil {
			out = append(out, e)
		}
	}
}

func (p *parser) attachScript(out []*expr, t token) ([]*expr, error) {
	var base *expr
	if n := len(out); n > 0 && out[n-1].kind == exScript {
		base = out[n-1]
	} else {
		inner := &expr{kind: exGroup}
		if n > 0 {
			inner = out[n-1]
			out = out[:n-1]
		}
		base = &expr{kind: exScript, kids: []*expr{inner}}
		out = append(out, base)
	}

	arg, err := p.arg(t)
	if err != nil {
		return nil, err
	}
	if t.kind == tkSup {
		if base.sup != nil {
			return nil, p.errAt(t.off, "double superscript")
		}
		base.sup = arg
	} else {
		if base.sub != nil {
			return nil, p.errAt(t.off, "double subscript")
		}
		base.sub = arg
	}
	return out, nil
}

// arg reads one argument: a braced group, a control sequence or a single
// character.
func (p *parser) arg(owner token) (*expr, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errAt(owner.off, "missing argument for %s", describe(owner))
	}
	t := p.peek()
	switch t.kind {
	case tkOpen:
		p.pos++
		kids, err := p.list(stopClose, t.off)
		if err != nil {
			return nil, err
		}
		return &expr{kind: exGroup, kids: kids}, nil
	case tkChar:
		p.pos++
		return &expr{kind: exChar, text: t.val}, nil
	case tkCmd:
		if c, ok := commands[t.val]; ok && (c.kind == cmdRight || c.kind == cmdEnd) {
			return nil, p.errAt(owner.off, "missing argument for %s", describe(owner))
		}
		e, err := p.atom()
		if err != nil {
			return nil, err
		}
		if e == nil {
			return &expr{kind: exGroup}, nil
		}
		return e, nil
	default:
		return nil, p.errAt(owner.off, "missing argument for %s", describe(owner))
	}
}

func describe(t token) string {
	if t.kind == tkCmd {
		return `\` + t.val
	}
	return t.val
}

func (p *parser) atom() (*expr, error) {
	t := p.next()
	switch t.kind {
	case tkSpace:
		return nil, nil
	case tkChar:
		return &expr{kind: exChar, text: t.val}, nil
	case tkOpen:
		kids, err := p.list(stopClose, t.off)
		if err != nil {
			return nil, err
		}
		return &expr{kind: exGroup, kids: kids}, nil
	case tkAmp:
		if p.envDepth == 0 {
			return nil, p.errAt(t.off, "misplaced alignment tab &")
		}
		return &expr{kind: exAlign}, nil
	case tkCmd:
		return p.command(t)
	default:
		return nil, p.errAt(t.off, "unexpected %s", t.val)
	}
}

func (p *parser) command(t token) (*expr, error) {
	c, ok := commands[t.val]
	if !ok {
		return nil, p.errAt(t.off, `undefined control sequence \%s`, t.val)
	}

	switch c.kind {
	case cmdSymbol:
		return &expr{kind: exSym, text: c.out}, nil
	case cmdFunc:
		return &expr{kind: exFunc, text: c.out}, nil
	case cmdSpace:
		return &expr{kind: exSpace, text: c.out}, nil
	case cmdModifier:
		return nil, nil
	case cmdNewline:
		return &expr{kind: exNewline}, nil
	case cmdAccent, cmdFont, cmdPmod:
		a, err := p.arg(t)
		if err != nil {
			return nil, err
		}
		kind := exAccent
		switch c.kind {
		case cmdFont:
			kind = exFont
		case cmdPmod:
			kind = exPmod
		}
		return &expr{kind: kind, text: c.out, args: []*expr{a}}, nil
	case cmdFrac, cmdBinom:
		num, err := p.arg(t)
		if err != nil {
			return nil, err
		}
		den, err := p.arg(t)
		if err != nil {
			return nil, err
		}
		kind := exFrac
		if c.kind == cmdBinom {
			kind = exBinom
		}
		return &expr{kind: kind, args: []*expr{num, den}}, nil
	case cmdSqrt:
		return p.sqrt(t)
	case cmdOverset, cmdUnderset:
		label, err := p.arg(t)
		if err != nil {
			return nil, err
		}
		base, err := p.arg(t)
		if err != nil {
			return nil, err
		}
		e := &expr{kind: exScript, kids: []*expr{base}}
		if c.kind == cmdOverset {
			e.sup = label
		} else {
			e.sub = label
		}
		return &expr{kind: exGroup, kids: []*expr{e}}, nil
	case cmdXArrow:
		below, err := p.optional()
		if err != nil {
			return nil, err
		}
		above, err := p.arg(t)
		if err != nil {
			return nil, err
		}
		e := &expr{kind: exScript, kids: []*expr{{kind: exSym, text: c.out}}, sup: above, sub: below}
		return &expr{kind: exGroup, kids: []*expr{e}}, nil
	case cmdWrap:
		a, err := p.arg(t)
		if err != nil {
			return nil, err
		}
		return &expr{kind: exDelim, kids: []*expr{a}, open: c.out, close: c.close}, nil
	case cmdPhantom:
		if _, err := p.arg(t); err != nil {
			return nil, err
		}
		return &expr{kind: exSpace, text: " "}, nil
	case cmdSkip:
		if _, err := p.rawGroup(t); err != nil {
			return nil, err
		}
		return &expr{kind: exSpace, text: c.out}, nil
	case cmdColor:
		_, err := p.rawGroup(t)
		return nil, err
	case cmdTextColor:
		if _, err := p.rawGroup(t); err != nil {
			return nil, err
		}
		return p.arg(t)
	case cmdText:
		s, err := p.rawGroup(t)
		if err != nil {
			return nil, err
		}
		if c.out == "op" {
			return &expr{kind: exFunc, text: s}, nil
		}
		return &expr{kind: exText, text: s}, nil
	case cmdLeft:
		return p.delimited(t)
	case cmdBegin:
		return p.environment(t)
	case cmdRight:
		return nil, p.errAt(t.off, `\right without matching \left`)
	default:
		return nil, p.errAt(t.off, `\end without matching \begin`)
	}
}

// optional reads a bracketed argument when one follows, or returns nil.
func (p *parser) optional() (*expr, error) {
	p.skipSpace()
	if p.eof() || p.peek().kind != tkChar || p.peek().val != "[" {
		return nil, nil
	}
	open := p.next()
	kids, err := p.list(stopBracket, open.off)
	if err != nil {
		return nil, err
	}
	return &expr{kind: exGroup, kids: kids}, nil
}

func (p *parser) sqrt(t token) (*expr, error) {
	index, err := p.optional()
	if err != nil {
		return nil, err
	}
	radicand, err := p.arg(t)
	if err != nil {
		return nil, err
	}
	e := &expr{kind: exSqrt, args: []*expr{radicand}}
	if index != nil {
		e.args = append(e.args, index)
	}
	return e, nil
}

// rawGroup reads a braced argument verbatim, as \text does.
func (p *parser) rawGroup(owner token) (string, error) {
	p.skipSpace()
	if p.eof() || p.peek().kind != tkOpen {
		return "", p.errAt(owner.off, "missing argument for %s", describe(owner))
	}
	open := p.next()
	depth := 1
	for !p.eof() {
		t := p.next()
		switch t.kind {
		case tkOpen:
			depth++
		case tkClose:
			depth--
			if depth == 0 {
				return p.src[open.off+1 : t.off], nil
			}
		}
	}
	return "", p.errAt(open.off, "missing } for group opened here")
}

func (p *parser) delimiter(owner token) (string, error) {
	p.skipSpace()
	if p.eof() {
		return "", p.errAt(owner.off, "missing delimiter after %s", describe(owner))
	}
	t := p.next()
	switch t.kind {
	case tkChar:
		if d, ok := charDelims[t.val]; ok {
			return d, nil
		}
	case tkCmd:
		if cmdDelims[t.val] {
			if c, ok := commands[t.val]; ok {
				return c.out, nil
			}
		}
	}
	return "", p.errAt(t.off, "invalid delimiter %q after %s", t.val, describe(owner))
}

func (p *parser) delimited(t token) (*expr, error) {
	open, err := p.delimiter(t)
	if err != nil {
		return nil, err
	}
	kids, err := p.list(stopRight, t.off)
	if err != nil {
		return nil, err
	}
	right := p.next()
	closing, err := p.delimiter(right)
	if err != nil {
		return nil, err
	}
	return &expr{kind: exDelim, kids: kids, open: open, close: closing}, nil
}

func (p *parser) envName(owner token) (string, error) {
	s, err := p.rawGroup(owner)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func (p *parser) environment(t token) (*expr, error) {
	name, err := p.envName(t)
	if err != nil {
		return nil, err
	}
	env, ok := environments[name]
	if !ok {
		return nil, p.errAt(t.off, "unknown environment %q", name)
	}
	if env.colSpec {
		if _, err := p.rawGroup(t); err != nil {
			return nil, err
		}
	}

	p.envDepth++
	kids, err := p.list(stopEnd, t.off)
	p.envDepth--
	if err != nil {
		return nil, err
	}

	end := p.next()
	endName, err := p.envName(end)
	if err != nil {
		return nil, err
	}
	if endName != name {
		return nil, p.errAt(end.off, `\begin{%s} ended by \end{%s}`, name, endName)
	}
	return &expr{kind: exEnv, text: name, kids: kids, open: env.open, close: env.close}, nil
}

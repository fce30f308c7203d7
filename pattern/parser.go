package pattern

import (
	"fmt"

	"github.com/coregx/lexgen/charclass"
	"github.com/coregx/lexgen/nfa"
)

// reservedChars is the escape set of spec §4.4: the only characters a
// backslash turns into a literal. Outside a character class, '-' and ']'
// also match literally unescaped; the others must be escaped.
const reservedChars = "-()*+.[]?\\^{}|"

func isReserved(ch rune) bool {
	for _, r := range reservedChars {
		if r == ch {
			return true
		}
	}
	return false
}

// wordClass is \w: letters, digits, and underscore. Not a predefined
// charclass export since it is purely a parser-level convenience built from
// the charclass package's actual predefined classes.
func wordClass() *charclass.CharClass {
	return charclass.Letter().Union(charclass.Digit()).Union(charclass.FromChars([]uint16{'_'}))
}

type parser struct {
	atoms []inputAtom
	pos   int
}

func (p *parser) peek() (inputAtom, bool) {
	if p.pos >= len(p.atoms) {
		return inputAtom{}, false
	}
	return p.atoms[p.pos], true
}

func (p *parser) next() inputAtom {
	a := p.atoms[p.pos]
	p.pos++
	return a
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.atoms)
}

func (p *parser) expectChar(ch rune) error {
	a, ok := p.peek()
	if !ok || a.kind != atomChar || a.ch != ch {
		return &RegExpError{Pos: p.pos, Message: fmt.Sprintf("expected %q", ch)}
	}
	p.next()
	return nil
}

// parseAtoms parses the whole input stream as if wrapped in an outer group.
func parseAtoms(atoms []inputAtom) (*nfa.Builder, error) {
	p := &parser{atoms: atoms}
	b, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, &RegExpError{Pos: p.pos, Message: "unexpected ')'"}
	}
	return b, nil
}

// parseAlternation accumulates '|'-separated operands left to right; with a
// single operand it is returned unwrapped, otherwise an n-ary branch is
// emitted. An empty arm (nothing between two '|', or before/after one) is a
// parse error; a wholly empty pattern (no '|' at all) legitimately matches ε.
func (p *parser) parseAlternation() (*nfa.Builder, error) {
	type operand struct {
		b   *nfa.Builder
		n   int
		pos int
	}

	startPos := p.pos
	first, n, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	ops := []operand{{first, n, startPos}}

	for {
		a, ok := p.peek()
		if !ok || a.kind != atomChar || a.ch != '|' {
			break
		}
		p.next()
		armPos := p.pos
		nb, nn, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		ops = append(ops, operand{nb, nn, armPos})
	}

	if len(ops) == 1 {
		return ops[0].b, nil
	}
	for _, o := range ops {
		if o.n == 0 {
			return nil, &RegExpError{Pos: o.pos, Message: "empty alternation arm"}
		}
	}
	branches := make([]*nfa.Builder, len(ops))
	for i, o := range ops {
		branches[i] = o.b
	}
	head := nfa.NewBuilder()
	head.AppendBranch(branches...)
	return head, nil
}

// parseConcat parses a maximal run of terms (each already postfix-resolved)
// and appends them in sequence. Returns the term count so the caller can
// detect an empty alternation arm.
func (p *parser) parseConcat() (*nfa.Builder, int, error) {
	result := nfa.NewBuilder()
	count := 0
	for {
		a, ok := p.peek()
		if !ok {
			break
		}
		if a.kind == atomChar && (a.ch == '|' || a.ch == ')') {
			break
		}
		term, err := p.parseTerm()
		if err != nil {
			return nil, 0, err
		}
		term, err = p.applyPostfix(term)
		if err != nil {
			return nil, 0, err
		}
		result.Append(term)
		count++
	}
	return result, count, nil
}

// parseTerm parses exactly one atomic unit: a group, a character class, '.',
// an escape, a fragment splice, or a single literal character.
func (p *parser) parseTerm() (*nfa.Builder, error) {
	start := p.pos
	a := p.next()

	if a.kind == atomFragment {
		return a.frag.Clone(), nil
	}

	switch a.ch {
	case '(':
		inner, err := p.parseAlternation()
		if err != nil {
			return nil, err
		}
		if err := p.expectChar(')'); err != nil {
			return nil, err
		}
		return inner, nil
	case '[':
		return p.parseCharClass()
	case '.':
		b := nfa.NewBuilder()
		b.AppendClass(charclass.Any())
		return b, nil
	case '\\':
		return p.parseEscape()
	case '*', '+', '?', '{', '}', '|', ')', '^':
		return nil, &RegExpError{Pos: start, Message: fmt.Sprintf("unexpected metacharacter %q, escape it to match literally", a.ch)}
	default:
		b := nfa.NewBuilder()
		b.AppendChar(uint16(a.ch))
		return b, nil
	}
}

// parseEscape handles a '\' already consumed outside a character class.
func (p *parser) parseEscape() (*nfa.Builder, error) {
	cc, isClass, lit, err := p.parseEscapeBody()
	if err != nil {
		return nil, err
	}
	b := nfa.NewBuilder()
	if isClass {
		b.AppendClass(cc)
	} else {
		b.AppendChar(uint16(lit))
	}
	return b, nil
}

// parseEscapeBody consumes the character following a '\' and classifies it:
// a predefined class (\d \D \w \W \s \S) or a literal from the escape set.
// Any other escape is illegal.
func (p *parser) parseEscapeBody() (*charclass.CharClass, bool, rune, error) {
	pos := p.pos
	a, ok := p.peek()
	if !ok {
		return nil, false, 0, &RegExpError{Pos: pos, Message: "premature end of pattern after '\\'"}
	}
	if a.kind != atomChar {
		return nil, false, 0, &RegExpError{Pos: pos, Message: "cannot escape a pattern fragment"}
	}
	p.next()
	switch a.ch {
	case 'd':
		return charclass.Digit(), true, 0, nil
	case 'D':
		return charclass.Digit().Inverse(), true, 0, nil
	case 'w':
		return wordClass(), true, 0, nil
	case 'W':
		return wordClass().Inverse(), true, 0, nil
	case 's':
		return charclass.Blank(), true, 0, nil
	case 'S':
		return charclass.Blank().Inverse(), true, 0, nil
	default:
		if isReserved(a.ch) {
			return nil, false, a.ch, nil
		}
		return nil, false, 0, &RegExpError{Pos: pos, Message: fmt.Sprintf("illegal escape '\\%c'", a.ch)}
	}
}

// parseCharClass parses a bracket expression after the opening '[' has
// already been consumed: an optional leading '^' negation, then a run of
// single characters, embedded predefined classes, and a-b ranges, up to the
// closing ']'.
func (p *parser) parseCharClass() (*nfa.Builder, error) {
	start := p.pos
	negate := false
	if a, ok := p.peek(); ok && a.kind == atomChar && a.ch == '^' {
		negate = true
		p.next()
	}

	var ranges []charclass.PlainCharRange
	for {
		a, ok := p.peek()
		if !ok {
			return nil, &RegExpError{Pos: start, Message: "premature end of character class"}
		}
		if a.kind == atomChar && a.ch == ']' {
			p.next()
			break
		}
		if a.kind != atomChar {
			return nil, &RegExpError{Pos: p.pos, Message: "pattern fragment not allowed inside a character class"}
		}

		memberPos := p.pos
		lo, embedded, err := p.classMember()
		if err != nil {
			return nil, err
		}
		if embedded != nil {
			ranges = append(ranges, embedded.Ranges()...)
			continue
		}

		if nxt, ok := p.peek(); ok && nxt.kind == atomChar && nxt.ch == '-' {
			save := p.pos
			p.next()
			if end, ok := p.peek(); !ok || (end.kind == atomChar && end.ch == ']') {
				// Trailing '-' right before ']': literal hyphen, not a range.
				p.pos = save
				ranges = append(ranges, charclass.PlainCharRange{Start: lo, End: lo})
				continue
			}
			hi, hiEmbedded, err := p.classMember()
			if err != nil {
				return nil, err
			}
			if hiEmbedded != nil {
				return nil, &RegExpError{Pos: memberPos, Message: "a predefined class cannot be used as a range endpoint"}
			}
			if hi < lo {
				return nil, &RegExpError{Pos: save, Message: "illegal character range: end precedes start"}
			}
			ranges = append(ranges, charclass.PlainCharRange{Start: lo, End: hi})
			continue
		}
		ranges = append(ranges, charclass.PlainCharRange{Start: lo, End: lo})
	}

	cc := charclass.FromRanges(ranges)
	if negate {
		cc = cc.Inverse()
	}
	b := nfa.NewBuilder()
	b.AppendClass(cc)
	return b, nil
}

// classMember consumes one character-class member. A plain or escaped-literal
// character is returned as a single code unit (embedded == nil). A predefined
// class (\d \D \w \W \s \S) is returned via embedded instead, since it cannot
// be reduced to a single code unit and cannot serve as a range endpoint.
func (p *parser) classMember() (uint16, *charclass.CharClass, error) {
	a, ok := p.peek()
	if !ok {
		return 0, nil, &RegExpError{Pos: p.pos, Message: "premature end of character class"}
	}
	if a.ch != '\\' {
		p.next()
		return uint16(a.ch), nil, nil
	}
	p.next()
	cc, isClass, lit, err := p.parseEscapeBody()
	if err != nil {
		return 0, nil, err
	}
	if isClass {
		return 0, cc, nil
	}
	return uint16(lit), nil, nil
}

package pattern

import "github.com/coregx/lexgen/nfa"

// applyPostfix consumes any run of postfix operators (*, +, ?, {m,n}) after a
// freshly parsed term, applying each in place. A term like "ab*" binds '*'
// only to 'b', since each character is its own term in parseConcat's loop;
// adjacent literals are only fused at the NFA level via Append, never at the
// syntax level.
func (p *parser) applyPostfix(term *nfa.Builder) (*nfa.Builder, error) {
	for {
		a, ok := p.peek()
		if !ok || a.kind != atomChar {
			return term, nil
		}
		switch a.ch {
		case '*':
			p.next()
			term.Any()
		case '+':
			p.next()
			term.OneOrMore()
		case '?':
			p.next()
			term.Optional()
		case '{':
			lo, hi, matched, err := p.tryParseCountedRepeat()
			if err != nil {
				return nil, err
			}
			if !matched {
				return term, nil
			}
			if err := term.Repeat(lo, hi); err != nil {
				return nil, &RegExpError{Pos: p.pos, Message: err.Error()}
			}
		default:
			return term, nil
		}
	}
}

// tryParseCountedRepeat parses "{m}", "{m,}", or "{m,n}" starting at the
// as-yet-unconsumed '{'. Since '{' is reserved (escape it for a literal
// brace), any '{' reaching here commits to this syntax: malformed content is
// a parse error, not a fallback to a literal brace.
func (p *parser) tryParseCountedRepeat() (lo, hi int, matched bool, err error) {
	start := p.pos
	p.next() // '{'

	lo, gotLo := p.parseNumber()
	if !gotLo {
		return 0, 0, false, &RegExpError{Pos: start, Message: "illegal {m,n}: missing lower bound"}
	}

	a, ok := p.peek()
	if ok && a.kind == atomChar && a.ch == '}' {
		p.next()
		return lo, lo, true, nil
	}
	if !ok || a.kind != atomChar || a.ch != ',' {
		return 0, 0, false, &RegExpError{Pos: start, Message: "illegal {m,n}: expected ',' or '}'"}
	}
	p.next() // ','

	hi, gotHi := p.parseNumber()
	end, ok := p.peek()
	if !ok || end.kind != atomChar || end.ch != '}' {
		return 0, 0, false, &RegExpError{Pos: start, Message: "illegal {m,n}: expected '}'"}
	}
	p.next()

	if !gotHi {
		return lo, -1, true, nil
	}
	if hi < lo {
		return 0, 0, false, &RegExpError{Pos: start, Message: "illegal {m,n}: upper bound precedes lower bound"}
	}
	return lo, hi, true, nil
}

func (p *parser) parseNumber() (int, bool) {
	n, count := 0, 0
	for {
		a, ok := p.peek()
		if !ok || a.kind != atomChar || a.ch < '0' || a.ch > '9' {
			break
		}
		n = n*10 + int(a.ch-'0')
		count++
		p.next()
	}
	return n, count > 0
}

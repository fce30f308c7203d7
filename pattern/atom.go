package pattern

import "github.com/coregx/lexgen/nfa"

type atomKind int

const (
	atomChar atomKind = iota
	atomFragment
)

// inputAtom is one element of the parser's input stream: either a rune of
// literal pattern text, or an already-built NFA fragment spliced in by
// FragmentBuilder.Fragment. A fragment always parses as a single atomic term,
// so postfix operators bind to the whole fragment, never into it.
type inputAtom struct {
	kind atomKind
	ch   rune
	frag *nfa.Builder
}

func charAtoms(s string) []inputAtom {
	atoms := make([]inputAtom, 0, len(s))
	for _, r := range s {
		atoms = append(atoms, inputAtom{kind: atomChar, ch: r})
	}
	return atoms
}

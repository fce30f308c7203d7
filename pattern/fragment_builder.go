package pattern

import "github.com/coregx/lexgen/nfa"

// FragmentBuilder composes a pattern out of literal regex text and pre-built
// NFA fragments, in any interleaving. Each Fragment call splices in one
// atomic unit: postfix operators written immediately after it in a later
// Literal call bind to the whole fragment, matching ordinary grouping
// semantics without requiring the caller to wrap it in "(...)".
type FragmentBuilder struct {
	atoms []inputAtom
}

// NewFragmentBuilder returns an empty composable pattern builder.
func NewFragmentBuilder() *FragmentBuilder {
	return &FragmentBuilder{}
}

// Literal appends raw pattern syntax, parsed the same as a Parse argument.
func (fb *FragmentBuilder) Literal(s string) *FragmentBuilder {
	fb.atoms = append(fb.atoms, charAtoms(s)...)
	return fb
}

// Fragment splices in an already-built NFA fragment as one atomic term.
func (fb *FragmentBuilder) Fragment(b *nfa.Builder) *FragmentBuilder {
	fb.atoms = append(fb.atoms, inputAtom{kind: atomFragment, frag: b})
	return fb
}

// Build parses the accumulated sequence into a single NFA fragment.
func (fb *FragmentBuilder) Build() (*nfa.Builder, error) {
	return parseAtoms(fb.atoms)
}

// Parse parses a plain pattern string with no embedded fragments.
func Parse(pattern string) (*nfa.Builder, error) {
	return parseAtoms(charAtoms(pattern))
}

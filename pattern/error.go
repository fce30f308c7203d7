// Package pattern implements the surface regular-expression syntax of spec
// §4.4: literals and the reserved escape set, predefined classes (\d \w \s
// and their inversions), character classes, grouping, alternation, and the
// postfix/counted repetition operators. It also exposes a FragmentBuilder
// that interleaves literal pattern text with pre-built NFA fragments, each
// fragment behaving as a single atomic unit for postfix operators.
package pattern

import (
	"errors"
	"fmt"
)

// ErrSyntax is the sentinel every RegExpError wraps.
var ErrSyntax = errors.New("regexp syntax error")

// RegExpError is the single error kind raised by the parser: illegal
// escape, unexpected character, premature end, empty alternation arm,
// illegal {m,n} bounds, or illegal character range.
type RegExpError struct {
	Pos     int
	Message string
}

func (e *RegExpError) Error() string {
	return fmt.Sprintf("regexp error at position %d: %s", e.Pos, e.Message)
}

// Unwrap exposes ErrSyntax for errors.Is.
func (e *RegExpError) Unwrap() error {
	return ErrSyntax
}

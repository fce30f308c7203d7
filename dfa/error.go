package dfa

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coregx/lexgen/charclass"
	"github.com/coregx/lexgen/mark"
)

// ErrMarksConflict is the sentinel every MarksConflictError wraps.
var ErrMarksConflict = errors.New("dfa: marks conflict")

// MarksConflictError reports two rule marks that could not merge during
// subset construction or minimization. Path is the minimal sequence of
// character ranges witnessing the conflict, walked back from the DFA cell
// where the merge failed to the begin cell.
type MarksConflictError struct {
	A, B mark.Mark
	Path []charclass.PlainCharRange
}

func (e *MarksConflictError) Error() string {
	parts := make([]string, len(e.Path))
	for i, r := range e.Path {
		parts[i] = fmt.Sprintf("[%d-%d]", r.Start, r.End)
	}
	return fmt.Sprintf("marks conflict: %v cannot merge with %v (witness path: %s)",
		e.A, e.B, strings.Join(parts, " "))
}

// Unwrap exposes ErrMarksConflict for errors.Is.
func (e *MarksConflictError) Unwrap() error {
	return ErrMarksConflict
}

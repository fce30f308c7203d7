// Package mark implements the tagged-variant mark algebra used to attach
// rule provenance to NFA cells and, after subset construction, to DFA
// transitions.
//
// A Mark merges with another mark via Merge; two marks that cannot be
// reconciled produce a ConflictError. The only two variants needed are
// ActionMark (strict mode: same action id merges, different ids conflict)
// and PriorityMark (non-strict mode: first-declared rule always wins).
package mark

import "fmt"

// Mark is implemented by ActionMark and PriorityMark. No other variant is
// needed: both call sites (subset construction and minimization) dispatch
// only through CanMergeWith/MergeWith.
type Mark interface {
	// CanMergeWith reports whether m can be combined with other without a
	// conflict.
	CanMergeWith(other Mark) bool
	// MergeWith combines m with other. Only called when CanMergeWith(other)
	// is true.
	MergeWith(other Mark) Mark
}

// ConflictError reports two marks that could not be merged.
type ConflictError struct {
	A, B Mark
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("mark conflict: %v cannot merge with %v", e.A, e.B)
}

// Merge combines a and b. A nil operand is treated as absent and the other
// is returned unchanged. Returns a *ConflictError if neither is nil and they
// cannot be merged.
func Merge(a, b Mark) (Mark, error) {
	if a == nil {
		return b, nil
	}
	if b == nil {
		return a, nil
	}
	if !a.CanMergeWith(b) {
		return nil, &ConflictError{A: a, B: b}
	}
	return a.MergeWith(b), nil
}

// ActionMark carries a rule's action id. Two ActionMarks only merge when
// their action ids are equal; action id 0 is reserved for "no action".
type ActionMark struct {
	Action int
}

// CanMergeWith reports whether other is an ActionMark with the same action id.
func (m ActionMark) CanMergeWith(other Mark) bool {
	o, ok := other.(ActionMark)
	return ok && o.Action == m.Action
}

// MergeWith returns either operand; they are equal by CanMergeWith's contract.
func (m ActionMark) MergeWith(_ Mark) Mark {
	return m
}

func (m ActionMark) String() string {
	return fmt.Sprintf("ActionMark(%d)", m.Action)
}

// PriorityMark resolves overlapping rules by first-declared-wins: Priority
// is the rule's declaration index and Inner is the mark it carries once it
// wins (typically an ActionMark).
type PriorityMark struct {
	Priority int
	Inner    Mark
}

// CanMergeWith reports whether other is also a PriorityMark; two
// PriorityMarks always merge.
func (m PriorityMark) CanMergeWith(other Mark) bool {
	_, ok := other.(PriorityMark)
	return ok
}

// MergeWith returns the operand with the smaller Priority.
func (m PriorityMark) MergeWith(other Mark) Mark {
	o := other.(PriorityMark)
	if o.Priority < m.Priority {
		return o
	}
	return m
}

func (m PriorityMark) String() string {
	return fmt.Sprintf("PriorityMark(priority=%d, inner=%v)", m.Priority, m.Inner)
}

// ActionOf unwraps the action id carried by a merged mark, looking through a
// PriorityMark to its Inner ActionMark. Returns 0 (no action) for a nil mark.
func ActionOf(m Mark) int {
	switch v := m.(type) {
	case nil:
		return 0
	case ActionMark:
		return v.Action
	case PriorityMark:
		return ActionOf(v.Inner)
	default:
		return 0
	}
}

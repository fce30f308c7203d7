package dfa

import "github.com/coregx/lexgen/mark"

// MarkedDFA pairs a general DFA with a per-transition action-id table,
// parallel to DFA.Outs: Marks[i][k] is the mark (possibly nil) collected
// while closing the target of cell i's k-th transition.
type MarkedDFA struct {
	DFA   *DFA
	Marks [][]mark.Mark
}

// Action returns the action id associated with cell i's slot-th transition,
// or 0 ("no action") if slot is negative or the transition carries no mark.
func (m *MarkedDFA) Action(i int32, slot int) int {
	if slot < 0 {
		return 0
	}
	return mark.ActionOf(m.Marks[i][slot])
}

// TransitionIndex, Out, and IsFinal delegate to the wrapped DFA so a
// *MarkedDFA satisfies the lexer package's runtime driver interface
// directly, without the driver needing to know about DFA at all.
func (m *MarkedDFA) TransitionIndex(i int32, ch uint16) int { return m.DFA.TransitionIndex(i, ch) }
func (m *MarkedDFA) Out(i int32, slot int) int32            { return m.DFA.Out(i, slot) }
func (m *MarkedDFA) IsFinal(i int32) bool                   { return m.DFA.IsFinal(i) }

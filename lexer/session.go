package lexer

// beginCell is the cell id every DFA produced by this module's dfa package
// uses for its begin cell, by construction of subset construction,
// minimization, and compression alike.
const beginCell = int32(0)

// MarkedDFA is the runtime view a lexing state needs: transition lookup,
// finality, and the action id (0 = none) attached to a given transition.
// Both *dfa.MarkedDFA and *dfa.CompressedMarkedDFA satisfy it.
type MarkedDFA interface {
	TransitionIndex(cell int32, ch uint16) int
	Out(cell int32, slot int) int32
	IsFinal(cell int32) bool
	Action(cell int32, slot int) int
}

// ActionFunc is the user callback invoked with a non-zero action id. It may
// call Session.SwitchState, Session.MatchedString, and Session.Emit.
type ActionFunc func(s *Session, action int)

// Session is the per-scan runtime state: owned exclusively by the scan in
// progress, never shared across goroutines while a Lex call is in flight.
// Multiple sessions may run concurrently over the same immutable
// MarkedDFAs.
type Session struct {
	states   []MarkedDFA
	callback ActionFunc
	input    []uint16

	end       int
	position  int
	lastMatch int
	stateIdx  int

	emitted bool
	value   interface{}
}

// NewSession builds a scanning session over input, starting in lexing state
// 0. It rejects a rule set whose initial state has no DFA, or whose initial
// DFA's begin cell is already final (the language would match the empty
// string and loop forever).
func NewSession(states []MarkedDFA, callback ActionFunc, input []uint16) (*Session, error) {
	if len(states) == 0 || states[0] == nil {
		return nil, &LexerBuildError{Message: "no initial lexing state"}
	}
	if states[0].IsFinal(beginCell) {
		return nil, &LexerBuildError{Message: "initial state's begin cell is final: rule set matches the empty string"}
	}
	return &Session{
		states:   states,
		callback: callback,
		input:    input,
		end:      len(input),
	}, nil
}

// SwitchState redirects subsequent scanning to lexing state id. A no-op if
// id is already the current state.
func (s *Session) SwitchState(id int) {
	if id == s.stateIdx {
		return
	}
	s.stateIdx = id
}

// MatchedString returns the text of the token currently being produced.
func (s *Session) MatchedString() string {
	units := s.input[s.lastMatch:s.position]
	rs := make([]rune, len(units))
	for i, u := range units {
		rs[i] = rune(u)
	}
	return string(rs)
}

// Emit records the value this action call produces; Lex returns it once the
// callback returns.
func (s *Session) Emit(v interface{}) {
	s.emitted = true
	s.value = v
}

func (s *Session) currentDFA() MarkedDFA {
	return s.states[s.stateIdx]
}

// Lex runs the algorithm of spec §4.8 to produce the next action's value,
// or ErrEndOfInput once the input is exhausted with nothing left pending.
func (s *Session) Lex() (interface{}, error) {
	if s.position >= s.end && s.lastMatch == s.position {
		return nil, ErrEndOfInput
	}

	x := beginCell
	lastAcceptingPosition := -1
	var lastAcceptingNode int32

	for s.position <= s.end {
		dfa := s.currentDFA()

		var slot int
		if s.position == s.end {
			slot = -1
		} else {
			slot = dfa.TransitionIndex(x, s.input[s.position])
		}

		if slot == -1 {
			if lastAcceptingPosition == -1 {
				return nil, &LexerMismatch{Start: s.lastMatch, End: s.position}
			}
			s.position = lastAcceptingPosition
			x = lastAcceptingNode
			slot = dfa.TransitionIndex(x, s.input[s.position])
			s.position++
			action := dfa.Action(x, slot)
			x = beginCell
			lastAcceptingPosition = -1

			if action != 0 {
				s.emitted = false
				s.value = nil
				s.callback(s, action)
				s.lastMatch = s.position
				if s.emitted {
					return s.value, nil
				}
			} else {
				s.lastMatch = s.position
			}
			if s.position == s.end {
				break
			}
			continue
		}

		target := dfa.Out(x, slot)
		if dfa.IsFinal(target) {
			lastAcceptingPosition = s.position
			lastAcceptingNode = x
		}
		x = target
		s.position++
	}
	return nil, ErrEndOfInput
}

// LexAll repeatedly calls Lex, collecting every produced value until the
// terminal end-of-input signal.
func (s *Session) LexAll() ([]interface{}, error) {
	var out []interface{}
	for {
		v, err := s.Lex()
		if err == ErrEndOfInput {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}

// Package lexgen is the generator facade: it turns a set of (pattern,
// action) rules, optionally partitioned across lexing states indexed from 0, into a
// Lexer that drives the runtime scanning algorithm of lexer.Session. This
// file is the thin binding the rest of the module's packages were built to
// serve; the automata pipeline itself lives in charclass, transitionset,
// nfa, pattern, dfa, and lexer.
package lexgen

import (
	"fmt"

	"github.com/coregx/lexgen/dfa"
	"github.com/coregx/lexgen/lexer"
	"github.com/coregx/lexgen/mark"
	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/pattern"
)

// Options holds the generator build flags of spec §6.
type Options struct {
	// Minimize runs DFA minimization after subset construction.
	Minimize bool
	// Strict treats overlapping rules as a mark conflict. When false,
	// earlier-declared rules win ties via PriorityMark.
	Strict bool
	// Compress applies the two-level compression pass after minimization.
	Compress bool
}

// DefaultOptions returns the spec's documented defaults: Minimize=false,
// Strict=true, Compress=true.
func DefaultOptions() Options {
	return Options{Strict: true, Compress: true}
}

// Option mutates an Options value during Build.
type Option func(*Options)

// WithMinimize toggles DFA minimization.
func WithMinimize(v bool) Option { return func(o *Options) { o.Minimize = v } }

// WithStrict toggles strict mark-conflict checking.
func WithStrict(v bool) Option { return func(o *Options) { o.Strict = v } }

// WithCompress toggles the two-level compression pass.
func WithCompress(v bool) Option { return func(o *Options) { o.Compress = v } }

// Rule is one (pattern, action) pair. Exactly one of Pattern or Fragment
// should be set; Fragment lets a caller splice in an already-built NFA
// (e.g. one assembled via pattern.FragmentBuilder) instead of regex syntax.
// Action 0 means "ignore / continue scanning" (no action invoked).
type Rule struct {
	Pattern  string
	Fragment *nfa.Builder
	Action   int
}

// Lexer is the compiled artifact: one MarkedDFA (general or compressed) per
// lexing state, ready to drive sessions. Immutable after Build.
type Lexer struct {
	states []lexer.MarkedDFA
}

// Build compiles ruleSets (one rule list per lexing state, state 0 is
// initial) into a Lexer, per the pipeline of spec §2: rules -> NFA
// fragments -> combined NFA -> subset construction -> optional minimize ->
// optional compress.
func Build(ruleSets [][]Rule, opts ...Option) (*Lexer, error) {
	cfg := DefaultOptions()
	for _, o := range opts {
		o(&cfg)
	}
	if len(ruleSets) == 0 {
		return nil, &lexer.LexerBuildError{Message: "no lexing states declared"}
	}

	states := make([]lexer.MarkedDFA, len(ruleSets))
	for i, rules := range ruleSets {
		if len(rules) == 0 {
			return nil, &lexer.LexerBuildError{Message: fmt.Sprintf("lexing state %d has no rules", i)}
		}

		fragments := make([]nfa.RuleFragment, len(rules))
		for j, r := range rules {
			frag := r.Fragment
			if frag == nil {
				b, err := pattern.Parse(r.Pattern)
				if err != nil {
					return nil, err
				}
				frag = b
			}
			var m mark.Mark = mark.ActionMark{Action: r.Action}
			if !cfg.Strict {
				m = mark.PriorityMark{Priority: j, Inner: m}
			}
			fragments[j] = nfa.RuleFragment{Fragment: frag, Mark: m}
		}

		combined := nfa.Combine(fragments)
		md, err := dfa.Construct(combined)
		if err != nil {
			return nil, err
		}
		if cfg.Minimize {
			md, err = dfa.Minimize(md)
			if err != nil {
				return nil, err
			}
		}
		if cfg.Compress {
			states[i] = dfa.Compress(md)
		} else {
			states[i] = md
		}
	}

	if states[0].IsFinal(0) {
		return nil, &lexer.LexerBuildError{Message: "initial state's begin cell is final: rule set matches the empty string"}
	}
	return &Lexer{states: states}, nil
}

// NewSession starts a scan of input under callback, beginning in lexing
// state 0.
func (l *Lexer) NewSession(input []rune, callback lexer.ActionFunc) (*lexer.Session, error) {
	units := make([]uint16, len(input))
	for i, r := range input {
		units[i] = uint16(r)
	}
	return lexer.NewSession(l.states, callback, units)
}

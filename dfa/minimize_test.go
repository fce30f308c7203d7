package dfa

import (
	"testing"

	"github.com/coregx/lexgen/mark"
	"github.com/coregx/lexgen/nfa"
)

func TestMinimize_MergesEquivalentStates(t *testing.T) {
	frag := mustParse(t, "ac|bc")
	combined := nfa.Combine([]nfa.RuleFragment{
		{Fragment: frag, Mark: mark.ActionMark{Action: 1}},
	})
	md, err := Construct(combined)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	before := md.DFA.Size()

	min, err := Minimize(md)
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if min.DFA.Size() >= before {
		t.Errorf("expected minimization to shrink state count below %d, got %d", before, min.DFA.Size())
	}

	for _, s := range []string{"ac", "bc"} {
		if !walk(min.DFA, s) {
			t.Errorf("expected %q to match after minimization", s)
		}
	}
	for _, s := range []string{"a", "b", "c", "abc"} {
		if walk(min.DFA, s) {
			t.Errorf("expected %q not to match after minimization", s)
		}
	}
}

func TestMinimize_AlreadyMinimalUnchanged(t *testing.T) {
	frag := mustParse(t, "a")
	combined := nfa.Combine([]nfa.RuleFragment{
		{Fragment: frag, Mark: mark.ActionMark{Action: 1}},
	})
	md, err := Construct(combined)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	min, err := Minimize(md)
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if min.DFA.Size() != md.DFA.Size() {
		t.Errorf("expected an already-minimal DFA to be returned unchanged in size, got %d vs %d", min.DFA.Size(), md.DFA.Size())
	}
}

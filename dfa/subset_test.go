package dfa

import (
	"errors"
	"testing"

	"github.com/coregx/lexgen/mark"
	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/pattern"
)

func mustParse(t *testing.T, p string) *nfa.Builder {
	t.Helper()
	b, err := pattern.Parse(p)
	if err != nil {
		t.Fatalf("Parse(%q): %v", p, err)
	}
	return b
}

// walk drives d deterministically over s and reports whether it ends in an
// accepting cell (no backtracking: this exercises transit, not the lexer).
func walk(d *DFA, s string) bool {
	cur := int32(0)
	for _, r := range s {
		next := d.Transit(cur, uint16(r))
		if next < 0 {
			return false
		}
		cur = next
	}
	return d.IsFinal(cur)
}

func TestConstruct_SingleRule(t *testing.T) {
	frag := mustParse(t, "a+b")
	combined := nfa.Combine([]nfa.RuleFragment{
		{Fragment: frag, Mark: mark.ActionMark{Action: 1}},
	})
	md, err := Construct(combined)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	for _, s := range []string{"ab", "aab", "aaab"} {
		if !walk(md.DFA, s) {
			t.Errorf("expected %q to match", s)
		}
	}
	for _, s := range []string{"a", "b", "abb"} {
		if walk(md.DFA, s) {
			t.Errorf("expected %q not to match", s)
		}
	}
}

func TestConstruct_MarksConflictStrict(t *testing.T) {
	digit := mustParse(t, `\d`)
	any := mustParse(t, `.`)
	combined := nfa.Combine([]nfa.RuleFragment{
		{Fragment: digit, Mark: mark.ActionMark{Action: 1}},
		{Fragment: any, Mark: mark.ActionMark{Action: 2}},
	})
	_, err := Construct(combined)
	if err == nil {
		t.Fatal("expected a marks conflict error")
	}
	var ce *MarksConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *MarksConflictError, got %T: %v", err, err)
	}
	if len(ce.Path) == 0 {
		t.Error("expected a non-empty witness path")
	}
}

func TestConstruct_NonStrictPriorityResolves(t *testing.T) {
	digit := mustParse(t, `\d`)
	any := mustParse(t, `.`)
	combined := nfa.Combine([]nfa.RuleFragment{
		{Fragment: digit, Mark: mark.PriorityMark{Priority: 0, Inner: mark.ActionMark{Action: 1}}},
		{Fragment: any, Mark: mark.PriorityMark{Priority: 1, Inner: mark.ActionMark{Action: 2}}},
	})
	md, err := Construct(combined)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	slot := md.DFA.TransitionIndex(0, '1')
	if slot < 0 {
		t.Fatal("expected a transition for '1'")
	}
	if action := md.Action(0, slot); action != 1 {
		t.Errorf("expected rule 0 (declared first) to win, got action %d", action)
	}
	slot = md.DFA.TransitionIndex(0, 'a')
	if slot < 0 {
		t.Fatal("expected a transition for 'a'")
	}
	if action := md.Action(0, slot); action != 2 {
		t.Errorf("expected rule 1 to win on a non-digit, got action %d", action)
	}
}

package pattern

import (
	"testing"

	"github.com/coregx/lexgen/nfa"
)

// matches is a small brute-force NFA simulator, local to this package's
// tests, mirroring the one in package nfa: it expands dummy-closures and
// walks the input code unit by code unit.
func matches(n *nfa.NFA, input string) bool {
	type set map[nfa.CellID]bool
	cells := n.Cells
	closure := func(start nfa.CellID) (set, bool) {
		seen := set{}
		visited := map[nfa.CellID]bool{}
		final := false
		stack := []nfa.CellID{start}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if id == nfa.Final {
				final = true
				continue
			}
			if visited[id] {
				continue
			}
			visited[id] = true
			c := cells[id]
			if c.IsDummy() {
				stack = append(stack, c.Outs...)
			} else {
				seen[id] = true
			}
		}
		return seen, final
	}

	current, accept := closure(n.Begin)
	units := []uint16{}
	for _, r := range input {
		units = append(units, uint16(r))
	}
	if len(units) == 0 {
		return accept
	}
	for _, ch := range units {
		next := set{}
		accept = false
		for id := range current {
			c := cells[id]
			if c.Class != nil && c.Class.Contains(ch) {
				for _, o := range c.Outs {
					s, a := closure(o)
					for k := range s {
						next[k] = true
					}
					if a {
						accept = true
					}
				}
			}
		}
		current = next
		if len(current) == 0 && !accept {
			return false
		}
	}
	return accept
}

func build(t *testing.T, pattern string) *nfa.NFA {
	t.Helper()
	b, err := Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q): unexpected error: %v", pattern, err)
	}
	return b.Build()
}

func TestParse_Literal(t *testing.T) {
	n := build(t, "abc")
	if !matches(n, "abc") {
		t.Error("expected match")
	}
	if matches(n, "ab") || matches(n, "abcd") {
		t.Error("expected no match on partial/overlong input")
	}
}

func TestParse_Alternation(t *testing.T) {
	n := build(t, "cat|dog|bird")
	for _, s := range []string{"cat", "dog", "bird"} {
		if !matches(n, s) {
			t.Errorf("expected match for %q", s)
		}
	}
	if matches(n, "fish") {
		t.Error("expected no match for fish")
	}
}

func TestParse_Group(t *testing.T) {
	n := build(t, "(ab)+c")
	for _, s := range []string{"abc", "ababc", "abababc"} {
		if !matches(n, s) {
			t.Errorf("expected match for %q", s)
		}
	}
	if matches(n, "c") || matches(n, "abab") {
		t.Error("unexpected match")
	}
}

func TestParse_Postfix(t *testing.T) {
	tests := []struct {
		pattern string
		match   []string
		reject  []string
	}{
		{"a*", []string{"", "a", "aaaa"}, []string{"b"}},
		{"a+", []string{"a", "aaa"}, []string{""}},
		{"a?", []string{"", "a"}, []string{"aa"}},
	}
	for _, tt := range tests {
		n := build(t, tt.pattern)
		for _, s := range tt.match {
			if !matches(n, s) {
				t.Errorf("%q: expected match for %q", tt.pattern, s)
			}
		}
		for _, s := range tt.reject {
			if matches(n, s) {
				t.Errorf("%q: expected no match for %q", tt.pattern, s)
			}
		}
	}
}

func TestParse_PredefinedClasses(t *testing.T) {
	tests := []struct {
		pattern string
		match   []string
		reject  []string
	}{
		{`\d+`, []string{"0", "12345"}, []string{"a", ""}},
		{`\w+`, []string{"abc_123"}, []string{"!"}},
		{`\s+`, []string{" ", "\t\n"}, []string{"a"}},
		{`\D+`, []string{"abc"}, []string{"1"}},
	}
	for _, tt := range tests {
		n := build(t, tt.pattern)
		for _, s := range tt.match {
			if !matches(n, s) {
				t.Errorf("%q: expected match for %q", tt.pattern, s)
			}
		}
		for _, s := range tt.reject {
			if matches(n, s) {
				t.Errorf("%q: expected no match for %q", tt.pattern, s)
			}
		}
	}
}

func TestParse_CharClass(t *testing.T) {
	n := build(t, "[a-cX0-9]+")
	for _, s := range []string{"a", "b", "c", "X", "0", "9", "aXb9"} {
		if !matches(n, s) {
			t.Errorf("expected match for %q", s)
		}
	}
	if matches(n, "d") || matches(n, "Y") {
		t.Error("unexpected match")
	}
}

func TestParse_CharClassNegated(t *testing.T) {
	n := build(t, "[^0-9]+")
	if !matches(n, "abc") {
		t.Error("expected match for non-digits")
	}
	if matches(n, "1") {
		t.Error("expected no match for a digit")
	}
}

func TestParse_CharClassEmbeddedPredefined(t *testing.T) {
	n := build(t, `[\d_]+`)
	for _, s := range []string{"1", "_", "1_2"} {
		if !matches(n, s) {
			t.Errorf("expected match for %q", s)
		}
	}
	if matches(n, "a") {
		t.Error("expected no match for a")
	}
}

func TestParse_CharClassTrailingHyphenLiteral(t *testing.T) {
	n := build(t, "[a-]")
	if !matches(n, "a") || !matches(n, "-") {
		t.Error("expected both 'a' and '-' to match")
	}
	if matches(n, "b") {
		t.Error("expected no match for b")
	}
}

func TestParse_CountedRepeat(t *testing.T) {
	tests := []struct {
		pattern string
		match   []string
		reject  []string
	}{
		{`\d{1,4}`, []string{"1", "12", "1234"}, []string{"", "12345"}},
		{`\w{3,}`, []string{"abc", "abcdef"}, []string{"ab"}},
		{`a{2}`, []string{"aa"}, []string{"a", "aaa"}},
	}
	for _, tt := range tests {
		n := build(t, tt.pattern)
		for _, s := range tt.match {
			if !matches(n, s) {
				t.Errorf("%q: expected match for %q", tt.pattern, s)
			}
		}
		for _, s := range tt.reject {
			if matches(n, s) {
				t.Errorf("%q: expected no match for %q", tt.pattern, s)
			}
		}
	}
}

func TestParse_EscapedMetacharacter(t *testing.T) {
	n := build(t, `a\.b\*c`)
	if !matches(n, "a.b*c") {
		t.Error("expected literal '.' and '*' to match")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []string{
		"a|",
		"|a",
		"a||b",
		"(a",
		"a)",
		`a\q`,
		"a{3,1}",
		"a{",
		"[a-",
		`\`,
		"*a",
	}
	for _, p := range tests {
		if _, err := Parse(p); err == nil {
			t.Errorf("Parse(%q): expected error", p)
		}
	}
}

func TestFragmentBuilder(t *testing.T) {
	inner, err := Parse(`\d+`)
	if err != nil {
		t.Fatal(err)
	}
	fb := NewFragmentBuilder().Literal("x=").Fragment(inner).Literal("*;")
	b, err := fb.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := b.Build()
	if !matches(n, "x=123;") {
		t.Error("expected match for x=123;")
	}
	if !matches(n, "x=;") {
		t.Error("expected match: fragment repeated zero times via trailing '*'")
	}
	if matches(n, "x=abc;") {
		t.Error("expected no match for non-digit body")
	}
}

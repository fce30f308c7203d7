package charclass

import (
	"math/rand"
	"testing"
)

func TestFromChars_FusesAdjacent(t *testing.T) {
	c := FromChars([]uint16{5, 3, 4, 10, 1})
	got := c.Ranges()
	want := []PlainCharRange{{1, 1}, {3, 5}, {10, 10}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestUnion_MergesTouchingRanges(t *testing.T) {
	a := FromRanges([]PlainCharRange{{1, 3}})
	b := FromRanges([]PlainCharRange{{4, 6}})
	u := a.Union(b)
	got := u.Ranges()
	if len(got) != 1 || got[0] != (PlainCharRange{1, 6}) {
		t.Fatalf("expected fused range, got %v", got)
	}
}

func TestUnionProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		a := randomClass(rng)
		b := randomClass(rng)
		u1 := a.Union(b)
		u2 := b.Union(a)
		if !u1.Equal(u2) {
			t.Fatalf("union not commutative: %v vs %v", u1.Ranges(), u2.Ranges())
		}
		if !a.Union(a).Equal(a) {
			t.Fatalf("union not idempotent for %v", a.Ranges())
		}
		for c := 0; c < 64; c++ {
			ch := uint16(rng.Intn(64))
			want := a.Contains(ch) || b.Contains(ch)
			if got := u1.Contains(ch); got != want {
				t.Fatalf("membership mismatch at %d: got %v want %v", ch, got, want)
			}
		}
	}
}

func TestUnionAssociative(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		a, b, c := randomClass(rng), randomClass(rng), randomClass(rng)
		left := a.Union(b).Union(c)
		right := a.Union(b.Union(c))
		if !left.Equal(right) {
			t.Fatalf("union not associative")
		}
	}
}

func TestInverseInvolutive(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		c := randomClass(rng)
		if !c.Inverse().Inverse().Equal(c) {
			t.Fatalf("inverse not involutive for %v", c.Ranges())
		}
	}
	if !Empty().Inverse().Equal(Any()) {
		t.Fatal("inverse of empty should be any")
	}
	if !Any().Inverse().Equal(Empty()) {
		t.Fatal("inverse of any should be empty")
	}
}

func TestIndexOf(t *testing.T) {
	c := FromRanges([]PlainCharRange{{10, 20}, {30, 40}})
	if c.IndexOf(25) != -1 {
		t.Fatal("expected no match")
	}
	if c.IndexOf(15) != 0 {
		t.Fatal("expected index 0")
	}
	if c.IndexOf(35) != 1 {
		t.Fatal("expected index 1")
	}
}

func randomClass(rng *rand.Rand) *CharClass {
	n := rng.Intn(5)
	var ranges []PlainCharRange
	for i := 0; i < n; i++ {
		start := uint16(rng.Intn(60))
		end := start + uint16(rng.Intn(5))
		ranges = append(ranges, PlainCharRange{start, end})
	}
	return FromRanges(ranges)
}

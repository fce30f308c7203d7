// Package transitionset implements TransitionSet, a mutable partitioning of
// the full 16-bit code-unit range [U+0000, U+FFFF] into disjoint sub-ranges,
// each carrying an optional mergeable payload.
//
// It is the shared workhorse behind subset construction (gathering a cell
// set's outgoing edges), minimization (refining partitions), and
// compression (discovering the global character-class alphabet).
package transitionset

import (
	"sort"

	"github.com/coregx/lexgen/charclass"
)

// universeEnd is one past the last code unit: positions run over
// [0, 0x10000] so that a range ending at 0xFFFF can still split cleanly at
// End+1.
const universeEnd = int32(charclass.MaxCodeUnit) + 1

// CopyFunc clones a payload so a fresh sub-range can own an independent copy
// before a merge mutates it.
type CopyFunc[T any] func(T) T

// MergeFunc combines other into the payload already owned by a sub-range.
type MergeFunc[T any] func(into T, other T) T

// EqualFunc reports whether two payloads are equivalent for the purposes of
// Optimize's coalescing pass.
type EqualFunc[T any] func(a, b T) bool

type segment[T any] struct {
	start int32 // inclusive, in [0, universeEnd)
	value *T    // nil = placeholder (unused sub-range)
}

// TransitionSet partitions [0, 0xFFFF] into disjoint sub-ranges with
// optional payloads of type T.
type TransitionSet[T any] struct {
	segs  []segment[T]
	copy  CopyFunc[T]
	merge MergeFunc[T]
	equal EqualFunc[T]
}

// New creates an empty TransitionSet (a single unused sub-range spanning the
// whole alphabet) parameterized by the given hooks.
func New[T any](copyFn CopyFunc[T], mergeFn MergeFunc[T], equalFn EqualFunc[T]) *TransitionSet[T] {
	return &TransitionSet[T]{
		segs:  []segment[T]{{start: 0, value: nil}},
		copy:  copyFn,
		merge: mergeFn,
		equal: equalFn,
	}
}

// split ensures a segment boundary exists at pos and returns the index of
// the segment that now starts there. O(log n) search, O(n) insert.
func (s *TransitionSet[T]) split(pos int32) int {
	i := sort.Search(len(s.segs), func(i int) bool { return s.segs[i].start >= pos })
	if i < len(s.segs) && s.segs[i].start == pos {
		return i
	}
	// pos falls inside segment i-1; duplicate its value into a new segment
	// starting at pos.
	prev := s.segs[i-1]
	var cloned *T
	if prev.value != nil {
		v := s.copy(*prev.value)
		cloned = &v
	}
	inserted := segment[T]{start: pos, value: cloned}
	s.segs = append(s.segs, segment[T]{})
	copy(s.segs[i+1:], s.segs[i:])
	s.segs[i] = inserted
	return i
}

// Add restricts the partition so that r is a contiguous union of internal
// sub-ranges, then merges value into every sub-range fully inside r (cloning
// it via CopyFunc where a sub-range had no prior payload).
func (s *TransitionSet[T]) Add(r charclass.PlainCharRange, value T) {
	if r.IsEmpty() {
		return
	}
	start := int32(r.Start)
	end := int32(r.End) + 1

	startIdx := s.split(start)
	endIdx := s.split(end)

	for i := startIdx; i < endIdx; i++ {
		if s.segs[i].value == nil {
			v := s.copy(value)
			s.segs[i].value = &v
		} else {
			merged := s.merge(*s.segs[i].value, value)
			s.segs[i].value = &merged
		}
	}
}

// Optimize coalesces adjacent sub-ranges whose payloads are equal (including
// adjacent unused placeholders).
func (s *TransitionSet[T]) Optimize() {
	out := s.segs[:0:0]
	for _, seg := range s.segs {
		if n := len(out); n > 0 && s.segsEqual(out[n-1], seg) {
			continue
		}
		out = append(out, seg)
	}
	s.segs = out
}

func (s *TransitionSet[T]) segsEqual(a, b segment[T]) bool {
	if (a.value == nil) != (b.value == nil) {
		return false
	}
	if a.value == nil {
		return true
	}
	return s.equal(*a.value, *b.value)
}

// Iterate yields (range, payload) pairs in ascending order, skipping unused
// sub-ranges (nil placeholders).
func (s *TransitionSet[T]) Iterate(fn func(r charclass.PlainCharRange, value T)) {
	for i, seg := range s.segs {
		if seg.value == nil {
			continue
		}
		end := universeEnd
		if i+1 < len(s.segs) {
			end = s.segs[i+1].start
		}
		fn(charclass.PlainCharRange{Start: uint16(seg.start), End: uint16(end - 1)}, *seg.value)
	}
}

// Equal reports content-equality: after Optimize, both sets must describe the
// same ranges with equal payloads.
func (s *TransitionSet[T]) Equal(other *TransitionSet[T]) bool {
	var a, b []struct {
		r charclass.PlainCharRange
		v T
	}
	s.Iterate(func(r charclass.PlainCharRange, v T) {
		a = append(a, struct {
			r charclass.PlainCharRange
			v T
		}{r, v})
	})
	other.Iterate(func(r charclass.PlainCharRange, v T) {
		b = append(b, struct {
			r charclass.PlainCharRange
			v T
		}{r, v})
	})
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].r != b[i].r || !s.equal(a[i].v, b[i].v) {
			return false
		}
	}
	return true
}

// Package dfa implements the general DFA representation (per-cell sorted
// range/out tables), subset construction from an NFA with mark propagation
// and conflict reporting, Hopcroft-style minimization, and the two-level
// compression pass, per spec §3-4.7.
package dfa

import "github.com/coregx/lexgen/charclass"

// DFA is the general form: size cells numbered from 0 (cell 0 is begin),
// each with a sorted sequence of non-merged char ranges and one out cell id
// per range. Ranges within one cell are disjoint but may touch a neighbor
// with a different out (they are never fused here, unlike a CharClass).
type DFA struct {
	CharRanges [][]charclass.PlainCharRange
	Outs       [][]int32
	FinalFlags []bool
}

// Size returns the number of cells.
func (d *DFA) Size() int {
	return len(d.Outs)
}

// IsFinal reports whether cell i is accepting.
func (d *DFA) IsFinal(i int32) bool {
	return d.FinalFlags[i]
}

// TransitionIndex returns the slot k such that CharRanges[i][k] contains ch,
// via binary search, or -1 if no range matches.
func (d *DFA) TransitionIndex(i int32, ch uint16) int {
	ranges := d.CharRanges[i]
	lo, hi := 0, len(ranges)
	for lo < hi {
		mid := (lo + hi) / 2
		r := ranges[mid]
		switch {
		case ch < r.Start:
			hi = mid
		case ch > r.End:
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}

// Out returns the target cell for transition slot k out of cell i.
func (d *DFA) Out(i int32, k int) int32 {
	return d.Outs[i][k]
}

// Transit is the general-DFA equivalent of CompressedDFA.Transit: the target
// cell for character ch out of cell i, or -1 if there is none.
func (d *DFA) Transit(i int32, ch uint16) int32 {
	k := d.TransitionIndex(i, ch)
	if k < 0 {
		return -1
	}
	return d.Out(i, k)
}

package nfa

import "github.com/coregx/lexgen/mark"

// RuleFragment pairs a pattern fragment with the mark that should be
// recorded when that fragment's match completes.
type RuleFragment struct {
	Fragment *Builder
	Mark     mark.Mark
}

// Combine merges independently-built rule fragments into a single NFA
// suitable for subset construction: a dummy cell branches into every rule's
// (shifted) begin, and each rule's end is relinked through a dedicated
// per-rule dummy carrying that rule's mark before reaching Final. Marked
// dummies are where subset construction's dummy-closure picks up the rule's
// mark, per spec §4.5.
func Combine(fragments []RuleFragment) *NFA {
	root := NewBuilder()
	root.nfa.Marks = nil

	var beginIDs []CellID
	for _, f := range fragments {
		frag := f.Fragment.Clone()
		offset := CellID(len(root.nfa.Cells))
		for _, cell := range frag.nfa.Cells {
			root.nfa.Cells = append(root.nfa.Cells, remapCell(cell, offset))
		}
		root.growMarks()

		if frag.nfa.Begin == Final {
			// The rule matches the empty string: the terminal marked dummy
			// itself stands in for the rule's begin.
			d := root.newDummyCell([]CellID{Final})
			root.growMarks()
			root.nfa.Marks[d] = f.Mark
			beginIDs = append(beginIDs, d)
			continue
		}

		begin := frag.nfa.Begin + offset
		end := frag.end + offset
		d := root.newDummyCell([]CellID{Final})
		root.growMarks()
		root.nfa.Marks[d] = f.Mark
		root.link(end, d)
		beginIDs = append(beginIDs, begin)
	}

	head := root.newDummyCell(beginIDs)
	root.growMarks()
	root.nfa.Begin = head

	out := root.Build()
	out.Marks = root.nfa.Marks
	return out
}

// growMarks keeps the sparse Marks table parallel with Cells.
func (b *Builder) growMarks() {
	for len(b.nfa.Marks) < len(b.nfa.Cells) {
		b.nfa.Marks = append(b.nfa.Marks, nil)
	}
}

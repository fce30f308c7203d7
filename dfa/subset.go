package dfa

import (
	"github.com/coregx/lexgen/charclass"
	"github.com/coregx/lexgen/mark"
	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/transitionset"
)

// cellListPayload is the TransitionSet payload used while gathering a
// state's outgoing edges: the closed cell-set a sub-range transitions into,
// together with the mark merged while closing it. err records a conflict
// discovered while two overlapping member cells' payloads were merged; it is
// sticky so the driver can detect it after Optimize without the merge hook
// needing to report errors directly.
type cellListPayload struct {
	cells    []nfa.CellID
	hasFinal bool
	mark     mark.Mark
	err      *mark.ConflictError
}

func copyCellListPayload(p cellListPayload) cellListPayload {
	cells := make([]nfa.CellID, len(p.cells))
	copy(cells, p.cells)
	return cellListPayload{cells: cells, hasFinal: p.hasFinal, mark: p.mark, err: p.err}
}

func mergeCellListPayload(into, other cellListPayload) cellListPayload {
	merged := cellListPayload{
		cells:    unionCells(into.cells, other.cells),
		hasFinal: into.hasFinal || other.hasFinal,
	}
	switch {
	case into.err != nil:
		merged.err, merged.mark = into.err, into.mark
	case other.err != nil:
		merged.err, merged.mark = other.err, other.mark
	default:
		m, err := mark.Merge(into.mark, other.mark)
		if err != nil {
			merged.err = err.(*mark.ConflictError)
			merged.mark = into.mark
		} else {
			merged.mark = m
		}
	}
	return merged
}

func equalCellListPayload(a, b cellListPayload) bool {
	if a.hasFinal != b.hasFinal || (a.err == nil) != (b.err == nil) || len(a.cells) != len(b.cells) {
		return false
	}
	for i := range a.cells {
		if a.cells[i] != b.cells[i] {
			return false
		}
	}
	return a.mark == b.mark
}

// triggerInfo records, per allocated DFA cell, the (triggering range,
// predecessor cell) pair that first introduced it, for conflict path
// reconstruction per spec's Design Notes.
type triggerInfo struct {
	hasPredecessor bool
	predecessor    int32
	r              charclass.PlainCharRange
}

type pendingState struct {
	id       int32
	members  []nfa.CellID
	hasFinal bool
}

type subsetBuilder struct {
	n    *nfa.NFA
	seen map[string]int32

	charRanges [][]charclass.PlainCharRange
	outs       [][]int32
	finalFlags []bool
	marks      [][]mark.Mark
	trigger    []triggerInfo

	queue []pendingState
}

// Construct runs subset construction (spec §4.5) over n, producing a
// MarkedDFA whose per-transition marks carry each rule's propagated mark. It
// returns a *MarksConflictError the first time two rules' marks fail to
// merge, with Path the minimal witnessing sequence of character ranges.
func Construct(n *nfa.NFA) (*MarkedDFA, error) {
	b := &subsetBuilder{n: n, seen: map[string]int32{}}

	seedMembers, seedHasFinal, _, err := closeCellSet(n, []nfa.CellID{n.Begin})
	if err != nil {
		ce := err.(*mark.ConflictError)
		return nil, &MarksConflictError{A: ce.A, B: ce.B}
	}

	rootID, isNew := b.allocateOrGet(seedMembers, seedHasFinal)
	if isNew {
		b.queue = append(b.queue, pendingState{id: rootID, members: seedMembers, hasFinal: seedHasFinal})
	}

	for len(b.queue) > 0 {
		st := b.queue[0]
		b.queue = b.queue[1:]
		if err := b.processState(st); err != nil {
			return nil, err
		}
	}

	return &MarkedDFA{
		DFA: &DFA{
			CharRanges: b.charRanges,
			Outs:       b.outs,
			FinalFlags: b.finalFlags,
		},
		Marks: b.marks,
	}, nil
}

func (b *subsetBuilder) allocateOrGet(members []nfa.CellID, hasFinal bool) (int32, bool) {
	key := cellSetKey(members, hasFinal)
	if id, ok := b.seen[key]; ok {
		return id, false
	}
	id := int32(len(b.charRanges))
	b.seen[key] = id
	b.charRanges = append(b.charRanges, nil)
	b.outs = append(b.outs, nil)
	b.finalFlags = append(b.finalFlags, hasFinal)
	b.marks = append(b.marks, nil)
	b.trigger = append(b.trigger, triggerInfo{})
	return id, true
}

func (b *subsetBuilder) buildPath(state int32, last charclass.PlainCharRange) []charclass.PlainCharRange {
	var rev []charclass.PlainCharRange
	for b.trigger[state].hasPredecessor {
		t := b.trigger[state]
		rev = append(rev, t.r)
		state = t.predecessor
	}
	path := make([]charclass.PlainCharRange, 0, len(rev)+1)
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return append(path, last)
}

func (b *subsetBuilder) processState(st pendingState) error {
	ts := transitionset.New(copyCellListPayload, mergeCellListPayload, equalCellListPayload)

	for _, c := range st.members {
		cell := b.n.Cells[c]
		targetMembers, targetHasFinal, targetMark, err := closeCellSet(b.n, cell.Outs)
		if err != nil {
			ce := err.(*mark.ConflictError)
			var witness charclass.PlainCharRange
			if ranges := cell.Class.Ranges(); len(ranges) > 0 {
				witness = ranges[0]
			}
			return &MarksConflictError{A: ce.A, B: ce.B, Path: b.buildPath(st.id, witness)}
		}
		payload := cellListPayload{cells: targetMembers, hasFinal: targetHasFinal, mark: targetMark}
		for _, r := range cell.Class.Ranges() {
			ts.Add(r, payload)
		}
	}
	ts.Optimize()

	var conflict error
	ts.Iterate(func(r charclass.PlainCharRange, payload cellListPayload) {
		if conflict != nil {
			return
		}
		if payload.err != nil {
			conflict = &MarksConflictError{A: payload.err.A, B: payload.err.B, Path: b.buildPath(st.id, r)}
			return
		}
		targetID, isNew := b.allocateOrGet(payload.cells, payload.hasFinal)
		if isNew {
			b.trigger[targetID] = triggerInfo{hasPredecessor: true, predecessor: st.id, r: r}
			b.queue = append(b.queue, pendingState{id: targetID, members: payload.cells, hasFinal: payload.hasFinal})
		}
		b.charRanges[st.id] = append(b.charRanges[st.id], r)
		b.outs[st.id] = append(b.outs[st.id], targetID)
		b.marks[st.id] = append(b.marks[st.id], payload.mark)
	})
	return conflict
}

package dfa

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/lexgen/charclass"
	"github.com/coregx/lexgen/mark"
	"github.com/coregx/lexgen/transitionset"
)

// summaryEntry is one coalesced outgoing transition of a cell, with its
// target expressed as a partition-group id rather than a raw cell id.
type summaryEntry struct {
	r     charclass.PlainCharRange
	group int32
	m     mark.Mark
}

type groupPayload struct {
	group int32
	m     mark.Mark
	set   bool
}

// cellSummary builds the content-equal TransitionSet<group-id> induced by
// the current partition for one cell (spec §4.6): its own ranges, each
// mapped through group[] and coalesced with its mark by Optimize. Two cells
// with identical summaries (same old group, same summary) belong together.
func cellSummary(d *DFA, marks []mark.Mark, group []int32, cell int32) []summaryEntry {
	ts := transitionset.New(
		func(p groupPayload) groupPayload { return p },
		func(_, other groupPayload) groupPayload { return other }, // a cell's own ranges never overlap
		func(a, b groupPayload) bool {
			return a.set == b.set && (!a.set || (a.group == b.group && a.m == b.m))
		},
	)
	ranges := d.CharRanges[cell]
	outs := d.Outs[cell]
	for k, r := range ranges {
		var m mark.Mark
		if k < len(marks) {
			m = marks[k]
		}
		ts.Add(r, groupPayload{group: group[outs[k]], m: m, set: true})
	}
	ts.Optimize()

	var entries []summaryEntry
	ts.Iterate(func(r charclass.PlainCharRange, p groupPayload) {
		if !p.set {
			return
		}
		entries = append(entries, summaryEntry{r: r, group: p.group, m: p.m})
	})
	return entries
}

func signatureKey(oldGroup int32, entries []summaryEntry) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(int(oldGroup)))
	sb.WriteByte('#')
	for _, e := range entries {
		fmt.Fprintf(&sb, "%d-%d:%d:%v|", e.r.Start, e.r.End, e.group, e.m)
	}
	return sb.String()
}

// Minimize runs Hopcroft-style partition refinement over md (spec §4.6),
// starting from the {final, non-final} partition and splitting classes
// whose members disagree on their group-mapped transition summary, until a
// fixed point. If refinement achieves nothing (every cell ends in its own
// singleton class), md is returned unchanged.
func Minimize(md *MarkedDFA) (*MarkedDFA, error) {
	d := md.DFA
	n := d.Size()
	if n == 0 {
		return md, nil
	}

	group := make([]int32, n)
	hasFinal, hasNonFinal := false, false
	for i := 0; i < n; i++ {
		if d.FinalFlags[i] {
			hasFinal = true
		} else {
			hasNonFinal = true
		}
	}
	for i := 0; i < n; i++ {
		if d.FinalFlags[i] || !hasNonFinal {
			group[i] = 0
		} else {
			group[i] = 1
		}
	}
	numGroups := int32(1)
	if hasFinal && hasNonFinal {
		numGroups = 2
	}

	for {
		newGroupOf := map[string]int32{}
		newGroup := make([]int32, n)
		var next int32
		for i := 0; i < n; i++ {
			entries := cellSummary(d, md.Marks[i], group, int32(i))
			key := signatureKey(group[i], entries)
			id, ok := newGroupOf[key]
			if !ok {
				id = next
				newGroupOf[key] = id
				next++
			}
			newGroup[i] = id
		}
		if next == numGroups {
			break
		}
		group, numGroups = newGroup, next
	}

	if int(numGroups) == n {
		return md, nil
	}

	remap := map[int32]int32{group[0]: 0}
	next := int32(1)
	for i := 0; i < n; i++ {
		if _, ok := remap[group[i]]; !ok {
			remap[group[i]] = next
			next++
		}
	}
	numClasses := int(next)

	representative := make([]int32, numClasses)
	seenRep := make([]bool, numClasses)
	for i := 0; i < n; i++ {
		c := remap[group[i]]
		if !seenRep[c] {
			representative[c] = int32(i)
			seenRep[c] = true
		}
	}

	outCharRanges := make([][]charclass.PlainCharRange, numClasses)
	outOuts := make([][]int32, numClasses)
	outFinal := make([]bool, numClasses)
	outMarks := make([][]mark.Mark, numClasses)

	for c := 0; c < numClasses; c++ {
		rep := representative[c]
		outFinal[c] = d.FinalFlags[rep]
		for _, e := range cellSummary(d, md.Marks[rep], group, rep) {
			outCharRanges[c] = append(outCharRanges[c], e.r)
			outOuts[c] = append(outOuts[c], remap[e.group])
			outMarks[c] = append(outMarks[c], e.m)
		}
	}

	return &MarkedDFA{
		DFA: &DFA{
			CharRanges: outCharRanges,
			Outs:       outOuts,
			FinalFlags: outFinal,
		},
		Marks: outMarks,
	}, nil
}

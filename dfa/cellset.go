package dfa

import (
	"sort"
	"strconv"
	"strings"

	"github.com/coregx/lexgen/internal/sparse"
	"github.com/coregx/lexgen/mark"
	"github.com/coregx/lexgen/nfa"
)

// closeCellSet computes the dummy-closure of seeds: every consuming cell (and
// whether the final sentinel) reachable through zero or more dummy hops,
// plus every traversed cell's mark merged in along the way. The returned
// member list is sorted and deduplicated. An error indicates two marks
// collected during this single closure could not merge.
func closeCellSet(n *nfa.NFA, seeds []nfa.CellID) (members []nfa.CellID, hasFinal bool, merged mark.Mark, err error) {
	visited := sparse.New(len(n.Cells))
	resultSeen := sparse.New(len(n.Cells))
	stack := append([]nfa.CellID(nil), seeds...)

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if id == nfa.Final {
			hasFinal = true
			continue
		}
		if !visited.Insert(int32(id)) {
			continue
		}
		if m := n.Mark(id); m != nil {
			merged, err = mark.Merge(merged, m)
			if err != nil {
				return nil, false, nil, err
			}
		}
		cell := n.Cells[id]
		if cell.IsDummy() {
			stack = append(stack, cell.Outs...)
			continue
		}
		if resultSeen.Insert(int32(id)) {
			members = append(members, id)
		}
	}

	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	return members, hasFinal, merged, nil
}

// cellSetKey is the memoisation key for subset construction's state table:
// the sorted member list plus the has-final flag, combined so that no two
// distinct cell-sets collide and iteration order never matters (members is
// already canonically sorted by closeCellSet).
func cellSetKey(members []nfa.CellID, hasFinal bool) string {
	var sb strings.Builder
	if hasFinal {
		sb.WriteByte('F')
	}
	for _, c := range members {
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(int(c)))
	}
	return sb.String()
}

func unionCells(a, b []nfa.CellID) []nfa.CellID {
	out := make([]nfa.CellID, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

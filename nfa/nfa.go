// Package nfa implements the cell-based NFA representation and the
// NFABuilder that assembles it: dummy cells stand in for epsilon moves, the
// sentinel CellID Final represents the accepting sink, and every structural
// operation (concatenation, branching, the Thompson star/plus/optional
// transforms, bounded repetition, and reachability reduction) is expressed
// as index-remapping over a flat cell arena rather than pointer graphs.
package nfa

import (
	"github.com/coregx/lexgen/charclass"
	"github.com/coregx/lexgen/mark"
)

// CellID identifies an NFA cell. Final is the distinguished sentinel for the
// accepting sink; it is never an index into NFA.Cells.
type CellID int32

// Final is the sentinel target representing the NFA's single accepting sink.
const Final CellID = -1

// Cell is one NFA state: a character class (empty means "dummy", i.e. an
// unconditional epsilon-like move) and its outgoing targets.
type Cell struct {
	Class *charclass.CharClass
	Outs  []CellID
}

// IsDummy reports whether the cell has an empty character class and
// therefore fires its outs unconditionally when reached.
func (c Cell) IsDummy() bool {
	return c.Class == nil || c.Class.IsEmpty()
}

// NFA is the static, frozen form: parallel cell storage indexed by CellID,
// plus the begin cell and a sparse per-cell mark table (nil entries are the
// common case; only a rule's terminal dummy carries a mark).
type NFA struct {
	Cells []Cell
	Begin CellID
	Marks []mark.Mark // len(Marks) == len(Cells); Marks[i] may be nil
}

// Mark returns the mark attached to cell id, or nil.
func (n *NFA) Mark(id CellID) mark.Mark {
	if id == Final || int(id) >= len(n.Marks) {
		return nil
	}
	return n.Marks[id]
}

// Size returns the number of cells in the arena.
func (n *NFA) Size() int {
	return len(n.Cells)
}

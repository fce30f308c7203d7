package nfa

import "github.com/coregx/lexgen/charclass"

// Builder constructs an NFA incrementally, maintaining the invariant
//
//	(begin) --...--> (end) --> (final)
//
// where end always names a cell whose sole out is Final. Emptiness (the
// builder matches the empty string) is represented by begin == end == Final.
type Builder struct {
	nfa *NFA
	end CellID
}

// NewBuilder returns a builder for the empty-string NFA.
func NewBuilder() *Builder {
	return &Builder{nfa: &NFA{Begin: Final}, end: Final}
}

// Begin returns the builder's current begin cell (Final if empty).
func (b *Builder) Begin() CellID {
	return b.nfa.Begin
}

// End returns the builder's current end cell (Final if empty).
func (b *Builder) End() CellID {
	return b.end
}

// Cells exposes the current arena size, mostly for diagnostics.
func (b *Builder) Cells() int {
	return len(b.nfa.Cells)
}

func (b *Builder) newConsumingCell(class *charclass.CharClass) CellID {
	id := CellID(len(b.nfa.Cells))
	b.nfa.Cells = append(b.nfa.Cells, Cell{Class: class, Outs: []CellID{Final}})
	return id
}

func (b *Builder) newDummyCell(outs []CellID) CellID {
	id := CellID(len(b.nfa.Cells))
	b.nfa.Cells = append(b.nfa.Cells, Cell{Class: nil, Outs: outs})
	return id
}

// link replaces the outs of cell `from` with a single target `to`.
func (b *Builder) link(from, to CellID) {
	b.nfa.Cells[from].Outs = []CellID{to}
}

// reset discards all content, returning the builder to the empty-string
// state. The underlying arena is left allocated; Reduce cleans it up.
func (b *Builder) reset() {
	b.nfa.Begin = Final
	b.end = Final
}

func (b *Builder) chainConsuming(id CellID) {
	if b.nfa.Begin == Final {
		b.nfa.Begin = id
	} else {
		b.link(b.end, id)
	}
	b.end = id
}

// AppendChar appends a single consuming cell matching ch.
func (b *Builder) AppendChar(ch uint16) {
	b.chainConsuming(b.newConsumingCell(charclass.FromChars([]uint16{ch})))
}

// AppendClass appends a single consuming cell matching cc.
func (b *Builder) AppendClass(cc *charclass.CharClass) {
	b.chainConsuming(b.newConsumingCell(cc))
}

// AppendRunes appends a chain of single-character consuming cells, one per
// code unit of s (BMP only: every rune must fit in 16 bits).
func (b *Builder) AppendRunes(s []rune) {
	for _, r := range s {
		b.AppendChar(uint16(r))
	}
}

// Append extends the builder with other, concatenating the two: the
// builder's current end is linked to other's (shifted) begin, and other's
// (shifted) end becomes the new end. other is left unmodified; its cells are
// copied. If other is the empty-string NFA, this is a no-op.
func (b *Builder) Append(other *Builder) {
	if other.nfa.Begin == Final {
		return
	}
	offset := CellID(len(b.nfa.Cells))
	for _, cell := range other.nfa.Cells {
		b.nfa.Cells = append(b.nfa.Cells, remapCell(cell, offset))
	}
	newBegin := other.nfa.Begin + offset
	newEnd := other.end + offset
	if b.nfa.Begin == Final {
		b.nfa.Begin = newBegin
	} else {
		b.link(b.end, newBegin)
	}
	b.end = newEnd
}

func remapCell(c Cell, offset CellID) Cell {
	outs := make([]CellID, len(c.Outs))
	for i, o := range c.Outs {
		if o == Final {
			outs[i] = Final
		} else {
			outs[i] = o + offset
		}
	}
	return Cell{Class: c.Class, Outs: outs}
}

// AppendBranch turns the builder into an n-ary alternation of branches
// (plus whatever the builder already held, prepended as a mandatory
// sequence before the alternation): a new dummy B is created whose outs are
// the shifted begins of every branch; a new dummy E collects them; each
// branch's end is relinked to E. The n=1 case degenerates to a plain Append.
func (b *Builder) AppendBranch(branches ...*Builder) {
	if len(branches) == 1 {
		b.Append(branches[0])
		return
	}

	type span struct {
		begin, end CellID // Final for an epsilon (empty-matching) branch
	}
	spans := make([]span, len(branches))
	for i, br := range branches {
		if br.nfa.Begin == Final {
			spans[i] = span{begin: Final, end: Final}
			continue
		}
		offset := CellID(len(b.nfa.Cells))
		for _, cell := range br.nfa.Cells {
			b.nfa.Cells = append(b.nfa.Cells, remapCell(cell, offset))
		}
		spans[i] = span{begin: br.nfa.Begin + offset, end: br.end + offset}
	}

	e := b.newDummyCell([]CellID{Final})
	bOuts := make([]CellID, len(spans))
	for i, s := range spans {
		if s.begin == Final {
			bOuts[i] = e // epsilon branch: short-circuit straight to E
		} else {
			bOuts[i] = s.begin
			b.link(s.end, e)
		}
	}
	branchHead := b.newDummyCell(bOuts)

	if b.nfa.Begin == Final {
		b.nfa.Begin = branchHead
	} else {
		b.link(b.end, branchHead)
	}
	b.end = e
}

// OneOrMore applies the Thompson "+" transform in place:
//
//	(begin) --...--> (end=ε) --> D1 --> D2 --> (final)
//	                              ^loops back to (begin)
//
// A no-op on the empty-string builder (oneOrMore of ε is ε).
func (b *Builder) OneOrMore() {
	if b.nfa.Begin == Final {
		return
	}
	beta, eps := b.nfa.Begin, b.end
	d2 := b.newDummyCell([]CellID{Final})
	d1 := b.newDummyCell([]CellID{beta, d2})
	b.link(eps, d1)
	b.end = d2
}

// Optional applies the Thompson "?" transform ("unnecessary" in spec terms):
//
//	D1 --> (begin) --...--> (end=ε) --> D2 --> (final)
//	  \_______________bypasses directly to D2_______^
//
// A no-op on the empty-string builder.
func (b *Builder) Optional() {
	if b.nfa.Begin == Final {
		return
	}
	beta, eps := b.nfa.Begin, b.end
	d2 := b.newDummyCell([]CellID{Final})
	d1 := b.newDummyCell([]CellID{beta, d2})
	b.link(eps, d2)
	b.nfa.Begin = d1
	b.end = d2
}

// Any applies the Thompson "*" transform (Kleene star, zero or more):
//
//	D1 --> (begin) --...--> (end=ε)
//	  \--> D2 --> (final)        |
//	   ^____________loops back___|
//
// A no-op on the empty-string builder.
func (b *Builder) Any() {
	if b.nfa.Begin == Final {
		return
	}
	beta, eps := b.nfa.Begin, b.end
	d2 := b.newDummyCell([]CellID{Final})
	d1 := b.newDummyCell([]CellID{beta, d2})
	b.link(eps, d1)
	b.nfa.Begin = d1
	b.end = d2
}

// Clone returns an independent deep copy of the builder's current content.
func (b *Builder) Clone() *Builder {
	cells := make([]Cell, len(b.nfa.Cells))
	for i, c := range b.nfa.Cells {
		outs := make([]CellID, len(c.Outs))
		copy(outs, c.Outs)
		cells[i] = Cell{Class: c.Class, Outs: outs}
	}
	return &Builder{nfa: &NFA{Cells: cells, Begin: b.nfa.Begin}, end: b.end}
}

// Repeat materializes {lo,hi} (hi == -1 for unbounded) over the builder's
// current content, per spec §4.3's degenerate short-circuits:
//
//	lo=0,hi=0  -> match ε
//	lo=0,hi=1  -> Optional()
//	lo=0,hi=-1 -> Any()
//	lo=1,hi=-1 -> OneOrMore()
//	otherwise  -> lo mandatory copies + (hi-lo) optional copies, or
//	              (for unbounded) lo-1 mandatory copies + one OneOrMore copy
func (b *Builder) Repeat(lo, hi int) error {
	if lo < 0 || (hi >= 0 && hi < lo) {
		return &RepeatError{Lo: lo, Hi: hi}
	}
	switch {
	case lo == 0 && hi == 0:
		b.reset()
	case lo == 0 && hi == 1:
		b.Optional()
	case hi < 0 && lo == 0:
		b.Any()
	case hi < 0 && lo == 1:
		b.OneOrMore()
	case hi < 0:
		b.repeatAtLeast(lo)
	default:
		b.repeatBounded(lo, hi)
	}
	return nil
}

func (b *Builder) repeatAtLeast(lo int) {
	b.Reduce()
	template := b.Clone()
	b.reset()
	for i := 0; i < lo-1; i++ {
		b.Append(template.Clone())
	}
	tail := template.Clone()
	tail.OneOrMore()
	b.Append(tail)
}

func (b *Builder) repeatBounded(lo, hi int) {
	b.Reduce()
	template := b.Clone()
	b.reset()
	for i := 0; i < lo; i++ {
		b.Append(template.Clone())
	}
	for i := lo; i < hi; i++ {
		opt := template.Clone()
		opt.Optional()
		b.Append(opt)
	}
}

// Reduce removes cells unreachable from begin by a reachability sweep,
// compacting the remaining ids. Returns the number of cells removed.
func (b *Builder) Reduce() int {
	n := len(b.nfa.Cells)
	reachable := make([]bool, n)
	var stack []CellID
	if b.nfa.Begin != Final {
		stack = append(stack, b.nfa.Begin)
		reachable[b.nfa.Begin] = true
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, o := range b.nfa.Cells[id].Outs {
			if o != Final && !reachable[o] {
				reachable[o] = true
				stack = append(stack, o)
			}
		}
	}

	remap := make([]CellID, n)
	newCells := make([]Cell, 0, n)
	for i := 0; i < n; i++ {
		if reachable[i] {
			remap[i] = CellID(len(newCells))
			newCells = append(newCells, b.nfa.Cells[i])
		}
	}
	for i := range newCells {
		for j, o := range newCells[i].Outs {
			if o != Final {
				newCells[i].Outs[j] = remap[o]
			}
		}
	}
	removed := n - len(newCells)
	b.nfa.Cells = newCells
	if b.nfa.Begin != Final {
		b.nfa.Begin = remap[b.nfa.Begin]
	}
	if b.end != Final {
		b.end = remap[b.end]
	}
	return removed
}

// Build freezes the builder into an immutable NFA. The builder remains
// usable afterwards; Build copies the arena.
func (b *Builder) Build() *NFA {
	cells := make([]Cell, len(b.nfa.Cells))
	copy(cells, b.nfa.Cells)
	return &NFA{Cells: cells, Begin: b.nfa.Begin}
}

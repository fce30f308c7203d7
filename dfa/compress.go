package dfa

import (
	"strconv"
	"strings"

	"github.com/coregx/lexgen/charclass"
	"github.com/coregx/lexgen/mark"
	"github.com/coregx/lexgen/transitionset"
)

// CompressedDFA stores the same information as a DFA but as constant-time
// lookup tables shared across cells, per spec §4.7: a two-level code-unit →
// character-class table, and deduplicated per-cell transition-index rows
// sitting in front of a flat transition table.
type CompressedDFA struct {
	TopLevel   []uint8 // 256 entries: deduplicated-row index per high byte
	ClassTable []int32 // numRows*256 entries: class id per low byte, -1 = dead
	NumClasses int

	TransitionIndexBegin []int32 // per cell, offset into TransitionIndices
	TransitionIndices    []int32 // deduplicated rows of length NumClasses; -1 = no transition

	TransitionBegin []int32 // per cell, offset into Transitions
	Transitions     []int32 // concatenated target cell ids, original per-cell slot order

	FinalFlags []bool
}

// Size returns the number of cells.
func (c *CompressedDFA) Size() int {
	return len(c.FinalFlags)
}

// IsFinal reports whether cell i is accepting.
func (c *CompressedDFA) IsFinal(i int32) bool {
	return c.FinalFlags[i]
}

func (c *CompressedDFA) classIndex(ch uint16) int32 {
	row := int(c.TopLevel[ch>>8])
	return c.ClassTable[row*256+int(ch&0xFF)]
}

// TransitionIndex returns the slot that character ch resolves to out of cell
// i, or -1. The slot is stable across compression: it indexes the same
// per-cell transition (and therefore the same mark) as the uncompressed DFA.
func (c *CompressedDFA) TransitionIndex(i int32, ch uint16) int {
	cls := c.classIndex(ch)
	if cls < 0 {
		return -1
	}
	slot := c.TransitionIndices[c.TransitionIndexBegin[i]+int32(cls)]
	if slot < 0 {
		return -1
	}
	return int(slot)
}

// Out returns the target cell for transition slot k out of cell i.
func (c *CompressedDFA) Out(i int32, k int) int32 {
	return c.Transitions[c.TransitionBegin[i]+int32(k)]
}

// Transit is the compressed equivalent of DFA.Transit.
func (c *CompressedDFA) Transit(i int32, ch uint16) int32 {
	k := c.TransitionIndex(i, ch)
	if k < 0 {
		return -1
	}
	return c.Out(i, k)
}

// CompressedMarkedDFA pairs a CompressedDFA with the uncompressed
// per-transition mark table: compression only changes how a character
// resolves to a slot, never the per-cell slot numbering, so Marks carries
// over unchanged from the MarkedDFA it was built from.
type CompressedMarkedDFA struct {
	DFA   *CompressedDFA
	Marks [][]mark.Mark
}

// Action returns the action id for cell i's slot-th transition.
func (c *CompressedMarkedDFA) Action(i int32, slot int) int {
	if slot < 0 {
		return 0
	}
	return mark.ActionOf(c.Marks[i][slot])
}

// TransitionIndex, Out, and IsFinal delegate to the wrapped CompressedDFA so
// a *CompressedMarkedDFA satisfies the lexer package's runtime driver
// interface directly.
func (c *CompressedMarkedDFA) TransitionIndex(i int32, ch uint16) int {
	return c.DFA.TransitionIndex(i, ch)
}
func (c *CompressedMarkedDFA) Out(i int32, slot int) int32 { return c.DFA.Out(i, slot) }
func (c *CompressedMarkedDFA) IsFinal(i int32) bool        { return c.DFA.IsFinal(i) }

// Compress applies the two-level compression pass to md, per spec §4.7.
func Compress(md *MarkedDFA) *CompressedMarkedDFA {
	return &CompressedMarkedDFA{DFA: CompressDFA(md.DFA), Marks: md.Marks}
}

// CompressDFA compresses the general DFA form alone.
func CompressDFA(d *DFA) *CompressedDFA {
	classID, numClasses := discoverAlphabet(d)

	topLevel, classTable := buildClassTable(classID)

	transitionIndexBegin, transitionIndices := buildTransitionIndexRows(d, classID, numClasses)

	transitionBegin := make([]int32, d.Size())
	var transitions []int32
	for i := 0; i < d.Size(); i++ {
		transitionBegin[i] = int32(len(transitions))
		transitions = append(transitions, d.Outs[i]...)
	}

	finalFlags := make([]bool, d.Size())
	copy(finalFlags, d.FinalFlags)

	return &CompressedDFA{
		TopLevel:             topLevel,
		ClassTable:           classTable,
		NumClasses:           numClasses,
		TransitionIndexBegin: transitionIndexBegin,
		TransitionIndices:    transitionIndices,
		TransitionBegin:      transitionBegin,
		Transitions:          transitions,
		FinalFlags:           finalFlags,
	}
}

// discoverAlphabet unions every cell's ranges into one TransitionSet to find
// the global character-class partition: boundaries appearing in any cell
// become class boundaries, everything else is dead (-1). The 65536-entry
// scratch array is used once here and discarded; only the compact two-level
// table derived from it is retained.
func discoverAlphabet(d *DFA) (classID []int32, numClasses int) {
	ts := transitionset.New(
		func(b bool) bool { return b },
		func(_, _ bool) bool { return true },
		func(a, b bool) bool { return a == b },
	)
	for i := 0; i < d.Size(); i++ {
		for _, r := range d.CharRanges[i] {
			ts.Add(r, true)
		}
	}

	classID = make([]int32, charclass.MaxCodeUnit+1)
	for i := range classID {
		classID[i] = -1
	}
	var next int32
	ts.Iterate(func(r charclass.PlainCharRange, used bool) {
		if !used {
			return
		}
		for c := int(r.Start); c <= int(r.End); c++ {
			classID[c] = next
		}
		next++
	})
	return classID, int(next)
}

func buildClassTable(classID []int32) (topLevel []uint8, table []int32) {
	topLevel = make([]uint8, 256)
	rowIndex := map[[256]int32]int{}
	for hi := 0; hi < 256; hi++ {
		var row [256]int32
		for lo := 0; lo < 256; lo++ {
			row[lo] = classID[hi<<8|lo]
		}
		idx, ok := rowIndex[row]
		if !ok {
			idx = len(rowIndex)
			rowIndex[row] = idx
			table = append(table, row[:]...)
		}
		topLevel[hi] = uint8(idx)
	}
	return topLevel, table
}

// buildTransitionIndexRows builds, per cell, the dense class → slot row,
// then deduplicates identical rows by content. A cell's own ranges are
// exactly unions of consecutive global classes (by construction of
// discoverAlphabet), so each range maps to a contiguous run of class ids.
func buildTransitionIndexRows(d *DFA, classID []int32, numClasses int) (begin []int32, indices []int32) {
	begin = make([]int32, d.Size())
	seen := map[string]int32{}

	for i := 0; i < d.Size(); i++ {
		row := make([]int32, numClasses)
		for k := range row {
			row[k] = -1
		}
		for slot, r := range d.CharRanges[i] {
			startClass := classID[r.Start]
			endClass := classID[r.End]
			for cid := startClass; cid <= endClass; cid++ {
				row[cid] = int32(slot)
			}
		}
		key := rowKey(row)
		off, ok := seen[key]
		if !ok {
			off = int32(len(indices))
			seen[key] = off
			indices = append(indices, row...)
		}
		begin[i] = off
	}
	return begin, indices
}

func rowKey(row []int32) string {
	var sb strings.Builder
	for _, v := range row {
		sb.WriteString(strconv.Itoa(int(v)))
		sb.WriteByte(',')
	}
	return sb.String()
}

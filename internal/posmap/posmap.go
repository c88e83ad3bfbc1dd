// Package posmap projects byte positions between two versions of a text
// through the edit script that turns one into the other.
//
// Mapping is exact in unchanged regions and at edit boundaries. A position
// strictly inside a replaced span is interpolated proportionally across the
// replacement, so the result is deterministic but approximate there. The
// function is total and monotonic non-decreasing; it never fails.
package posmap

import (
	"selection-codec/internal/diff"
	"selection-codec/internal/selection"
)

// Mapper maps positions between an old text and a new text.
type Mapper struct {
	edits  []diff.Edit
	oldLen int
	newLen int
}

// New returns a Mapper for edits, which must be sorted and non-overlapping
// ranges over an old text of oldLen bytes.
func New(edits []diff.Edit, oldLen int) *Mapper {
	newLen := oldLen
	for _, e := range edits {
		newLen += len(e.New) - e.OldLen()
	}
	return &Mapper{edits: edits, oldLen: oldLen, newLen: newLen}
}

// Between computes the word-level diff of oldText and newText and returns
// a Mapper over it.
func Between(oldText, newText string) *Mapper {
	return New(diff.Compute(oldText, newText), len(oldText))
}

// Edits returns the edit script the mapper walks.
func (m *Mapper) Edits() []diff.Edit { return m.edits }

// ToNew maps an old-text position into the new text.
func (m *Mapper) ToNew(pos int) int { return m.Map(pos, true) }

// ToOld maps a new-text position into the old text.
func (m *Mapper) ToOld(pos int) int { return m.Map(pos, false) }

// span is one edit seen from the source side of a mapping.
type span struct {
	srcStart, srcEnd int
	dstLen           int
}

func edgeSpan(e diff.Edit, toNew bool, shift int) span {
	if toNew {
		return span{srcStart: e.OldStart, srcEnd: e.OldEnd, dstLen: len(e.New)}
	}
	// shift is the net growth of the edits before e.
	start := e.OldStart + shift
	return span{srcStart: start, srcEnd: start + len(e.New), dstLen: e.OldLen()}
}

// Map projects pos from the source text into the target text; toNew selects
// old→new, otherwise new→old.
//
// Edits are walked in order with a (source, target) cursor pair. Before an
// edit the offset is carried over linearly; at an edit's start the result is
// the start of the replacement; at its end, the end of the replacement;
// strictly inside, floor((pos-start)*len(replacement)/len(source span)).
// Input is clamped to [0, len(source)] and output to [0, len(target)].
func (m *Mapper) Map(pos int, toNew bool) int {
	srcLen, dstLen := m.oldLen, m.newLen
	if !toNew {
		srcLen, dstLen = dstLen, srcLen
	}
	pos = clamp(pos, srcLen)

	srcCur, dstCur := 0, 0
	shift := 0 // new - old, accumulated over the edits walked so far
	for _, e := range m.edits {
		s := edgeSpan(e, toNew, shift)
		switch {
		case pos < s.srcStart:
			return clamp(dstCur+pos-srcCur, dstLen)
		case pos == s.srcStart:
			return clamp(dstCur+(s.srcStart-srcCur), dstLen)
		case pos == s.srcEnd:
			return clamp(dstCur+(s.srcStart-srcCur)+s.dstLen, dstLen)
		case pos < s.srcEnd:
			base := dstCur + (s.srcStart - srcCur)
			return clamp(base+(pos-s.srcStart)*s.dstLen/(s.srcEnd-s.srcStart), dstLen)
		}
		dstCur += s.srcStart - srcCur + s.dstLen
		srcCur = s.srcEnd
		shift += len(e.New) - e.OldLen()
	}
	return clamp(dstCur+pos-srcCur, dstLen)
}

// MapSelection maps both ends of sel independently.
func (m *Mapper) MapSelection(sel selection.Selection, toNew bool) selection.Selection {
	return selection.Selection{Start: m.Map(sel.Start, toNew), End: m.Map(sel.End, toNew)}
}

// MapSelections maps every selection old→new.
func (m *Mapper) MapSelections(sels []selection.Selection) []selection.Selection {
	out := make([]selection.Selection, len(sels))
	for i, s := range sels {
		out[i] = m.MapSelection(s, true)
	}
	return out
}

func clamp(off, n int) int {
	if off < 0 {
		return 0
	}
	if off > n {
		return n
	}
	return off
}

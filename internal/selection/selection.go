// Package selection defines the position data model shared by the marker
// codecs, the position mapper and the scorer.
//
// A Position is a 0-indexed UTF-8 byte offset into one specific version of a
// text. A Selection is a Start..End pair of positions over the same version;
// Start == End is a bare cursor.
package selection

import (
	"fmt"
	"strconv"
	"strings"
)

// Selection is a byte range over one text version. End is the cursor.
type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Cursor returns an empty selection at off.
func Cursor(off int) Selection { return Selection{Start: off, End: off} }

// IsEmpty reports whether the selection is a bare cursor.
func (s Selection) IsEmpty() bool { return s.Start == s.End }

// Len returns End-Start.
func (s Selection) Len() int { return s.End - s.Start }

// Valid reports whether 0 <= Start <= End <= textLen.
func (s Selection) Valid(textLen int) bool {
	return s.Start >= 0 && s.Start <= s.End && s.End <= textLen
}

// Shift moves both ends by delta.
func (s Selection) Shift(delta int) Selection {
	return Selection{Start: s.Start + delta, End: s.End + delta}
}

// Contains reports whether [start, end] lies within the selection.
func (s Selection) Contains(start, end int) bool {
	return start >= s.Start && end <= s.End
}

func (s Selection) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// ShiftAll returns a copy of sels with every selection moved by delta.
func ShiftAll(sels []Selection, delta int) []Selection {
	if sels == nil {
		return nil
	}
	out := make([]Selection, len(sels))
	for i, s := range sels {
		out[i] = s.Shift(delta)
	}
	return out
}

// Parse reads "start:end", "start..end" or a bare "offset" (cursor).
func Parse(s string) (Selection, error) {
	s = strings.TrimSpace(s)
	sep := ":"
	if strings.Contains(s, "..") {
		sep = ".."
	}
	a, b, found := strings.Cut(s, sep)
	start, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return Selection{}, fmt.Errorf("selection %q: bad start: %w", s, err)
	}
	if !found {
		return Cursor(start), nil
	}
	end, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return Selection{}, fmt.Errorf("selection %q: bad end: %w", s, err)
	}
	if start > end {
		return Selection{}, fmt.Errorf("selection %q: start after end", s)
	}
	return Selection{Start: start, End: end}, nil
}

// MarkedText is a text together with the selections that refer to it.
type MarkedText struct {
	Text       string      `json:"text"`
	Selections []Selection `json:"selections"`
}

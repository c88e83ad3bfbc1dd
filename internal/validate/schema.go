// Package validate checks the position data model invariants. It is not a
// general schema validator; it checks the structural constraints that
// commonly catch bad examples (out-of-range selections, unsorted or
// overlapping edit scripts) and reports all of them at once.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"selection-codec/internal/diff"
	"selection-codec/internal/selection"
	"selection-codec/internal/sortutil"
)

// Selections validates selections against the text they refer to:
//
//   - 0 <= Start <= End <= len(text)
//   - Start and End fall on UTF-8 rune boundaries
//   - no two selections overlap; touching ends and starts are fine
//
// The function returns nil if everything looks fine, or a single aggregated
// error describing all the issues found.
func Selections(text string, sels []selection.Selection) error {
	var errs errlist
	for i, s := range sels {
		prefix := fmt.Sprintf("selections[%d] (%s)", i, s)
		if s.Start < 0 {
			errs.add("%s: start must be >= 0", prefix)
		}
		if s.Start > s.End {
			errs.add("%s: start must be <= end", prefix)
		}
		if s.End > len(text) {
			errs.add("%s: end must be <= text length (%d)", prefix, len(text))
		}
		if s.Valid(len(text)) {
			if !runeBoundary(text, s.Start) {
				errs.add("%s: start splits a UTF-8 sequence", prefix)
			}
			if !s.IsEmpty() && !runeBoundary(text, s.End) {
				errs.add("%s: end splits a UTF-8 sequence", prefix)
			}
		}
	}
	checkOverlap(&errs, text, sels)
	return errs.err()
}

// checkOverlap reports every in-range selection that starts before the end
// of the one preceding it in Start order.
func checkOverlap(errs *errlist, text string, sels []selection.Selection) {
	type indexed struct {
		i int
		s selection.Selection
	}
	var valid []indexed
	for i, s := range sels {
		if s.Valid(len(text)) {
			valid = append(valid, indexed{i, s})
		}
	}
	valid = sortutil.Stable(valid, func(a, b indexed) bool {
		if a.s.Start != b.s.Start {
			return a.s.Start < b.s.Start
		}
		return a.s.End < b.s.End
	})
	for k := 1; k < len(valid); k++ {
		prev, cur := valid[k-1], valid[k]
		if cur.s.Start < prev.s.End {
			errs.add("selections[%d] (%s): overlaps selections[%d] (%s)", cur.i, cur.s, prev.i, prev.s)
		}
	}
}

// Edits validates an edit script against the length of the old text:
//
//   - 0 <= OldStart <= OldEnd <= oldLen
//   - edits are sorted by OldStart and do not overlap
//   - no edit is a no-op (empty old range and empty replacement)
func Edits(oldLen int, edits []diff.Edit) error {
	var errs errlist
	prev := 0
	for i, e := range edits {
		prefix := fmt.Sprintf("edits[%d] (%d..%d)", i, e.OldStart, e.OldEnd)
		if e.OldStart < 0 || e.OldStart > e.OldEnd || e.OldEnd > oldLen {
			errs.add("%s: range must lie within 0..%d", prefix, oldLen)
		}
		if e.OldStart < prev {
			errs.add("%s: overlaps or precedes previous edit ending at %d", prefix, prev)
		}
		if e.OldLen() == 0 && e.New == "" {
			errs.add("%s: empty edit", prefix)
		}
		if e.OldEnd > prev {
			prev = e.OldEnd
		}
	}
	return errs.err()
}

func runeBoundary(s string, off int) bool {
	return off == len(s) || utf8.RuneStart(s[off])
}

// errlist aggregates multiple validation issues into a single error.
type errlist struct {
	msgs []string
}

func (e *errlist) add(format string, args ...any) {
	if e == nil {
		return
	}
	e.msgs = append(e.msgs, fmt.Sprintf(format, args...))
}

func (e *errlist) err() error {
	if e == nil || len(e.msgs) == 0 {
		return nil
	}
	// Join with newline for readability.
	return errors.New(strings.Join(e.msgs, "\n"))
}

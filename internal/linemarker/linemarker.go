// Package linemarker encodes cursor and selection positions as synthetic
// comment lines placed directly below the source line they point into.
//
//	let x = 42;
//	//      ^[CURSOR_POSITION]
//	let name = value;
//	//  ----^[SELECTION]
//
// A '^' marks the cursor column; dashes immediately before it mark the
// selected span. A '<' before the dash run means the selection starts at
// column 0, and a '<' with no caret puts the cursor at the marker's first
// non-whitespace column.
package linemarker

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"selection-codec/internal/inline"
	"selection-codec/internal/selection"
	"selection-codec/internal/sortutil"
	"selection-codec/internal/textutil"
)

// Tag literals. Their spelling is part of the wire format.
const (
	CursorTag    = "[CURSOR_POSITION]"
	SelectionTag = "[SELECTION]"
)

// ErrMalformedMarker reports a tagged line without a '^' or '<' to locate
// its column.
var ErrMalformedMarker = errors.New("marker line must contain '^' or '<'")

type placed struct {
	line int
	sel  selection.Selection
}

// Encode returns excerpt with one marker line per selection, each placed
// right after the line holding the selection's End. Marker lines for the
// same source line are ordered by End.
//
// A selection starting at column 0 is drawn as prefix + "<" + dashes + "^",
// with cursorCol-len(prefix)-1 dashes so the caret lands on the cursor
// column for prefixes of any length.
//
// Encode falls back to inline tokens when a non-empty selection spans
// lines, when a selection cannot be drawn exactly with commentPrefix (for
// example a start column hidden under the prefix), or when a source line
// would itself read as a marker. The fallback covers every selection, and
// inline tokens pair by document order: a cursor placed before a selection
// start can come back paired with that start.
func Encode(excerpt string, sels []selection.Selection, commentPrefix string) string {
	if len(sels) == 0 {
		return excerpt
	}
	for _, s := range sels {
		if !s.IsEmpty() && textutil.LineOf(excerpt, s.Start) != textutil.LineOf(excerpt, s.End) {
			return inline.Embed(excerpt, sels)
		}
	}

	lines := textutil.LineRanges(excerpt)
	for _, lr := range lines {
		if hasTag(excerpt[lr.Start:lr.End]) {
			return inline.Embed(excerpt, sels)
		}
	}

	ps := make([]placed, len(sels))
	for i, s := range sels {
		ps[i] = placed{line: textutil.LineOf(excerpt, s.End), sel: s}
	}
	ps = sortutil.Stable(ps, func(a, b placed) bool {
		if a.line != b.line {
			return a.line < b.line
		}
		return a.sel.End < b.sel.End
	})

	markers := make([][]string, len(lines))
	for _, p := range ps {
		lr := lines[p.line]
		indent := textutil.Indent(excerpt[lr.Start:lr.End])
		m, ok := markerLine(p.sel, lr.Start, indent, commentPrefix)
		if !ok {
			return inline.Embed(excerpt, sels)
		}
		markers[p.line] = append(markers[p.line], m)
	}

	var b strings.Builder
	b.Grow(len(excerpt) + len(sels)*(len(commentPrefix)+32))
	for i, lr := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(excerpt[lr.Start:lr.End])
		for _, m := range markers[i] {
			b.WriteByte('\n')
			b.WriteString(m)
		}
	}
	return b.String()
}

// markerLine draws the marker for sel on the line starting at lineStart.
// ok is false when the drawn line would not decode back to sel.
func markerLine(sel selection.Selection, lineStart int, indent, prefix string) (line string, ok bool) {
	cursorCol := sel.End - lineStart
	startCol := max(sel.Start-lineStart, 0)
	empty := sel.IsEmpty()

	var b strings.Builder
	switch {
	case startCol == 0 && !empty:
		b.WriteString(prefix)
		b.WriteByte('<')
		b.WriteString(strings.Repeat("-", max(cursorCol-len(prefix)-1, 0)))
		b.WriteByte('^')
		b.WriteString(SelectionTag)
	case empty && cursorCol < len(prefix):
		b.WriteString(strings.Repeat(" ", cursorCol))
		b.WriteString(prefix)
		b.WriteString(" <")
		b.WriteString(CursorTag)
	default:
		if cursorCol >= len(indent)+len(prefix) {
			b.WriteString(indent)
		}
		b.WriteString(prefix)
		for i := b.Len(); i < cursorCol; i++ {
			if i >= startCol && !empty {
				b.WriteByte('-')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('^')
		if empty {
			b.WriteString(CursorTag)
		} else {
			b.WriteString(SelectionTag)
		}
	}

	line = b.String()
	if strings.ContainsRune(line, '\n') || !IsMarkerLine(line) {
		return line, false
	}
	c, s, err := ParseMarkerLine(line)
	return line, err == nil && c == cursorCol && s == sel.Start-lineStart
}

// Decode splits marked text back into the excerpt and its selections, in
// marker order. Text carrying inline tokens is decoded by the inline codec;
// text without any tag is returned unchanged. The trailing newline of the
// excerpt is kept, so Decode(Encode(x, sels, p)) returns x byte for byte.
//
// A tagged line that has neither '^' nor '<' yields ErrMalformedMarker
// wrapped with its 1-based line number.
func Decode(marked string) (string, []selection.Selection, error) {
	if strings.Contains(marked, inline.UserCursorToken) {
		ex := inline.Extract(marked)
		return ex.Text, ex.All(), nil
	}
	if !hasTag(marked) {
		return marked, nil, nil
	}

	var (
		b         strings.Builder
		sels      []selection.Selection
		lineStart int
		content   int
	)
	b.Grow(len(marked))
	for i, line := range strings.Split(marked, "\n") {
		if hasTag(line) {
			cursorCol, startCol, err := ParseMarkerLine(line)
			if err != nil {
				return "", nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			sels = append(sels, selection.Selection{Start: lineStart + startCol, End: lineStart + cursorCol})
			continue
		}
		if content > 0 {
			b.WriteByte('\n')
		}
		lineStart = b.Len()
		b.WriteString(line)
		content++
	}
	return b.String(), sels, nil
}

// IsMarkerLine reports whether line carries a tag and a '^' or '<'.
func IsMarkerLine(line string) bool {
	return hasTag(line) && strings.ContainsAny(line, "^<")
}

// ParseMarkerLine returns the cursor and selection start columns encoded by
// a marker line.
func ParseMarkerLine(line string) (cursorCol, startCol int, err error) {
	if caret := strings.IndexByte(line, '^'); caret >= 0 {
		run := caret
		for run > 0 && line[run-1] == '-' {
			run--
		}
		if run > 0 && line[run-1] == '<' {
			return caret, 0, nil
		}
		return caret, run, nil
	}
	if strings.IndexByte(line, '<') >= 0 {
		col := max(strings.IndexFunc(line, func(r rune) bool { return !unicode.IsSpace(r) }), 0)
		return col, col, nil
	}
	return 0, 0, ErrMalformedMarker
}

func hasTag(s string) bool {
	return strings.Contains(s, CursorTag) || strings.Contains(s, SelectionTag)
}

// Package patchsel carries cursor and selection positions inside unified
// diffs. Positions are relative to the start of the first hunk's new text
// (context plus addition lines) and are written as '#' comment lines under
// the addition line holding the cursor:
//
//	+import module
//	#       ------^[SELECTION]
package patchsel

import (
	"fmt"
	"strings"

	"selection-codec/internal/diff"
	"selection-codec/internal/inline"
	"selection-codec/internal/linemarker"
	"selection-codec/internal/selection"
)

// MarkerPrefix starts every marker line in a patch.
const MarkerPrefix = "#"

// Embed writes one marker line per selection after the addition line whose
// [start, end] byte range contains the selection's End. Context and
// addition lines advance the hunk-relative offset by len(content)+1;
// deletions and headers do not. A patch without selections is returned
// unchanged.
func Embed(patch string, sels []selection.Selection) string {
	if len(sels) == 0 {
		return patch
	}
	var b strings.Builder
	b.Grow(len(patch) + len(sels)*48)
	offset := 0
	for i, ln := range diff.ClassifyLines(diff.SplitLines(patch)) {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(ln.Raw)
		switch ln.Kind {
		case diff.LineAddition:
			end := offset + len(ln.Content)
			for _, s := range sels {
				if s.End >= offset && s.End <= end {
					b.WriteByte('\n')
					b.WriteString(markerLine(s, offset))
				}
			}
			offset = end + 1
		case diff.LineContext:
			offset += len(ln.Content) + 1
		}
	}
	if strings.HasSuffix(patch, "\n") {
		b.WriteByte('\n')
	}
	return b.String()
}

func markerLine(s selection.Selection, lineStart int) string {
	cursorCol := s.End - lineStart
	startCol := max(s.Start-lineStart, 0)
	var b strings.Builder
	b.WriteString(MarkerPrefix)
	for i := 0; i < cursorCol; i++ {
		if i >= startCol && !s.IsEmpty() {
			b.WriteByte('-')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('^')
	if s.IsEmpty() {
		b.WriteString(linemarker.CursorTag)
	} else {
		b.WriteString(linemarker.SelectionTag)
	}
	return b.String()
}

// Extract removes marker lines from patch and returns the clean patch with
// the selections they encode, relative to the hunk's new text. A marker's
// column counts from the previous context or addition line; a '<' before
// the dash run puts the start at column 0 and a '<' with no caret puts the
// cursor there. A tagged marker with neither '^' nor '<' is dropped. The
// clean patch keeps the source's trailing newline.
func Extract(patch string) (string, []selection.Selection) {
	var (
		b         strings.Builder
		sels      []selection.Selection
		offset    int
		prevStart int
		kept      int
	)
	b.Grow(len(patch))
	for _, ln := range diff.ClassifyLines(diff.SplitLines(patch)) {
		if ln.Kind == diff.LineGarbage && isMarker(ln.Raw) {
			if s, ok := parseMarker(ln.Raw, prevStart); ok {
				sels = append(sels, s)
			}
			continue
		}
		if kept > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(ln.Raw)
		kept++
		if ln.Kind == diff.LineAddition || ln.Kind == diff.LineContext {
			prevStart = offset
			offset += len(ln.Content) + 1
		}
	}
	if kept > 0 && strings.HasSuffix(patch, "\n") {
		b.WriteByte('\n')
	}
	return b.String(), sels
}

func isMarker(raw string) bool {
	return strings.HasPrefix(raw, MarkerPrefix) &&
		(strings.Contains(raw, linemarker.CursorTag) || strings.Contains(raw, linemarker.SelectionTag))
}

func parseMarker(raw string, lineStart int) (selection.Selection, bool) {
	caret := strings.IndexByte(raw, '^')
	if caret < 0 {
		if !strings.Contains(raw, "<") {
			return selection.Selection{}, false
		}
		caret = 0
	}
	run := caret
	for run > 0 && raw[run-1] == '-' {
		run--
	}
	cursor := lineStart + max(caret-len(MarkerPrefix), 0)
	if run > 0 && raw[run-1] == '<' {
		return selection.Selection{Start: lineStart, End: cursor}, true
	}
	return selection.Selection{Start: cursor - (caret - run), End: cursor}, true
}

// ApplyWithHunkOffset applies patch to text and returns the result together
// with the offset where the first hunk's new text begins. A hunk whose
// context does not match fails with a *diff.ApplyError.
func ApplyWithHunkOffset(patch, text string) (string, int, error) {
	res, err := diff.Apply(patch, text)
	if err != nil {
		return "", 0, fmt.Errorf("apply patch: %w", err)
	}
	return res.Text, res.FirstHunkOffset, nil
}

// ToAbsolute converts hunk-relative selections to offsets in the patched
// text.
func ToAbsolute(hunkOffset int, sels []selection.Selection) []selection.Selection {
	return selection.ShiftAll(sels, hunkOffset)
}

// RenderTarget applies patch to an editable region and marks the
// hunk-relative selections in the result with inline tokens. The region is
// given a trailing newline first when it lacks one.
func RenderTarget(patch, region string, sels []selection.Selection) (string, error) {
	if !strings.HasSuffix(region, "\n") {
		region += "\n"
	}
	text, off, err := ApplyWithHunkOffset(patch, region)
	if err != nil {
		return "", err
	}
	return inline.Embed(text, ToAbsolute(off, sels)), nil
}

package diff

import (
	"errors"
	"fmt"
	"strings"

	"selection-codec/internal/textutil"
)

// ErrContextMismatch reports that a hunk's expected text was not found.
var ErrContextMismatch = errors.New("hunk context does not match text")

// ApplyError identifies the hunk that failed to apply.
type ApplyError struct {
	Hunk    int    // 0-based hunk index
	Context string // the text the hunk expected to find
}

func (e *ApplyError) Error() string {
	first, _, _ := strings.Cut(e.Context, "\n")
	return fmt.Sprintf("apply hunk %d: %v (expected %q)", e.Hunk+1, ErrContextMismatch, first)
}

func (e *ApplyError) Unwrap() error { return ErrContextMismatch }

// Applied is the result of applying a patch.
type Applied struct {
	Text string
	// FirstHunkOffset is the byte offset in Text where the first hunk's new
	// text (context + additions) begins. Zero when the patch has no hunks.
	FirstHunkOffset int
	Hunks           int
}

// Apply applies a unified-diff patch to text.
//
// Hunks are located by content, not by header line numbers: each hunk's old
// text must appear at a line start at or after the end of the previous hunk.
// When it appears more than once, the occurrence closest to the header's
// line hint wins. A hunk ending at EOF also matches a text that lacks the
// final newline.
func Apply(patch, text string) (Applied, error) {
	hunks := ParsePatch(patch)
	if len(hunks) == 0 {
		return Applied{Text: text}, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	cursor := 0
	first := 0
	for i, h := range hunks {
		pos, oldText, newText, ok := locate(text, cursor, h)
		if !ok {
			return Applied{}, &ApplyError{Hunk: i, Context: h.Old}
		}
		b.WriteString(text[cursor:pos])
		if i == 0 {
			first = b.Len()
		}
		b.WriteString(newText)
		cursor = pos + len(oldText)
	}
	b.WriteString(text[cursor:])
	return Applied{Text: b.String(), FirstHunkOffset: first, Hunks: len(hunks)}, nil
}

func locate(text string, from int, h Hunk) (pos int, oldText, newText string, ok bool) {
	hint := h.OldStart - 1
	if h.Old == "" {
		// Pure insertion goes after line OldStart.
		pos = textutil.LineOffset(text, h.OldStart)
		if pos < from {
			pos = from
		}
		return pos, "", h.New, true
	}

	if p, found := closestMatch(text, from, h.Old, hint); found {
		return p, h.Old, h.New, true
	}

	trimmed := strings.TrimSuffix(h.Old, "\n")
	if trimmed != h.Old && strings.HasSuffix(text, trimmed) {
		p := len(text) - len(trimmed)
		if p >= from && atLineStart(text, p) {
			return p, trimmed, strings.TrimSuffix(h.New, "\n"), true
		}
	}
	return 0, "", "", false
}

// closestMatch finds needle at a line start in text[from:], preferring the
// occurrence whose line is nearest to hint (0-based, negative = no hint).
func closestMatch(text string, from int, needle string, hint int) (int, bool) {
	best, bestDist := -1, 0
	for off := from; off <= len(text); {
		i := strings.Index(text[off:], needle)
		if i < 0 {
			break
		}
		p := off + i
		off = p + 1
		if !atLineStart(text, p) {
			continue
		}
		if hint < 0 {
			return p, true
		}
		dist := textutil.LineOf(text, p) - hint
		if dist < 0 {
			dist = -dist
		}
		if best < 0 || dist < bestDist {
			best, bestDist = p, dist
		}
	}
	return best, best >= 0
}

func atLineStart(text string, p int) bool {
	return p == 0 || text[p-1] == '\n'
}

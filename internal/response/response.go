// Package response turns a model's rewritten editable region into a unified
// patch and the cursor and selection positions the model placed in it.
//
// The model answers with a fenced code block holding the editable region,
// delimited by the region markers and carrying inline cursor and selection
// tokens, or with NO_EDITS when nothing should change.
package response

import (
	"errors"
	"fmt"
	"strings"

	"selection-codec/internal/diff"
	"selection-codec/internal/inline"
	"selection-codec/internal/selection"
	"selection-codec/internal/textutil"
)

// NoEdits is the answer a model gives when the region should stay as is.
const NoEdits = "NO_EDITS"

// ErrRegionNotFound reports that the prompt's editable region does not occur
// in the file content.
var ErrRegionNotFound = errors.New("editable region not found in content")

// Input is what the prompt showed the model.
type Input struct {
	// Prompt holds the editable region, optionally delimited by the region
	// markers, with the inline tokens it was rendered with.
	Prompt string
	// Path names the file in the patch headers.
	Path string
	// Content is the full file. When empty the patch is numbered from the
	// region's first line and no cursors are resolved.
	Content string
	// CursorOffset picks the nearest occurrence when the region appears in
	// Content more than once.
	CursorOffset int
}

// Cursor locates one predicted selection in the file.
type Cursor struct {
	Path string `json:"path"`
	// Row and Column are 0-based; Column counts bytes.
	Row    int `json:"row"`
	Column int `json:"column"`
	// Offset is the cursor's byte offset in the patched file.
	Offset int `json:"offset"`
	// RegionOffset is the cursor's byte offset in the new region.
	RegionOffset int `json:"region_offset"`
	// SelectionStart is set for non-empty selections.
	SelectionStart *int `json:"selection_start_offset,omitempty"`
}

// Response is a parsed model answer.
type Response struct {
	NoEdits   bool   `json:"no_edits,omitempty"`
	Patch     string `json:"patch"`
	OldRegion string `json:"-"`
	NewRegion string `json:"-"`
	// RegionOffset is the byte offset of the region in Input.Content, or -1
	// when no content was given.
	RegionOffset int `json:"region_offset"`
	StartLine    int `json:"start_line"`
	// Selections are relative to NewRegion, which is also the new text of
	// the patch's only hunk.
	Selections []selection.Selection `json:"selections,omitempty"`
	Cursors    []Cursor              `json:"cursors,omitempty"`
}

// Parse reads a model response against the prompt it answers.
func Parse(text string, in Input) (Response, error) {
	body := inline.LastCodeBlock(text)
	if strings.TrimSpace(body) == NoEdits {
		return Response{NoEdits: true, RegionOffset: -1}, nil
	}

	region, err := inline.ExtractEditableRegion(body)
	if err != nil {
		return Response{}, fmt.Errorf("response: %w", err)
	}
	ex := inline.Extract(region)
	newRegion, sels := ex.Text, ex.All()

	oldRegion, err := inline.ExtractEditableRegion(in.Prompt)
	if err != nil {
		return Response{}, fmt.Errorf("prompt: %w", err)
	}
	oldRegion = inline.Strip(oldRegion)

	// Models tend to drop a leading blank line.
	if strings.HasPrefix(oldRegion, "\n") && !strings.HasPrefix(newRegion, "\n") {
		newRegion = "\n" + newRegion
		sels = selection.ShiftAll(sels, 1)
	}

	res := Response{
		OldRegion:    oldRegion,
		NewRegion:    newRegion,
		RegionOffset: -1,
		Selections:   sels,
	}
	if in.Content != "" {
		off, ok := nearest(in.Content, oldRegion, in.CursorOffset)
		if !ok {
			return Response{}, ErrRegionNotFound
		}
		res.RegionOffset = off
		res.StartLine = strings.Count(in.Content[:off], "\n")
		res.Cursors = cursors(in, res)
	}
	res.Patch = regionPatch(in.Path, oldRegion, newRegion, res.StartLine)
	return res, nil
}

// nearest returns the occurrence of needle in s closest to pos.
func nearest(s, needle string, pos int) (int, bool) {
	best, bestDist := -1, 0
	for from := 0; from <= len(s); {
		i := strings.Index(s[from:], needle)
		if i < 0 {
			break
		}
		off := from + i
		d := off - pos
		if d < 0 {
			d = -d
		}
		if best < 0 || d < bestDist {
			best, bestDist = off, d
		}
		from = off + max(len(needle), 1)
	}
	return best, best >= 0
}

// regionPatch renders old→new as a single full-context hunk so the hunk's
// new text is the whole new region.
func regionPatch(path, oldRegion, newRegion string, startLine int) string {
	a := textutil.EnsureTrailingLF(oldRegion)
	b := textutil.EnsureTrailingLF(newRegion)
	header := "--- a/" + path + "\n+++ b/" + path + "\n"

	var patch string
	if a == b {
		patch = header + contextHunk(a)
	} else {
		n := strings.Count(a, "\n") + strings.Count(b, "\n")
		patch, _ = diff.Unified(path, path, a, b, diff.Options{Context: n})
	}
	return diff.Renumber(patch, startLine, startLine)
}

func contextHunk(text string) string {
	lines := diff.SplitLines(text)
	var b strings.Builder
	if len(lines) == 1 {
		b.WriteString("@@ -1 +1 @@\n")
	} else {
		fmt.Fprintf(&b, "@@ -1,%d +1,%d @@\n", len(lines), len(lines))
	}
	for _, l := range lines {
		b.WriteByte(' ')
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

func cursors(in Input, res Response) []Cursor {
	if len(res.Selections) == 0 {
		return nil
	}
	regionCol := res.RegionOffset - (strings.LastIndexByte(in.Content[:res.RegionOffset], '\n') + 1)
	out := make([]Cursor, 0, len(res.Selections))
	for _, s := range res.Selections {
		prefix := res.NewRegion[:min(s.End, len(res.NewRegion))]
		c := Cursor{
			Path:         in.Path,
			Row:          res.StartLine + strings.Count(prefix, "\n"),
			Offset:       res.RegionOffset + s.End,
			RegionOffset: s.End,
		}
		if nl := strings.LastIndexByte(prefix, '\n'); nl >= 0 {
			c.Column = s.End - nl - 1
		} else {
			c.Column = regionCol + s.End
		}
		if !s.IsEmpty() {
			start := res.RegionOffset + s.Start
			c.SelectionStart = &start
		}
		out = append(out, c)
	}
	return out
}

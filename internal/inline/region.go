package inline

import (
	"errors"
	"strings"

	"selection-codec/internal/selection"
)

// Editable region delimiters used in prompts and model responses.
const (
	EditableRegionStart = "<|editable_region_start|>\n"
	EditableRegionEnd   = "\n<|editable_region_end|>"
)

// ErrInvalidRegion reports an end delimiter that precedes the start delimiter.
var ErrInvalidRegion = errors.New("invalid editable region markers")

// ExtractEditableRegion returns the text between the last start and last end
// delimiters, minus one trailing newline. A missing start delimiter means
// the beginning of text; a missing end delimiter means its end.
func ExtractEditableRegion(text string) (string, error) {
	start := 0
	if i := strings.LastIndex(text, EditableRegionStart); i >= 0 {
		start = i + len(EditableRegionStart)
	}
	end := len(text)
	if i := strings.LastIndex(text, EditableRegionEnd); i >= 0 {
		end = i
	}
	if start >= end {
		return "", ErrInvalidRegion
	}
	return strings.TrimSuffix(text[start:end], "\n"), nil
}

// FormatExcerpt renders content[context] with the editable region delimited
// and the selection marked inside it. Selection ends are clamped into the
// editable region. editable must lie within context.
func FormatExcerpt(content string, editable, context selection.Selection, sel selection.Selection) string {
	var b strings.Builder
	b.WriteString(content[context.Start:editable.Start])
	b.WriteString(EditableRegionStart)

	end := clampTo(sel.End, editable)
	if sel.IsEmpty() {
		b.WriteString(content[editable.Start:end])
		b.WriteString(UserCursorToken)
		b.WriteString(content[end:editable.End])
	} else {
		start := clampTo(sel.Start, editable)
		b.WriteString(content[editable.Start:start])
		b.WriteString(SelectionStartToken)
		b.WriteString(content[start:end])
		b.WriteString(UserCursorToken)
		b.WriteString(content[end:editable.End])
	}

	b.WriteString(EditableRegionEnd)
	b.WriteString(content[editable.End:context.End])
	return b.String()
}

func clampTo(off int, r selection.Selection) int {
	return min(max(off, r.Start), r.End)
}

// LastCodeBlock returns the body of the last fenced code block in text, or
// text itself when it has none. A fence is three or more backticks; the
// block closes at a line starting with the same number of backticks, so
// shorter fences nested inside stay part of the body.
func LastCodeBlock(text string) string {
	last, found := "", false
	for from := 0; ; {
		i := strings.Index(text[from:], "```")
		if i < 0 {
			break
		}
		open := from + i
		ticks := open
		for ticks < len(text) && text[ticks] == '`' {
			ticks++
		}
		closing := "\n" + strings.Repeat("`", ticks-open)

		eol := ticks
		for eol < len(text) && text[eol] != '\n' {
			eol++
		}
		j := strings.Index(text[eol:], closing)
		if j < 0 {
			break
		}
		last, found = text[eol+1:eol+j+1], true
		from = eol + j + len(closing)
	}
	if !found {
		return text
	}
	return last
}

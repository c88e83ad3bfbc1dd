package diff

import (
	"strconv"
	"strings"
)

// LineKind classifies one line of a unified-diff patch.
type LineKind int

const (
	LineGarbage LineKind = iota
	LineOldHeader
	LineNewHeader
	LineHunkHeader
	LineContext
	LineAddition
	LineDeletion
	LineNoNewline
)

// String returns a short name for the line kind.
func (k LineKind) String() string {
	switch k {
	case LineOldHeader:
		return "old-header"
	case LineNewHeader:
		return "new-header"
	case LineHunkHeader:
		return "hunk-header"
	case LineContext:
		return "context"
	case LineAddition:
		return "addition"
	case LineDeletion:
		return "deletion"
	case LineNoNewline:
		return "no-newline"
	default:
		return "garbage"
	}
}

// Line is a classified patch line. Content is the text after the one-byte
// prefix for context, addition and deletion lines; the raw line otherwise.
type Line struct {
	Kind    LineKind
	Raw     string
	Content string
}

// SplitLines splits a patch into lines without the trailing empty element
// produced by a final newline.
func SplitLines(patch string) []string {
	if patch == "" {
		return nil
	}
	lines := strings.Split(patch, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// ClassifyLines classifies every line of a patch. "--- " and "+++ " are only
// file headers when they appear as an adjacent pair, so a deleted line that
// happens to start with "-- " is still a deletion.
func ClassifyLines(lines []string) []Line {
	out := make([]Line, len(lines))
	for i := 0; i < len(lines); i++ {
		raw := lines[i]
		if strings.HasPrefix(raw, "--- ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+++ ") {
			out[i] = Line{Kind: LineOldHeader, Raw: raw, Content: raw}
			out[i+1] = Line{Kind: LineNewHeader, Raw: lines[i+1], Content: lines[i+1]}
			i++
			continue
		}
		out[i] = classify(raw)
	}
	return out
}

func classify(raw string) Line {
	if raw == "" {
		return Line{Kind: LineContext, Raw: raw}
	}
	switch {
	case strings.HasPrefix(raw, "@@"):
		return Line{Kind: LineHunkHeader, Raw: raw, Content: raw}
	case raw[0] == ' ':
		return Line{Kind: LineContext, Raw: raw, Content: raw[1:]}
	case raw[0] == '+':
		return Line{Kind: LineAddition, Raw: raw, Content: raw[1:]}
	case raw[0] == '-':
		return Line{Kind: LineDeletion, Raw: raw, Content: raw[1:]}
	case raw[0] == '\\':
		return Line{Kind: LineNoNewline, Raw: raw, Content: raw}
	}
	return Line{Kind: LineGarbage, Raw: raw, Content: raw}
}

// Hunk is one change unit of a unified diff. Old is the text the hunk
// expects (context and deletions), New its replacement (context and
// additions). OldStart/OldLines come from the @@ header and are only hints;
// OldStart is 0 when the header carries no line numbers.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Old      string
	New      string
}

// ParsePatch extracts the hunks of a patch. Header, garbage and marker
// lines are skipped. Content lines that appear before any @@ header open an
// implicit hunk without line hints.
func ParsePatch(patch string) []Hunk {
	var (
		hunks []Hunk
		cur   *Hunk
		old   strings.Builder
		neu   strings.Builder
		last  LineKind
	)
	flush := func() {
		if cur == nil {
			return
		}
		cur.Old, cur.New = old.String(), neu.String()
		hunks = append(hunks, *cur)
		cur = nil
		old.Reset()
		neu.Reset()
	}
	for _, ln := range ClassifyLines(SplitLines(patch)) {
		switch ln.Kind {
		case LineHunkHeader:
			flush()
			h := parseHunkHeader(ln.Raw)
			cur = &h
		case LineOldHeader:
			flush()
		case LineContext, LineAddition, LineDeletion:
			if cur == nil {
				cur = &Hunk{}
			}
			if ln.Kind != LineAddition {
				old.WriteString(ln.Content)
				old.WriteByte('\n')
			}
			if ln.Kind != LineDeletion {
				neu.WriteString(ln.Content)
				neu.WriteByte('\n')
			}
			last = ln.Kind
		case LineNoNewline:
			if last != LineAddition {
				trimLastNL(&old)
			}
			if last != LineDeletion {
				trimLastNL(&neu)
			}
		}
	}
	flush()
	return hunks
}

func trimLastNL(b *strings.Builder) {
	s := b.String()
	if strings.HasSuffix(s, "\n") {
		b.Reset()
		b.WriteString(s[:len(s)-1])
	}
}

// parseHunkHeader reads "@@ -a,b +c,d @@". Missing or malformed ranges
// leave the corresponding fields at zero.
func parseHunkHeader(raw string) Hunk {
	var h Hunk
	fields := strings.Fields(strings.TrimPrefix(raw, "@@"))
	for _, f := range fields {
		if f == "@@" {
			break
		}
		switch f[0] {
		case '-':
			h.OldStart, h.OldLines = parseRange(f[1:])
		case '+':
			h.NewStart, h.NewLines = parseRange(f[1:])
		}
	}
	return h
}

func parseRange(s string) (start, count int) {
	a, b, found := strings.Cut(s, ",")
	start, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0
	}
	if !found {
		return start, 1
	}
	count, err = strconv.Atoi(b)
	if err != nil {
		return start, 1
	}
	return start, count
}

// Renumber shifts the line numbers of every @@ header in patch by oldDelta
// and newDelta. It is used to move a patch computed over an excerpt to the
// excerpt's position in the full file. Other lines are left untouched.
func Renumber(patch string, oldDelta, newDelta int) string {
	if oldDelta == 0 && newDelta == 0 {
		return patch
	}
	lines := strings.Split(patch, "\n")
	for i, raw := range lines {
		if !strings.HasPrefix(raw, "@@") {
			continue
		}
		h := parseHunkHeader(raw)
		if h.OldStart == 0 && h.NewStart == 0 && h.OldLines == 0 && h.NewLines == 0 {
			continue
		}
		lines[i] = "@@ -" + formatRange(h.OldStart+oldDelta, h.OldLines) +
			" +" + formatRange(h.NewStart+newDelta, h.NewLines) + " @@"
	}
	return strings.Join(lines, "\n")
}

func formatRange(start, count int) string {
	if count == 1 {
		return strconv.Itoa(start)
	}
	return strconv.Itoa(start) + "," + strconv.Itoa(count)
}

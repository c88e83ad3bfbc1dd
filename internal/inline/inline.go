// Package inline encodes cursor and selection positions as zero-width
// tokens embedded directly in the text stream. It is the format used for
// raw model prompts and responses, and the fallback the line marker codec
// uses for selections spanning lines.
package inline

import (
	"strings"
	"unicode/utf8"

	"selection-codec/internal/selection"
	"selection-codec/internal/sortutil"
)

// Token literals. Their spelling is part of the wire format.
const (
	SelectionStartToken = "<|selection_start|>"
	UserCursorToken     = "<|user_cursor|>"
)

// Kind is the closed set of inline tokens.
type Kind int

const (
	SelectionStart Kind = iota
	UserCursor
)

// Token returns the literal for k.
func (k Kind) Token() string {
	if k == SelectionStart {
		return SelectionStartToken
	}
	return UserCursorToken
}

func (k Kind) String() string {
	if k == SelectionStart {
		return "selection_start"
	}
	return "user_cursor"
}

// insertion is one token to place at Offset of the clean text. seq orders
// tokens that share an offset.
type insertion struct {
	offset int
	kind   Kind
	seq    int
}

// Embed inserts SelectionStart at every non-empty selection's Start and
// UserCursor at every selection's End. Offsets past the end of excerpt are
// clamped to its length.
//
// The result equals inserting each token into the text one at a time in
// descending offset order: among tokens sharing an offset, the one queued
// later ends up first.
func Embed(excerpt string, sels []selection.Selection) string {
	if len(sels) == 0 {
		return excerpt
	}
	ins := make([]insertion, 0, 2*len(sels))
	for _, s := range sels {
		ins = append(ins, insertion{offset: clamp(s.End, len(excerpt)), kind: UserCursor, seq: len(ins)})
		if !s.IsEmpty() {
			ins = append(ins, insertion{offset: clamp(s.Start, len(excerpt)), kind: SelectionStart, seq: len(ins)})
		}
	}
	ins = sortutil.Stable(ins, func(a, b insertion) bool {
		if a.offset != b.offset {
			return a.offset < b.offset
		}
		return a.seq > b.seq
	})

	var b strings.Builder
	b.Grow(len(excerpt) + len(ins)*len(SelectionStartToken))
	cur := 0
	for _, in := range ins {
		b.WriteString(excerpt[cur:in.offset])
		b.WriteString(in.kind.Token())
		cur = in.offset
	}
	b.WriteString(excerpt[cur:])
	return b.String()
}

// Extraction is the result of removing inline tokens from a text.
type Extraction struct {
	// Text is the input with every token removed.
	Text string `json:"text"`
	// Selections are the paired SelectionStart/UserCursor tokens, in
	// document order. Backward pairs are normalized to Start <= End.
	Selections []selection.Selection `json:"selections"`
	// Cursors are the offsets of unpaired UserCursor tokens, in document order.
	Cursors []int `json:"cursors,omitempty"`

	all []selection.Selection
}

// Cursor returns the first standalone cursor, if any.
func (e Extraction) Cursor() (int, bool) {
	if len(e.Cursors) == 0 {
		return 0, false
	}
	return e.Cursors[0], true
}

// All returns pairs and standalone cursors (as empty selections) in token
// order, which is how multi-cursor excerpts are decoded.
func (e Extraction) All() []selection.Selection {
	return e.all
}

type marker struct {
	clean int
	kind  Kind
}

// Extract removes the tokens from text in a single left-to-right scan and
// pairs them in document order. A SelectionStart followed by a UserCursor
// (or the reverse) forms one selection; an orphan SelectionStart is dropped;
// an unpaired UserCursor is a standalone cursor.
func Extract(text string) Extraction {
	var (
		b       strings.Builder
		markers []marker
	)
	b.Grow(len(text))
	for pos := 0; pos < len(text); {
		switch {
		case strings.HasPrefix(text[pos:], SelectionStartToken):
			markers = append(markers, marker{clean: b.Len(), kind: SelectionStart})
			pos += len(SelectionStartToken)
		case strings.HasPrefix(text[pos:], UserCursorToken):
			markers = append(markers, marker{clean: b.Len(), kind: UserCursor})
			pos += len(UserCursorToken)
		default:
			_, size := utf8.DecodeRuneInString(text[pos:])
			b.WriteString(text[pos : pos+size])
			pos += size
		}
	}

	out := Extraction{Text: b.String()}
	for i := 0; i < len(markers); i++ {
		m := markers[i]
		if i+1 < len(markers) && markers[i+1].kind != m.kind {
			sel := selection.Selection{Start: m.clean, End: markers[i+1].clean}
			out.Selections = append(out.Selections, sel)
			out.all = append(out.all, sel)
			i++
			continue
		}
		if m.kind == UserCursor {
			out.Cursors = append(out.Cursors, m.clean)
			out.all = append(out.all, selection.Cursor(m.clean))
		}
	}
	return out
}

// Strip removes every inline token from text.
func Strip(text string) string {
	if !strings.Contains(text, "<|") {
		return text
	}
	return Extract(text).Text
}

// Contains reports whether text carries any inline token.
func Contains(text string) bool {
	return strings.Contains(text, UserCursorToken) || strings.Contains(text, SelectionStartToken)
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

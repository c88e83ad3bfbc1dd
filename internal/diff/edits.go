package diff

import (
	"unicode"
	"unicode/utf8"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// Edit replaces old[OldStart:OldEnd] with New. A Diff is an ordered,
// non-overlapping list of edits sorted by OldStart; the text between edits
// is unchanged.
type Edit struct {
	OldStart int    `json:"oldStart"`
	OldEnd   int    `json:"oldEnd"`
	New      string `json:"new"`
}

// OldLen is the number of bytes the edit removes.
func (e Edit) OldLen() int { return e.OldEnd - e.OldStart }

// Compute returns the word-level edit script turning oldText into newText.
//
// Both texts are split into tokens (identifier runs, whitespace runs,
// newlines, single other runes) and matched with difflib's SequenceMatcher.
// Autojunk is disabled: whitespace tokens are frequent in source text and
// must not be discarded as noise.
func Compute(oldText, newText string) []Edit {
	if oldText == newText {
		return nil
	}
	a, aOff := tokenize(oldText)
	b, bOff := tokenize(newText)

	m := difflib.NewMatcherWithJunk(a, b, false, nil)
	var edits []Edit
	for _, op := range m.GetOpCodes() {
		if op.Tag == 'e' {
			continue
		}
		edits = append(edits, Edit{
			OldStart: aOff[op.I1],
			OldEnd:   aOff[op.I2],
			New:      newText[bOff[op.J1]:bOff[op.J2]],
		})
	}
	return edits
}

// ApplyEdits rebuilds the new text from old and an edit script.
func ApplyEdits(old string, edits []Edit) string {
	out := make([]byte, 0, len(old))
	cur := 0
	for _, e := range edits {
		out = append(out, old[cur:e.OldStart]...)
		out = append(out, e.New...)
		cur = e.OldEnd
	}
	out = append(out, old[cur:]...)
	return string(out)
}

// tokenize splits s into diff tokens and returns them with their byte
// offsets; offs has one extra trailing entry equal to len(s).
func tokenize(s string) (toks []string, offs []int) {
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		j := i + size
		switch {
		case isWordRune(r):
			j = scan(s, j, isWordRune)
		case r == '\n':
		case unicode.IsSpace(r):
			j = scan(s, j, func(r rune) bool { return r != '\n' && unicode.IsSpace(r) })
		}
		toks = append(toks, s[i:j])
		offs = append(offs, i)
		i = j
	}
	offs = append(offs, len(s))
	return toks, offs
}

func scan(s string, j int, keep func(rune) bool) int {
	for j < len(s) {
		r, size := utf8.DecodeRuneInString(s[j:])
		if !keep(r) {
			break
		}
		j += size
	}
	return j
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Package textutil holds small byte/line helpers shared by the codecs.
package textutil

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeUTF8LF converts CRLF and lone CR to LF, replaces invalid UTF-8
// sequences with U+FFFD and puts the result in NFC form.
func NormalizeUTF8LF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return norm.NFC.String(strings.ToValidUTF8(s, "�"))
}

// ReadAll reads r and transcodes it to UTF-8 from the named encoding.
// "" and "utf-8" read the bytes as they are.
func ReadAll(r io.Reader, encoding string) (string, error) {
	var cm *charmap.Charmap
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
	case "latin1", "iso-8859-1":
		cm = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		cm = charmap.Windows1252
	default:
		return "", fmt.Errorf("unsupported encoding %q", encoding)
	}
	if cm != nil {
		r = transform.NewReader(r, cm.NewDecoder())
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EnsureTrailingLF appends a single \n if not already present.
func EnsureTrailingLF(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// LineRange is the byte span of one line's content, excluding the '\n'.
type LineRange struct {
	Start int
	End   int
}

// LineRanges splits s on '\n' and returns the content span of every line.
// A text ending in '\n' yields a final empty line, matching strings.Split.
func LineRanges(s string) []LineRange {
	out := make([]LineRange, 0, strings.Count(s, "\n")+1)
	off := 0
	for {
		i := strings.IndexByte(s[off:], '\n')
		if i < 0 {
			out = append(out, LineRange{Start: off, End: len(s)})
			return out
		}
		out = append(out, LineRange{Start: off, End: off + i})
		off += i + 1
	}
}

// LineOf returns the 0-based line index containing off (number of '\n'
// bytes before it). off is clamped to len(s).
func LineOf(s string, off int) int {
	if off > len(s) {
		off = len(s)
	}
	if off < 0 {
		return 0
	}
	return strings.Count(s[:off], "\n")
}

// Indent returns the leading Unicode whitespace of line.
func Indent(line string) string {
	return line[:len(line)-len(strings.TrimLeftFunc(line, unicode.IsSpace))]
}

// LineOffset returns the byte offset where 0-based line n starts, or len(s)
// if s has fewer lines.
func LineOffset(s string, n int) int {
	off := 0
	for ; n > 0; n-- {
		i := strings.IndexByte(s[off:], '\n')
		if i < 0 {
			return len(s)
		}
		off += i + 1
	}
	return off
}

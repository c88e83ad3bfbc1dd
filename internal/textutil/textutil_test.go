package textutil

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeUTF8LF(t *testing.T) {
	got := NormalizeUTF8LF("a\r\nb\rc\xff")
	if got != "a\nb\nc�" {
		t.Fatalf("unexpected normalization: %q", got)
	}
	if got := NormalizeUTF8LF("cafe\u0301"); got != "caf\u00e9" {
		t.Fatalf("expected NFC form, got %q", got)
	}
}

func TestReadAll(t *testing.T) {
	got, err := ReadAll(strings.NewReader("caf\xe9 \x80"), "windows-1252")
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if got != "café €" {
		t.Fatalf("windows-1252: got %q", got)
	}
	got, err = ReadAll(strings.NewReader("caf\xe9"), "latin1")
	if err != nil || got != "café" {
		t.Fatalf("latin1: got %q, %v", got, err)
	}
	got, err = ReadAll(strings.NewReader("caf\xe9"), "")
	if err != nil || got != "caf\xe9" {
		t.Fatalf("passthrough: got %q, %v", got, err)
	}
	if _, err := ReadAll(strings.NewReader("x"), "ebcdic"); err == nil {
		t.Fatalf("expected unsupported encoding error")
	}
}

func TestEnsureTrailingLF(t *testing.T) {
	if got := EnsureTrailingLF("x"); got != "x\n" {
		t.Fatalf("got %q", got)
	}
	if got := EnsureTrailingLF("x\n"); got != "x\n" {
		t.Fatalf("got %q", got)
	}
	if got := EnsureTrailingLF(""); got != "\n" {
		t.Fatalf("got %q", got)
	}
}

func TestLineRanges(t *testing.T) {
	got := LineRanges("ab\n\ncde")
	want := []LineRange{{0, 2}, {3, 3}, {4, 7}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	got = LineRanges("x\n")
	want = []LineRange{{0, 1}, {2, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("trailing newline: got %v want %v", got, want)
	}
}

func TestLineOfAndOffset(t *testing.T) {
	s := "one\ntwo\nthree"
	if LineOf(s, 0) != 0 || LineOf(s, 4) != 1 || LineOf(s, 100) != 2 {
		t.Fatalf("LineOf mismatch")
	}
	if LineOffset(s, 0) != 0 || LineOffset(s, 2) != 8 || LineOffset(s, 9) != len(s) {
		t.Fatalf("LineOffset mismatch")
	}
}

func TestIndent(t *testing.T) {
	if Indent("\t  x := 1") != "\t  " {
		t.Fatalf("indent mismatch")
	}
	if Indent("x") != "" {
		t.Fatalf("expected no indent")
	}
	if got := Indent("\v\f\u00a0x"); got != "\v\f\u00a0" {
		t.Fatalf("expected every Unicode space in the indent, got %q", got)
	}
}

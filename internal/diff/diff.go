// Package diff provides the text-diff primitives the position codecs build
// on: unified-patch generation, word-level edit scripts, patch parsing and
// patch application with hunk offset reporting.
//
// Generation uses github.com/pmezard/go-difflib/difflib to produce classic
// unified patches (---/+++ headers, @@ hunks, lines prefixed with ' ', '-',
// '+'). The same library's SequenceMatcher drives Compute.
package diff

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// Options controls patch generation behavior.
type Options struct {
	// MaxBytes is a guardrail on input size (old+new). When exceeded,
	// a minimal placeholder patch is returned and oversize=true.
	// 0 means "no limit".
	MaxBytes int

	// Context controls the number of CONTEXT LINES in unified hunks.
	// If 0, default to 3.
	Context int

	// NoPrefix controls whether FromFile/ToFile are prefixed with "a/" and "b/".
	// When true, the paths passed by the caller are used as-is.
	NoPrefix bool
}

const defaultContext = 3

func (o Options) context() int {
	if o.Context <= 0 {
		return defaultContext
	}
	return o.Context
}

func (o Options) names(aName, bName string) (string, string) {
	if o.NoPrefix {
		return aName, bName
	}
	if !strings.HasPrefix(aName, "a/") && aName != "/dev/null" {
		aName = "a/" + aName
	}
	if !strings.HasPrefix(bName, "b/") && bName != "/dev/null" {
		bName = "b/" + bName
	}
	return aName, bName
}

// Unified produces a classic unified patch for a↦b.
// Returns the patch body and a flag indicating it was omitted due to size.
// Identical inputs produce an empty body.
func Unified(aName, bName string, a, b string, opt Options) (body string, oversize bool) {
	aName, bName = opt.names(aName, bName)
	if opt.MaxBytes > 0 && (len(a)+len(b)) > opt.MaxBytes {
		return omitted(aName, bName), true
	}
	if a == b {
		return "", false
	}

	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(a),
		B:        splitLinesKeepNL(b),
		FromFile: aName,
		ToFile:   bName,
		Context:  opt.context(),
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil || s == "" {
		// Very rare; return placeholder instead of an empty patch.
		return omitted(aName, bName), false
	}
	return s, false
}

// Added produces a patch that adds the entire content b (no old version).
func Added(bName string, b string, opt Options) (string, bool) {
	_, bName = opt.names("/dev/null", bName)
	if opt.MaxBytes > 0 && len(b) > opt.MaxBytes {
		return omitted("/dev/null", bName), true
	}
	u := difflib.UnifiedDiff{
		A:        []string{},
		B:        splitLinesKeepNL(b),
		FromFile: "/dev/null",
		ToFile:   bName,
		Context:  opt.context(),
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil || s == "" {
		return omitted("/dev/null", bName), false
	}
	return s, false
}

// splitLinesKeepNL splits into lines and keeps newline characters,
// which produces better unified hunks.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	// SplitAfter leaves an empty tail when s ends with "\n".
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// omitted returns a compact placeholder when size limits are exceeded.
func omitted(aName, bName string) string {
	return fmt.Sprintf("--- %s\n+++ %s\n@@\n# diff omitted (oversize)\n", aName, bName)
}

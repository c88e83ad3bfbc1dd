package patchsel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selection-codec/internal/diff"
	"selection-codec/internal/selection"
)

const greetingPatch = `--- a/test.rs
+++ b/test.rs
@@ -1,3 +1,4 @@
+// prints a greeting
 fn main() {
-    println!("hi");
+    println!("hello, {}", );
     let x = 42;
 }
`

const greetingEncoded = `--- a/test.rs
+++ b/test.rs
@@ -1,3 +1,4 @@
+// prints a greeting
 fn main() {
-    println!("hi");
+    println!("hello, {}", );
#                          ^[CURSOR_POSITION]
     let x = 42;
 }
`

const loggingPatch = `--- a/src/flask/logging.py
+++ b/src/flask/logging.py
@@ -1,7 +1,8 @@
 from __future__ import annotations

 import logging
-imfrom werkzeug.local import LocalProxy
+import module
+from werkzeug.local import LocalProxy

 from .globals import request
`

const loggingEncoded = `--- a/src/flask/logging.py
+++ b/src/flask/logging.py
@@ -1,7 +1,8 @@
 from __future__ import annotations

 import logging
-imfrom werkzeug.local import LocalProxy
+import module
#       ------^[SELECTION]
+from werkzeug.local import LocalProxy

 from .globals import request
`

func TestEmbedCursor(t *testing.T) {
	// "// prints a greeting\n" + "fn main() {\n" is 33 bytes; the cursor
	// sits before ");" at column 26 of the next line.
	sels := []selection.Selection{selection.Cursor(59)}
	assert.Equal(t, greetingEncoded, Embed(greetingPatch, sels))

	clean, got := Extract(greetingEncoded)
	assert.Equal(t, greetingPatch, clean)
	assert.Equal(t, sels, got)
}

func TestEmbedSelection(t *testing.T) {
	// "module" in "import module" starts 51 bytes into the hunk's new text.
	sels := []selection.Selection{{Start: 58, End: 64}}
	assert.Equal(t, loggingEncoded, Embed(loggingPatch, sels))

	clean, got := Extract(loggingEncoded)
	assert.Equal(t, loggingPatch, clean)
	assert.Equal(t, sels, got)
}

func TestEmbedWithoutSelections(t *testing.T) {
	assert.Equal(t, greetingPatch, Embed(greetingPatch, nil))

	clean, sels := Extract(greetingPatch)
	assert.Equal(t, greetingPatch, clean)
	assert.Empty(t, sels)
}

func TestEmbedSkipsContextLines(t *testing.T) {
	// Offset 25 lies on the context line "fn main() {".
	got := Embed(greetingPatch, []selection.Selection{selection.Cursor(25)})
	assert.Equal(t, greetingPatch, got)
}

func TestEmbedColumnZeroSelection(t *testing.T) {
	patch := "@@ -1 +1 @@\n-abc\n+abcdef\n"
	got := Embed(patch, []selection.Selection{{Start: 0, End: 4}})
	assert.Equal(t, "@@ -1 +1 @@\n-abc\n+abcdef\n#----^[SELECTION]\n", got)

	_, sels := Extract(got)
	assert.Equal(t, []selection.Selection{{Start: 0, End: 4}}, sels)
}

func TestExtractAngleForms(t *testing.T) {
	patch := "@@ -1 +1 @@\n-abc\n+abcdef\n#<----^[SELECTION]\n+ghi\n#  <[CURSOR_POSITION]\n"
	clean, sels := Extract(patch)
	assert.Equal(t, "@@ -1 +1 @@\n-abc\n+abcdef\n+ghi\n", clean)
	assert.Equal(t, []selection.Selection{{Start: 0, End: 5}, selection.Cursor(7)}, sels)
}

func TestExtractDropsMalformedMarkers(t *testing.T) {
	patch := "@@ -1 +1 @@\n-abc\n+abcdef\n# [SELECTION]\n#   ^[CURSOR_POSITION]"
	clean, sels := Extract(patch)
	assert.Equal(t, "@@ -1 +1 @@\n-abc\n+abcdef", clean)
	assert.Equal(t, []selection.Selection{selection.Cursor(3)}, sels)
}

func TestExtractKeepsPlainComments(t *testing.T) {
	patch := "@@ -1 +1 @@\n-a\n+b\n# just a note\n"
	clean, sels := Extract(patch)
	assert.Equal(t, patch, clean)
	assert.Empty(t, sels)
}

const moduleText = "import zero\nimport one\nimport two\nimport old_module\nimport four\n"

const modulePatch = `--- a/test.py
+++ b/test.py
@@ -1 +1 @@
 import one
 import two
-import old_module
+import module
 import four
`

func TestApplyWithHunkOffset(t *testing.T) {
	text, off, err := ApplyWithHunkOffset(modulePatch, moduleText)
	require.NoError(t, err)
	assert.Equal(t, "import zero\nimport one\nimport two\nimport module\nimport four\n", text)
	assert.Equal(t, 12, off)
}

func TestApplyWithHunkOffsetMismatch(t *testing.T) {
	_, _, err := ApplyWithHunkOffset(modulePatch, "something else entirely\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diff.ErrContextMismatch))

	var ae *diff.ApplyError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, 0, ae.Hunk)
}

func TestToAbsolute(t *testing.T) {
	got := ToAbsolute(12, []selection.Selection{{Start: 29, End: 35}, selection.Cursor(0)})
	assert.Equal(t, []selection.Selection{{Start: 41, End: 47}, selection.Cursor(12)}, got)
	assert.Nil(t, ToAbsolute(12, nil))
}

func TestRenderTarget(t *testing.T) {
	patch := "--- a/t.rs\n+++ b/t.rs\n@@ -1 +1 @@\n-let x = old;\n+let x = new;\n"
	got, err := RenderTarget(patch, "let x = old;", []selection.Selection{{Start: 8, End: 11}})
	require.NoError(t, err)
	assert.Equal(t, "let x = <|selection_start|>new<|user_cursor|>;\n", got)

	_, err = RenderTarget(patch, "let y = 1;\n", nil)
	assert.ErrorIs(t, err, diff.ErrContextMismatch)
}

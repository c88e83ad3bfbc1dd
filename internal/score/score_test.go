package score

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selection-codec/internal/diff"
	"selection-codec/internal/selection"
)

const moduleText = `import zero
import one
import two
import old_module
import four
`

const moduleExpected = `--- a/test.py
+++ b/test.py
@@ -1 +1 @@
 import one
 import two
-import old_module
+import module
#       ------^[SELECTION]
 import four
`

const moduleActual = `--- a/test.py
+++ b/test.py
@@ -1 +1 @@
 import one
 import two
-import old_module
+import module_name
 import four
`

const letText = "let x = old;\n"

const letExpected = `--- a/test.rs
+++ b/test.rs
@@ -1 +1 @@
-let x = old;
+let x = new;
#        ---^[SELECTION]
`

const letPlain = `--- a/test.rs
+++ b/test.rs
@@ -1 +1 @@
-let x = old;
+let x = new;
`

func TestScoreNormalizesThroughDiff(t *testing.T) {
	// "module_name" sits at 29..40 of the hunk's new text.
	got, err := ScorePrediction(moduleText, []string{moduleExpected}, Prediction{
		Patch:      moduleActual,
		Selections: []selection.Selection{{Start: 29, End: 40}},
	})
	require.NoError(t, err)

	require.NotNil(t, got.SelectionExactMatch)
	assert.True(t, *got.SelectionExactMatch)
	assert.True(t, *got.CursorExactMatch)
	assert.Equal(t, 0, *got.CursorDistance)
	assert.Equal(t, 0, *got.SelectionStartDistance)
	assert.Equal(t, 0, got.Candidate)
	assert.Equal(t, []selection.Selection{{Start: 41, End: 47}}, got.Mapped)
	// The rename lies inside a correctly predicted selection.
	assert.InDelta(t, 1.7, got.EditDistance, 1e-9)
	assert.False(t, got.PatchFailed)
}

func TestScoreSelectionCases(t *testing.T) {
	tests := []struct {
		name        string
		expected    string
		actual      []selection.Selection
		cursorExact *bool
		selExact    *bool
		cursorDist  *int
		startDist   *int
	}{
		{
			name:        "exact match",
			expected:    letExpected,
			actual:      []selection.Selection{{Start: 8, End: 11}},
			cursorExact: ptr(true), selExact: ptr(true),
			cursorDist: ptr(0), startDist: ptr(0),
		},
		{
			name:        "partial mismatch",
			expected:    letExpected,
			actual:      []selection.Selection{{Start: 9, End: 12}},
			cursorExact: ptr(false), selExact: ptr(false),
			cursorDist: ptr(1), startDist: ptr(1),
		},
		{
			name:        "count mismatch",
			expected:    letExpected,
			actual:      nil,
			cursorExact: ptr(false), selExact: ptr(false),
		},
		{
			name:     "both empty",
			expected: letPlain,
			actual:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScorePrediction(letText, []string{tt.expected}, Prediction{Patch: letPlain, Selections: tt.actual})
			require.NoError(t, err)
			assert.Equal(t, tt.cursorExact, got.CursorExactMatch)
			assert.Equal(t, tt.selExact, got.SelectionExactMatch)
			assert.Equal(t, tt.cursorDist, got.CursorDistance)
			assert.Equal(t, tt.startDist, got.SelectionStartDistance)
			assert.Zero(t, got.EditDistance)
		})
	}
}

func TestScoreFailedPrediction(t *testing.T) {
	bad := "@@ -1 +1 @@\n-let z = nothing;\n+let z = something;\n"
	got, err := ScorePrediction(letText, []string{letExpected}, Prediction{Patch: bad})
	require.NoError(t, err)
	assert.True(t, got.PatchFailed)
	assert.Equal(t, -1, got.Candidate)
	assert.Nil(t, got.CursorExactMatch)
	assert.Nil(t, got.CursorDistance)
}

func TestScoreFailedExpectedPatch(t *testing.T) {
	_, err := ScorePrediction("unrelated\n", []string{letExpected}, Prediction{Patch: ""})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExpectedPatch))
	assert.True(t, errors.Is(err, diff.ErrContextMismatch))
}

func TestCandidates(t *testing.T) {
	got, err := Candidates(moduleText, []string{moduleExpected, moduleActual})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "import zero\nimport one\nimport two\nimport module\nimport four\n", got[0].Text)
	assert.Equal(t, []selection.Selection{{Start: 41, End: 47}}, got[0].Selections)
	assert.Empty(t, got[1].Selections)
}

func TestCompareMapped(t *testing.T) {
	assert.Equal(t, Metrics{}, CompareMapped(nil, nil))

	m := CompareMapped(
		[]selection.Selection{{Start: 2, End: 5}, selection.Cursor(10)},
		[]selection.Selection{{Start: 2, End: 5}, {Start: 7, End: 12}},
	)
	assert.Equal(t, 2, *m.CursorDistance)
	assert.Equal(t, 3, *m.SelectionStartDistance)
	assert.False(t, *m.CursorExactMatch)
	assert.False(t, *m.SelectionExactMatch)

	m = CompareMapped([]selection.Selection{{Start: 1, End: 4}}, []selection.Selection{{Start: 0, End: 4}})
	assert.True(t, *m.CursorExactMatch)
	assert.False(t, *m.SelectionExactMatch)
}

func TestDiscountedEditDistance(t *testing.T) {
	edits := []diff.Edit{
		{OldStart: 0, OldEnd: 3, New: "abcd"},
		{OldStart: 10, OldEnd: 12, New: ""},
	}
	actual := []selection.Selection{{Start: 0, End: 5}}

	got := DiscountedEditDistance(edits, actual, actual, []selection.Selection{{Start: 0, End: 5}})
	assert.InDelta(t, 2.7, got, 1e-9)

	got = DiscountedEditDistance(edits, actual, actual, []selection.Selection{{Start: 0, End: 4}})
	assert.InDelta(t, 9.0, got, 1e-9)

	got = DiscountedEditDistance(edits, actual, actual, nil)
	assert.InDelta(t, 9.0, got, 1e-9)
}

func TestMatchPicksLowestDistance(t *testing.T) {
	candidates := []Candidate{
		{Text: "let y = new;\n"},
		{Text: "let x = new;\n", Selections: []selection.Selection{{Start: 8, End: 11}}},
		{Text: "let x = new;\n"},
	}
	got := Match("let x = new;\n", []selection.Selection{{Start: 8, End: 11}}, candidates)
	assert.Equal(t, 1, got.Candidate)
	assert.Zero(t, got.EditDistance)
	assert.True(t, *got.SelectionExactMatch)

	none := Match("x", nil, nil)
	assert.Equal(t, -1, none.Candidate)
	assert.Nil(t, none.CursorExactMatch)
	assert.Zero(t, none.EditDistance)
}

func TestScoreWithoutExpectedPatchesMarshals(t *testing.T) {
	got, err := ScorePrediction("a\n", nil, Prediction{})
	require.NoError(t, err)
	assert.Equal(t, -1, got.Candidate)
	assert.Zero(t, got.EditDistance)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"candidate":-1,"edit_distance":0}`, string(b))
}

func TestSummarize(t *testing.T) {
	scores := []Score{
		{Result: Result{Metrics: CompareMapped([]selection.Selection{{Start: 1, End: 3}}, []selection.Selection{{Start: 1, End: 3}})}},
		{Result: Result{Metrics: CompareMapped([]selection.Selection{{Start: 1, End: 3}}, []selection.Selection{{Start: 2, End: 6}})}},
		{Result: Result{Metrics: CompareMapped([]selection.Selection{selection.Cursor(1)}, nil)}},
		{Result: Result{Candidate: -1}, PatchFailed: true},
	}
	s := Summarize(scores)
	assert.Equal(t, 4, s.Scored)
	assert.Equal(t, 1, s.PatchFailed)
	assert.Equal(t, 3, s.CursorEvaluated)
	assert.Equal(t, 1, s.CursorExactMatches)
	assert.InDelta(t, 1.0/3, *s.CursorExactMatchRate, 1e-9)
	assert.InDelta(t, 1.5, *s.CursorAvgDistance, 1e-9)
	assert.Equal(t, 3, s.SelectionEvaluated)
	assert.Equal(t, 1, s.SelectionExactMatches)
	assert.InDelta(t, 0.5, *s.SelectionStartAvgDistance, 1e-9)

	empty := Summarize(nil)
	assert.Nil(t, empty.CursorExactMatchRate)
	assert.Nil(t, empty.SelectionStartAvgDistance)
}

// Package score compares predicted selections against the selections of one
// or more expected outcomes.
//
// Predicted and expected texts may differ in small ways, such as a different
// placeholder name. Predicted selections are therefore mapped into each
// expected text's coordinates through a word-level diff before they are
// compared, and the candidate with the lowest discounted edit distance is
// the one reported.
package score

import (
	"math"

	"selection-codec/internal/diff"
	"selection-codec/internal/posmap"
	"selection-codec/internal/selection"
)

// Discount is the weight applied to an edit that falls entirely inside a
// correctly predicted selection.
const Discount = 0.1

// Candidate is one acceptable outcome: the expected text and the selections
// over it.
type Candidate struct {
	Text       string                `json:"text"`
	Selections []selection.Selection `json:"selections"`
}

// Metrics describe how well predicted selections match expected ones. A nil
// field means the metric was not evaluated.
type Metrics struct {
	CursorDistance         *int  `json:"cursor_distance,omitempty"`
	CursorExactMatch       *bool `json:"cursor_exact_match,omitempty"`
	SelectionStartDistance *int  `json:"selection_start_distance,omitempty"`
	SelectionExactMatch    *bool `json:"selection_exact_match,omitempty"`
}

// CompareMapped compares expected selections with predicted selections that
// have already been mapped into the expected text. When both lists are empty
// nothing is evaluated. When their lengths differ the flags are false and the
// distances are not evaluated. Otherwise selections are paired by index and
// the absolute distances of their ends (cursor) and starts are summed.
func CompareMapped(expected, mapped []selection.Selection) Metrics {
	if len(expected) == 0 && len(mapped) == 0 {
		return Metrics{}
	}
	if len(expected) != len(mapped) {
		return Metrics{CursorExactMatch: ptr(false), SelectionExactMatch: ptr(false)}
	}
	cursorDist, startDist := 0, 0
	for i, e := range expected {
		cursorDist += abs(e.End - mapped[i].End)
		startDist += abs(e.Start - mapped[i].Start)
	}
	cursorExact := cursorDist == 0
	return Metrics{
		CursorDistance:         ptr(cursorDist),
		CursorExactMatch:       ptr(cursorExact),
		SelectionStartDistance: ptr(startDist),
		SelectionExactMatch:    ptr(cursorExact && startDist == 0),
	}
}

// DiscountedEditDistance sums len(old range)+len(new text) over edits, which
// turn the predicted text into the expected one. An edit whose old range lies
// within a predicted selection is weighted by Discount when that selection's
// mapped value equals the expected selection at the same index.
func DiscountedEditDistance(edits []diff.Edit, actual, mapped, expected []selection.Selection) float64 {
	n := min(len(mapped), len(expected))
	correct := make([]bool, n)
	for i := 0; i < n; i++ {
		correct[i] = mapped[i] == expected[i]
	}

	total := 0.0
	for _, e := range edits {
		d := float64(e.OldLen() + len(e.New))
		if inCorrectSelection(e, actual, correct) {
			d *= Discount
		}
		total += d
	}
	return total
}

func inCorrectSelection(e diff.Edit, actual []selection.Selection, correct []bool) bool {
	for i, s := range actual {
		if i < len(correct) && correct[i] && s.Contains(e.OldStart, e.OldEnd) {
			return true
		}
	}
	return false
}

// Result is the outcome of matching a prediction against its candidates.
type Result struct {
	Metrics
	// Candidate is the index of the best candidate, -1 when there were none.
	Candidate    int                   `json:"candidate"`
	EditDistance float64               `json:"edit_distance"`
	Mapped       []selection.Selection `json:"mapped_selections,omitempty"`
}

// Match scores actualSels over actualText against every candidate and returns
// the one with the lowest discounted edit distance. Ties keep the earlier
// candidate. Without candidates the result has Candidate -1, nil metrics and
// a zero EditDistance.
func Match(actualText string, actualSels []selection.Selection, candidates []Candidate) Result {
	best := Result{Candidate: -1, EditDistance: math.Inf(1)}
	for i, c := range candidates {
		var mapped []selection.Selection
		var edits []diff.Edit
		if actualText == c.Text {
			mapped = append(mapped, actualSels...)
		} else {
			m := posmap.Between(actualText, c.Text)
			edits = m.Edits()
			mapped = m.MapSelections(actualSels)
		}
		dist := DiscountedEditDistance(edits, actualSels, mapped, c.Selections)
		if dist < best.EditDistance {
			best = Result{
				Metrics:      CompareMapped(c.Selections, mapped),
				Candidate:    i,
				EditDistance: dist,
				Mapped:       mapped,
			}
		}
	}
	if best.Candidate < 0 {
		best.EditDistance = 0
	}
	return best
}

func ptr[T any](v T) *T { return &v }

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

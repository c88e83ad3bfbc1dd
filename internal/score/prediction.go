package score

import (
	"errors"
	"fmt"

	"selection-codec/internal/patchsel"
	"selection-codec/internal/selection"
)

// Prediction is a predicted patch with selections relative to the start of
// its first hunk's new text.
type Prediction struct {
	Patch      string                `json:"patch"`
	Selections []selection.Selection `json:"selections,omitempty"`
}

// Score is the evaluation of one prediction.
type Score struct {
	Result
	// PatchFailed is set when the predicted patch did not apply to the
	// original text; all metrics are then left unevaluated.
	PatchFailed bool `json:"patch_failed,omitempty"`
}

// ErrExpectedPatch reports an expected patch that does not apply to the
// original text. It signals a broken example rather than a bad prediction.
var ErrExpectedPatch = errors.New("expected patch did not apply")

// Candidates applies every expected patch to original and returns the
// resulting texts with their embedded selections in absolute coordinates.
func Candidates(original string, expectedPatches []string) ([]Candidate, error) {
	out := make([]Candidate, 0, len(expectedPatches))
	for i, p := range expectedPatches {
		clean, sels := patchsel.Extract(p)
		text, off, err := patchsel.ApplyWithHunkOffset(clean, original)
		if err != nil {
			return nil, fmt.Errorf("%w: patch %d: %w", ErrExpectedPatch, i, err)
		}
		out = append(out, Candidate{Text: text, Selections: patchsel.ToAbsolute(off, sels)})
	}
	return out, nil
}

// ScorePrediction scores p against expectedPatches, which may carry '#'
// selection markers. A prediction whose patch does not apply gets a zero
// score with PatchFailed set.
func ScorePrediction(original string, expectedPatches []string, p Prediction) (Score, error) {
	candidates, err := Candidates(original, expectedPatches)
	if err != nil {
		return Score{}, err
	}
	text, off, err := patchsel.ApplyWithHunkOffset(p.Patch, original)
	if err != nil {
		return Score{Result: Result{Candidate: -1}, PatchFailed: true}, nil
	}
	return Score{Result: Match(text, patchsel.ToAbsolute(off, p.Selections), candidates)}, nil
}

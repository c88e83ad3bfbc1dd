package score

// Summary aggregates scores over a set of predictions. Rates are fractions
// in [0, 1]; a nil rate or average means nothing was evaluated.
type Summary struct {
	Scored      int `json:"scored"`
	PatchFailed int `json:"patch_failed"`

	CursorEvaluated      int      `json:"cursor_evaluated"`
	CursorExactMatches   int      `json:"cursor_exact_matches"`
	CursorExactMatchRate *float64 `json:"cursor_exact_match_rate,omitempty"`
	CursorAvgDistance    *float64 `json:"cursor_avg_distance,omitempty"`

	SelectionEvaluated        int      `json:"selection_evaluated"`
	SelectionExactMatches     int      `json:"selection_exact_matches"`
	SelectionExactMatchRate   *float64 `json:"selection_exact_match_rate,omitempty"`
	SelectionStartAvgDistance *float64 `json:"selection_start_avg_distance,omitempty"`
}

// Summarize aggregates scores.
func Summarize(scores []Score) Summary {
	var (
		s                    Summary
		cursorSum, startSum  int
		cursorDist, startDst int
	)
	for _, sc := range scores {
		s.Scored++
		if sc.PatchFailed {
			s.PatchFailed++
		}
		if sc.CursorExactMatch != nil {
			s.CursorEvaluated++
			if *sc.CursorExactMatch {
				s.CursorExactMatches++
			}
		}
		if sc.CursorDistance != nil {
			cursorSum += *sc.CursorDistance
			cursorDist++
		}
		if sc.SelectionExactMatch != nil {
			s.SelectionEvaluated++
			if *sc.SelectionExactMatch {
				s.SelectionExactMatches++
			}
		}
		if sc.SelectionStartDistance != nil {
			startSum += *sc.SelectionStartDistance
			startDst++
		}
	}
	s.CursorExactMatchRate = ratio(s.CursorExactMatches, s.CursorEvaluated)
	s.CursorAvgDistance = ratio(cursorSum, cursorDist)
	s.SelectionExactMatchRate = ratio(s.SelectionExactMatches, s.SelectionEvaluated)
	s.SelectionStartAvgDistance = ratio(startSum, startDst)
	return s
}

func ratio(num, den int) *float64 {
	if den == 0 {
		return nil
	}
	return ptr(float64(num) / float64(den))
}

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"selection-codec/internal/example"
	"selection-codec/internal/logging"
	"selection-codec/internal/score"
)

func newScoreCmd(a *app) *cobra.Command {
	var (
		original string
		expected []string
		patch    string
		sels     []string
		dir      string
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score predicted selections against expected ones",
		Long: `Score a predicted patch and its selections against one or more expected
patches carrying '#' marker lines. Each expected patch is a candidate; the
one closest to the prediction is reported.

With --dir every example file (*.json) under the directory is scored and a
summary is printed.`,
		Example: `  selcodec score --original a.py --expected want.diff --patch got.diff --sel 29:40
  selcodec score --dir examples/ --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir != "" {
				return runScoreDir(cmd, a, dir)
			}
			if original == "" || len(expected) == 0 {
				return errors.New("score needs --original and at least one --expected, or --dir")
			}
			text, err := a.readInput(cmd, original)
			if err != nil {
				return err
			}
			var p score.Prediction
			if patch != "" {
				if p.Patch, err = a.readInput(cmd, patch); err != nil {
					return err
				}
			}
			if p.Selections, err = parseSels(sels); err != nil {
				return err
			}
			patches := make([]string, 0, len(expected))
			for _, path := range expected {
				e, err := a.readInput(cmd, path)
				if err != nil {
					return err
				}
				patches = append(patches, e)
			}
			s, err := score.ScorePrediction(text, patches, p)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), s)
			}
			printScore(cmd.OutOrStdout(), "", s)
			return nil
		},
	}
	cmd.Flags().StringVar(&original, "original", "", "text the patches apply to")
	cmd.Flags().StringArrayVar(&expected, "expected", nil, "expected patch with marker lines (repeatable)")
	cmd.Flags().StringVar(&patch, "patch", "", "predicted patch (default: no change)")
	addSelFlag(cmd, &sels)
	cmd.Flags().StringVar(&dir, "dir", "", "score every example under this directory")
	return cmd
}

type exampleScores struct {
	Name   string        `json:"name"`
	Path   string        `json:"path"`
	Digest string        `json:"digest"`
	Scores []score.Score `json:"scores"`
}

type dirReport struct {
	Examples []exampleScores `json:"examples"`
	Summary  score.Summary   `json:"summary"`
}

func runScoreDir(cmd *cobra.Command, a *app, dir string) error {
	entries, err := example.LoadDir(dir)
	if err != nil {
		return err
	}
	var (
		report dirReport
		all    []score.Score
	)
	for _, ent := range entries {
		ex := ent.Example
		if err := ex.Score(); err != nil {
			return err
		}
		logging.Debug("example scored", "name", ex.Name, "predictions", len(ex.Scores))
		report.Examples = append(report.Examples, exampleScores{
			Name:   ex.Name,
			Path:   ent.Path,
			Digest: ent.Digest,
			Scores: ex.Scores,
		})
		all = append(all, ex.Scores...)
	}
	report.Summary = score.Summarize(all)

	if a.jsonOut {
		return printJSON(cmd.OutOrStdout(), report)
	}
	w := cmd.OutOrStdout()
	for _, es := range report.Examples {
		for i, s := range es.Scores {
			printScore(w, fmt.Sprintf("%s[%d]\t", es.Name, i), s)
		}
	}
	printSummary(w, report.Summary)
	return nil
}

func printScore(w io.Writer, prefix string, s score.Score) {
	if s.PatchFailed {
		fmt.Fprintf(w, "%spatch failed\n", prefix)
		return
	}
	fmt.Fprintf(w, "%scandidate=%d cursor_exact=%s cursor_distance=%s selection_exact=%s start_distance=%s edit_distance=%.1f\n",
		prefix, s.Candidate,
		optional(s.CursorExactMatch), optional(s.CursorDistance),
		optional(s.SelectionExactMatch), optional(s.SelectionStartDistance),
		s.EditDistance)
}

func printSummary(w io.Writer, s score.Summary) {
	fmt.Fprintf(w, "scored %d, patch failed %d\n", s.Scored, s.PatchFailed)
	fmt.Fprintf(w, "cursor: %d/%d exact (rate %s), avg distance %s\n",
		s.CursorExactMatches, s.CursorEvaluated, optionalFloat(s.CursorExactMatchRate), optionalFloat(s.CursorAvgDistance))
	fmt.Fprintf(w, "selection: %d/%d exact (rate %s), avg start distance %s\n",
		s.SelectionExactMatches, s.SelectionEvaluated, optionalFloat(s.SelectionExactMatchRate), optionalFloat(s.SelectionStartAvgDistance))
}

func optional[T any](v *T) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func optionalFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.3f", *v)
}

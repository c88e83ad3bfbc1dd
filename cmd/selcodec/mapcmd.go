package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"selection-codec/internal/posmap"
	"selection-codec/internal/selection"
	"selection-codec/internal/validate"
)

type mappedSelection struct {
	From selection.Selection `json:"from"`
	To   selection.Selection `json:"to"`
}

func newMapCmd(a *app) *cobra.Command {
	var oldPath, newPath string
	var toOld bool
	cmd := &cobra.Command{
		Use:   "map --old FILE --new FILE SELECTION...",
		Short: "Map positions from one version of a text to another",
		Long: `Map cursor offsets and selections across the word-level diff between two
versions of a text. Positions inside a replaced span map proportionally;
positions in unchanged text shift by the net length change before them.`,
		Example: `  selcodec map --old before.rs --new after.rs 120 130:142
  selcodec map --old before.rs --new after.rs --to-old 57`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldText, err := a.readInput(cmd, oldPath)
			if err != nil {
				return err
			}
			newText, err := a.readInput(cmd, newPath)
			if err != nil {
				return err
			}
			sels, err := parseSels(args)
			if err != nil {
				return err
			}
			src := oldText
			if toOld {
				src = newText
			}
			if err := validate.Selections(src, sels); err != nil {
				return err
			}

			m := posmap.Between(oldText, newText)
			out := make([]mappedSelection, len(sels))
			for i, s := range sels {
				out[i] = mappedSelection{From: s, To: m.MapSelection(s, !toOld)}
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), out)
			}
			for _, ms := range out {
				if ms.From.IsEmpty() {
					fmt.Fprintf(cmd.OutOrStdout(), "%d -> %d\n", ms.From.Start, ms.To.Start)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", ms.From, ms.To)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&oldPath, "old", "", "old version of the text")
	cmd.Flags().StringVar(&newPath, "new", "", "new version of the text")
	cmd.Flags().BoolVar(&toOld, "to-old", false, "map positions in the new text back to the old one")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}

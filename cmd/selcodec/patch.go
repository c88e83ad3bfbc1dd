package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"selection-codec/internal/inline"
	"selection-codec/internal/patchsel"
	"selection-codec/internal/selection"
)

func newPatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Carry selections inside unified diffs as '#' marker lines",
		Long: `Selections in a patch are byte offsets relative to the start of the first
hunk's new text: context and addition lines, each with its newline.`,
	}
	cmd.AddCommand(
		newPatchEmbedCmd(a),
		newPatchExtractCmd(a),
		newPatchApplyCmd(a),
		newPatchTargetCmd(a),
	)
	return cmd
}

func newPatchEmbedCmd(a *app) *cobra.Command {
	var sels []string
	cmd := &cobra.Command{
		Use:   "embed [patch]",
		Short: "Write marker lines for hunk-relative selections into a patch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := a.readInput(cmd, optionalArg(args))
			if err != nil {
				return err
			}
			parsed, err := parseSels(sels)
			if err != nil {
				return err
			}
			out := patchsel.Embed(patch, parsed)
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]string{"patch": out})
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	addSelFlag(cmd, &sels)
	return cmd
}

func newPatchExtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [patch]",
		Short: "Remove marker lines from a patch and report their selections",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := a.readInput(cmd, optionalArg(args))
			if err != nil {
				return err
			}
			clean, sels := patchsel.Extract(patch)
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]any{"patch": clean, "selections": sels})
			}
			if _, err := fmt.Fprint(cmd.OutOrStdout(), clean); err != nil {
				return err
			}
			printSelections(cmd.ErrOrStderr(), sels)
			return nil
		},
	}
}

type appliedPatch struct {
	Text       string                `json:"text"`
	HunkOffset int                   `json:"hunk_offset"`
	Selections []selection.Selection `json:"selections"`
}

func newPatchApplyCmd(a *app) *cobra.Command {
	var mark bool
	cmd := &cobra.Command{
		Use:   "apply PATCH FILE",
		Short: "Apply a patch with marker lines and report absolute selections",
		Long: `Apply a patch to a file after removing its marker lines. The marked
selections are converted to offsets in the patched text. With --mark they
are written into the output as inline tokens.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := a.readInput(cmd, args[0])
			if err != nil {
				return err
			}
			text, err := a.readInput(cmd, args[1])
			if err != nil {
				return err
			}
			clean, sels := patchsel.Extract(patch)
			out, off, err := patchsel.ApplyWithHunkOffset(clean, text)
			if err != nil {
				return err
			}
			abs := patchsel.ToAbsolute(off, sels)
			if mark {
				out = inline.Embed(out, abs)
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), appliedPatch{Text: out, HunkOffset: off, Selections: abs})
			}
			if _, err := fmt.Fprint(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if !mark {
				printSelections(cmd.ErrOrStderr(), abs)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&mark, "mark", false, "mark the selections in the output with inline tokens")
	return cmd
}

func newPatchTargetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "target PATCH REGION",
		Short: "Render the expected editable region with inline tokens",
		Long: `Apply a patch with marker lines to an editable region and print the
result with the marked selections written as inline tokens.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := a.readInput(cmd, args[0])
			if err != nil {
				return err
			}
			region, err := a.readInput(cmd, args[1])
			if err != nil {
				return err
			}
			clean, sels := patchsel.Extract(patch)
			out, err := patchsel.RenderTarget(clean, region, sels)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]string{"text": out})
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}

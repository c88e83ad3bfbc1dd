package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"selection-codec/internal/diff"
	"selection-codec/internal/logging"
	"selection-codec/internal/validate"
)

const devNull = "/dev/null"

func newDiffCmd(a *app) *cobra.Command {
	var name string
	var edits bool
	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Print a unified diff, or the word-level edit script, between two files",
		Long: `Print a unified diff between two files. OLD may be /dev/null for a new
file. With --edits the word-level edit script used for position mapping is
printed instead, as JSON.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldText := ""
			if args[0] != devNull {
				var err error
				if oldText, err = a.readInput(cmd, args[0]); err != nil {
					return err
				}
			}
			newText, err := a.readInput(cmd, args[1])
			if err != nil {
				return err
			}
			if edits {
				return runEdits(cmd, oldText, newText)
			}

			if name == "" {
				name = args[1]
			}
			opt := a.cfg.DiffOptions()
			var body string
			var oversize bool
			if args[0] == devNull {
				body, oversize = diff.Added(name, newText, opt)
			} else {
				body, oversize = diff.Unified(name, name, oldText, newText, opt)
			}
			if oversize {
				logging.Warn("diff omitted", "old", args[0], "new", args[1], "max_bytes", opt.MaxBytes)
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]any{"patch": body, "oversize": oversize})
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), body)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "path written in the patch headers (default NEW)")
	cmd.Flags().BoolVar(&edits, "edits", false, "print the word-level edit script instead")
	cmd.Flags().Int("context", 3, "context lines per hunk")
	cmd.Flags().Int("max-bytes", 0, "omit the diff when old+new exceed this size (0 = no limit)")
	cmd.Flags().Bool("no-prefix", false, "do not prefix paths with a/ and b/")
	return cmd
}

func runEdits(cmd *cobra.Command, oldText, newText string) error {
	edits := diff.Compute(oldText, newText)
	if err := validate.Edits(len(oldText), edits); err != nil {
		return fmt.Errorf("edit script: %w", err)
	}
	if diff.ApplyEdits(oldText, edits) != newText {
		return errors.New("edit script does not rebuild the new text")
	}
	if edits == nil {
		edits = []diff.Edit{}
	}
	return printJSON(cmd.OutOrStdout(), edits)
}

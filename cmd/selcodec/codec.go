package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"selection-codec/internal/linemarker"
	"selection-codec/internal/selection"
	"selection-codec/internal/validate"
)

func newEncodeCmd(a *app) *cobra.Command {
	var sels []string
	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Insert comment marker lines for the given selections",
		Long: `Insert one comment marker line per selection below the line holding its
cursor. The marker is indented like that line and written with the
configured comment prefix.`,
		Example: `  selcodec encode main.go --sel 120:134
  cat main.go | selcodec encode --sel 57 --comment-prefix '#'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, a, optionalArg(args), sels)
		},
	}
	addSelFlag(cmd, &sels)
	return cmd
}

func runEncode(cmd *cobra.Command, a *app, path string, raw []string) error {
	text, err := a.readInput(cmd, path)
	if err != nil {
		return err
	}
	sels, err := parseSels(raw)
	if err != nil {
		return err
	}
	if err := validate.Selections(text, sels); err != nil {
		return err
	}
	out := linemarker.Encode(text, sels, a.cfg.CommentPrefix)
	if a.jsonOut {
		return printJSON(cmd.OutOrStdout(), map[string]string{"text": out})
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func newDecodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [file]",
		Short: "Remove comment marker lines and report the selections they encode",
		Long: `Remove comment marker lines and print the clean text on stdout. The
decoded selections are listed on stderr, or included in the --json output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, a, optionalArg(args))
		},
	}
}

func runDecode(cmd *cobra.Command, a *app, path string) error {
	marked, err := a.readInput(cmd, path)
	if err != nil {
		return err
	}
	text, sels, err := linemarker.Decode(marked)
	if err != nil {
		return err
	}
	if a.jsonOut {
		return printJSON(cmd.OutOrStdout(), selection.MarkedText{Text: text, Selections: sels})
	}
	if _, err := fmt.Fprint(cmd.OutOrStdout(), text); err != nil {
		return err
	}
	printSelections(cmd.ErrOrStderr(), sels)
	return nil
}

func newValidateCmd(a *app) *cobra.Command {
	var sels []string
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that selections lie inside the text and on rune boundaries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readInput(cmd, optionalArg(args))
			if err != nil {
				return err
			}
			parsed, err := parseSels(sels)
			if err != nil {
				return err
			}
			if err := validate.Selections(text, parsed); err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]any{"valid": true, "selections": len(parsed)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d selection(s)\n", len(parsed))
			return nil
		},
	}
	addSelFlag(cmd, &sels)
	return cmd
}

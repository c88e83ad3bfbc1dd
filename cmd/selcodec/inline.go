package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"selection-codec/internal/inline"
	"selection-codec/internal/logging"
	"selection-codec/internal/selection"
	"selection-codec/internal/validate"
)

func newInlineCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inline",
		Short: "Embed or extract <|selection_start|> and <|user_cursor|> tokens",
	}
	cmd.AddCommand(newInlineEmbedCmd(a), newInlineExtractCmd(a), newInlineRegionCmd(a), newInlineExcerptCmd(a))
	return cmd
}

func newInlineEmbedCmd(a *app) *cobra.Command {
	var sels []string
	cmd := &cobra.Command{
		Use:   "embed [file]",
		Short: "Insert inline tokens at the given selections",
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
			out := inline.Embed(text, parsed)
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]string{"text": out})
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	addSelFlag(cmd, &sels)
	return cmd
}

func newInlineExtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [file]",
		Short: "Remove inline tokens and report the selections they mark",
		Long: `Remove inline tokens and print the clean text on stdout. Selections and
standalone cursors are listed on stderr in token order, or included in the
--json output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readInput(cmd, optionalArg(args))
			if err != nil {
				return err
			}
			if !inline.Contains(text) {
				logging.Debug("no inline tokens found", "input", displayName(optionalArg(args)))
			}
			ex := inline.Extract(text)
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), ex)
			}
			if _, err := fmt.Fprint(cmd.OutOrStdout(), ex.Text); err != nil {
				return err
			}
			printSelections(cmd.ErrOrStderr(), ex.All())
			return nil
		},
	}
}

func newInlineRegionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "region [file]",
		Short: "Print the editable region of the last code block in a response",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readInput(cmd, optionalArg(args))
			if err != nil {
				return err
			}
			region, err := inline.ExtractEditableRegion(inline.LastCodeBlock(text))
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]string{"region": region})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), region)
			return err
		},
	}
}

func newInlineExcerptCmd(a *app) *cobra.Command {
	var editable, window, sel string
	cmd := &cobra.Command{
		Use:   "excerpt [file]",
		Short: "Render a prompt excerpt with the editable region and cursor marked",
		Long: `Render the context range of a file with the editable region delimited by
<|editable_region_start|> and <|editable_region_end|> and the selection
marked inside it. Ranges are start:end byte offsets; --window defaults to
the whole file and --editable to the window.`,
		Example: `  selcodec inline excerpt main.go --window 0:400 --editable 120:260 --sel 180`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readInput(cmd, optionalArg(args))
			if err != nil {
				return err
			}
			ctx := selection.Selection{Start: 0, End: len(text)}
			if window != "" {
				if ctx, err = selection.Parse(window); err != nil {
					return err
				}
			}
			ed := ctx
			if editable != "" {
				if ed, err = selection.Parse(editable); err != nil {
					return err
				}
			}
			s, err := selection.Parse(sel)
			if err != nil {
				return err
			}
			// The ranges nest, so each is checked on its own.
			for _, r := range []selection.Selection{ctx, ed, s} {
				if err := validate.Selections(text, []selection.Selection{r}); err != nil {
					return err
				}
			}
			if !ctx.Contains(ed.Start, ed.End) {
				return fmt.Errorf("editable range %s must lie within window %s", ed, ctx)
			}
			out := inline.FormatExcerpt(text, ed, ctx, s)
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]string{"text": out})
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&editable, "editable", "", "editable range start:end")
	cmd.Flags().StringVar(&window, "window", "", "range of the file to render, start:end")
	cmd.Flags().StringVar(&sel, "sel", "0", "selection start:end, or an offset for a cursor")
	return cmd
}

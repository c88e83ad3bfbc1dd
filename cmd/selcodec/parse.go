package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"selection-codec/internal/response"
)

func newParseCmd(a *app) *cobra.Command {
	var in response.Input
	var promptPath, contentPath string
	cmd := &cobra.Command{
		Use:   "parse --prompt FILE [response]",
		Short: "Turn a model response into a patch and cursor positions",
		Long: `Parse a model response: take the editable region from its last code block,
remove the inline tokens, diff it against the region shown in the prompt and
print the patch. With --content the patch is numbered against the full file
and cursor positions are resolved in it; the decoded positions are listed on
stderr, or included in the --json output.`,
		Example: `  selcodec parse --prompt prompt.txt --content main.rs --path src/main.rs response.md`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readInput(cmd, optionalArg(args))
			if err != nil {
				return err
			}
			if in.Prompt, err = a.readInput(cmd, promptPath); err != nil {
				return err
			}
			if contentPath != "" {
				if in.Content, err = a.readInput(cmd, contentPath); err != nil {
					return err
				}
				if in.Path == "" {
					in.Path = contentPath
				}
			}
			res, err := response.Parse(text, in)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), res)
			}
			if res.NoEdits {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), response.NoEdits)
				return err
			}
			if _, err := fmt.Fprint(cmd.OutOrStdout(), res.Patch); err != nil {
				return err
			}
			if len(res.Cursors) > 0 {
				for _, c := range res.Cursors {
					fmt.Fprintf(cmd.ErrOrStderr(), "cursor %s:%d:%d (offset %d)\n", c.Path, c.Row+1, c.Column+1, c.Offset)
				}
				return nil
			}
			printSelections(cmd.ErrOrStderr(), res.Selections)
			return nil
		},
	}
	cmd.Flags().StringVar(&promptPath, "prompt", "", "editable region shown in the prompt")
	cmd.Flags().StringVar(&contentPath, "content", "", "full file the region was taken from")
	cmd.Flags().StringVar(&in.Path, "path", "", "path written in the patch headers (default --content)")
	cmd.Flags().IntVar(&in.CursorOffset, "cursor", 0, "cursor offset in the file, to pick among repeated regions")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}

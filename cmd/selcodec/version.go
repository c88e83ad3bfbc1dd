package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"selection-codec/internal/meta"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := meta.Detect()
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), info)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "selcodec %s\n", info)
			return err
		},
	}
}

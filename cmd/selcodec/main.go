// Command selcodec encodes, decodes, maps and scores cursor and selection
// positions in source excerpts, model responses and unified diffs.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

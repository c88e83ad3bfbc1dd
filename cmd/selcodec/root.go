package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"selection-codec/internal/config"
	"selection-codec/internal/logging"
	"selection-codec/internal/meta"
	"selection-codec/internal/selection"
	"selection-codec/internal/textutil"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	v         *viper.Viper
	cfg       config.Config
	cfgFile   string
	jsonOut   bool
	normalize bool
	encoding  string
}

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	"comment_prefix": "comment-prefix",
	"log.level":      "log-level",
	"log.format":     "log-format",
	"diff.context":   "context",
	"diff.max_bytes": "max-bytes",
	"diff.no_prefix": "no-prefix",
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}
	root := &cobra.Command{
		Use:   "selcodec",
		Short: "Encode, decode, map and score cursor and selection positions",
		Long: `selcodec converts cursor and selection positions between plain offsets,
comment-line markers, inline tokens and '#' markers inside unified diffs,
maps them across edits, and scores predicted selections against expected ones.

Inputs are file paths, or - for stdin. Selections are given as start:end
(or a bare offset for a cursor) with the repeatable --sel flag.`,
		Version:       meta.Detect().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./selcodec.yaml or ~/.config/selcodec/selcodec.yaml)")
	pf.String("comment-prefix", "//", "comment prefix for marker lines")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.BoolVar(&a.jsonOut, "json", false, "Output in JSON format")
	pf.BoolVar(&a.normalize, "normalize", false, "convert CRLF to LF, repair invalid UTF-8 and NFC-normalize inputs")
	pf.StringVar(&a.encoding, "encoding", "", "input encoding: utf-8 (default), latin1 or windows-1252")

	root.AddCommand(
		newEncodeCmd(a),
		newDecodeCmd(a),
		newValidateCmd(a),
		newInlineCmd(a),
		newMapCmd(a),
		newPatchCmd(a),
		newDiffCmd(a),
		newParseCmd(a),
		newScoreCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if err := config.BindFlags(a.v, cmd.Flags(), flagKeys); err != nil {
		return err
	}
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	opts := cfg.LogOptions()
	opts.Writer = cmd.ErrOrStderr()
	if err := logging.Init(opts); err != nil {
		return err
	}
	if f := a.v.ConfigFileUsed(); f != "" {
		logging.Debug("config loaded", "file", f)
	}
	return nil
}

// readInput reads a file, or stdin when path is "-" or empty.
func (a *app) readInput(cmd *cobra.Command, path string) (string, error) {
	r := cmd.InOrStdin()
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	text, err := textutil.ReadAll(r, a.encoding)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", displayName(path), err)
	}
	if a.normalize {
		return textutil.NormalizeUTF8LF(text), nil
	}
	return text, nil
}

func displayName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}

// optionalArg returns args[0], or "-" when no argument was given.
func optionalArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

func parseSels(in []string) ([]selection.Selection, error) {
	out := make([]selection.Selection, 0, len(in))
	for _, s := range in {
		sel, err := selection.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

// printJSON outputs data as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printSelections lists selections on w, one per line.
func printSelections(w io.Writer, sels []selection.Selection) {
	for _, s := range sels {
		fmt.Fprintf(w, "selection %s\n", s)
	}
}

func addSelFlag(cmd *cobra.Command, dst *[]string) {
	cmd.Flags().StringArrayVar(dst, "sel", nil, "selection start:end, or an offset for a cursor (repeatable)")
}

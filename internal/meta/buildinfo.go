// Package meta reports build metadata of the selcodec binary.
//
// Goals:
//   - Zero configuration: values come from the linker (-X) or, failing that,
//     from the module build info embedded by the Go toolchain
//   - Best-effort: missing data yields "unknown"/"devel", never an error
package meta

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X selection-codec/internal/meta.version=v1.2.3".
var (
	version = ""
	commit  = ""
)

// Info contains a minimal, tool-friendly summary of build metadata.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	Module    string `json:"module"`
	Dirty     bool   `json:"dirty,omitempty"`
}

// Detect collects build metadata.
func Detect() Info {
	bi, _ := debug.ReadBuildInfo()
	return fromBuildInfo(bi, version, commit)
}

func fromBuildInfo(bi *debug.BuildInfo, ldVersion, ldCommit string) Info {
	inf := Info{
		Version:   ldVersion,
		Commit:    ldCommit,
		GoVersion: runtime.Version(),
	}
	if bi != nil {
		inf.Module = bi.Main.Path
		if inf.Version == "" && bi.Main.Version != "(devel)" {
			inf.Version = bi.Main.Version
		}
		if bi.GoVersion != "" {
			inf.GoVersion = bi.GoVersion
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if inf.Commit == "" {
					inf.Commit = s.Value
				}
			case "vcs.modified":
				inf.Dirty = s.Value == "true"
			}
		}
	}
	if inf.Version == "" {
		inf.Version = "devel"
	}
	if inf.Commit == "" {
		inf.Commit = "unknown"
	}
	if len(inf.Commit) > 12 {
		inf.Commit = inf.Commit[:12]
	}
	return inf
}

// String renders Info on one line, e.g. "v1.2.0 (3f2c1a9b0d11, go1.24.0)".
func (i Info) String() string {
	dirty := ""
	if i.Dirty {
		dirty = "+dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", i.Version, i.Commit, dirty, i.GoVersion)
}

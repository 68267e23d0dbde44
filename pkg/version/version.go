// Package version holds build metadata injected at link time.
package version

import (
	"fmt"
	"runtime/debug"
)

// Build metadata. Overridden with -ldflags "-X".
var (
	Version = "dev"
	Commit  = "<unknown>"
	Date    = "<unknown>"
)

// unknown marks metadata neither injected nor recoverable from build info.
const unknown = "<unknown>"

// commitLength is the abbreviated VCS revision length.
const commitLength = 7

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	fillFromBuildInfo(info)
}

// fillFromBuildInfo falls back to the module version and VCS settings
// recorded by the Go toolchain when nothing was injected.
func fillFromBuildInfo(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == unknown && setting.Value != "" {
				Commit = setting.Value[:min(commitLength, len(setting.Value))]
			}
		case "vcs.time":
			if Date == unknown && setting.Value != "" {
				Date = setting.Value
			}
		}
	}
}

// String renders the one-line version banner.
func String() string {
	return fmt.Sprintf("codeme %s (commit: %s, built: %s)", Version, Commit, Date)
}

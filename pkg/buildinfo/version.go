// Package buildinfo reports which build of fpviz is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/fpviz/fpviz/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/fpviz/fpviz/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/fpviz/fpviz/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries built with go install carry no ldflags; for those the values are
// filled from the module and VCS data embedded by the toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"     // semantic version, e.g. "v0.3.0"
	Commit  = "none"    // git commit
	Date    = "unknown" // build time, RFC 3339
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fill(info)
	}
}

// fill replaces unstamped values with those found in info.
func fill(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}

// String returns the build information, one field per line.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} version " + Version + "\ncommit: " + Commit + "\nbuilt: " + Date + "\n"
}

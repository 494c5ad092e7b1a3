package main

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// Version returns the version string.
//
// When installed via `go install ...@version`, returns the module version (e.g., "v0.1.0").
// Other builds return "devel-0.1.0", with "+abc1234" appended when a VCS revision is known.
func Version() string {
	return version(strings.TrimSpace(embeddedVersion), debug.ReadBuildInfo)
}

func version(base string, readBuildInfo func() (*debug.BuildInfo, bool)) string {
	info, ok := readBuildInfo()
	if !ok {
		return base
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return "devel-" + base + "+" + s.Value[:7]
		}
	}
	return "devel-" + base
}

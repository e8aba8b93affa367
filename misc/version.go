// Package misc keeps build identification helpers used by logging and
// reporting. Values come from the Go build info so they work for both tagged
// releases and plain "go install" builds.
package misc

import (
	"runtime/debug"
	"sync"
)

const appName = "rtr"

var buildInfo = sync.OnceValue(func() *debug.BuildInfo {
	if bi, ok := debug.ReadBuildInfo(); ok {
		return bi
	}
	return nil
})

// GetAppName returns short program name used for log files, reports and CLI.
func GetAppName() string {
	return appName
}

// GetVersion returns module version recorded in the build info or "devel"
// when the binary was built from a working tree.
func GetVersion() string {
	bi := buildInfo()
	if bi == nil || len(bi.Main.Version) == 0 || bi.Main.Version == "(devel)" {
		return "devel"
	}
	return bi.Main.Version
}

// GetGitHash returns VCS revision baked into the binary, shortened to 12
// characters, or "unknown" when build info has no VCS data.
func GetGitHash() string {
	bi := buildInfo()
	if bi == nil {
		return "unknown"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return "unknown"
}

package sazito

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the SDK release. Commit and build time come from the
// embedding binary's VCS stamp when available.
var Version = "v0.3.0"

// BuildInfo describes the binary the SDK is linked into.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
	Modified  bool
	GoVersion string
}

// ReadBuildInfo collects version data from the running binary.
func ReadBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    "unknown",
		BuildTime: "unknown",
		GoVersion: runtime.Version(),
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
			if len(info.Commit) > 12 {
				info.Commit = info.Commit[:12]
			}
		case "vcs.time":
			info.BuildTime = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// GetVersion returns a human-readable version string.
func GetVersion() string {
	info := ReadBuildInfo()
	commit := info.Commit
	if info.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("Sazito SDK %s (commit: %s, built: %s, go: %s)",
		info.Version, commit, info.BuildTime, info.GoVersion)
}

func userAgent() string {
	return "sazito-go-sdk/" + Version
}

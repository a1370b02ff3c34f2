// Package version exposes build-time version metadata, injected via ldflags:
//
//	go build -ldflags "-X github.com/conneroisu/vegadoc/internal/version.Version=v1.2.3"
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the semantic version of this build.
	Version = "dev"
	// GitCommit is the commit hash this build was produced from.
	GitCommit = "unknown"
	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

// BuildInfo bundles the build metadata.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build metadata for this binary.
func Get() BuildInfo {
	return BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Short returns the bare version string.
func Short() string {
	return Version
}

package contracts

import (
	"fmt"
	"runtime"
)

// Version is the release version. Build scripts override it together with
// BuildTime and GitCommit through -ldflags "-X".
var Version = "1.2.0"

var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Layout versions clients can rely on. ReportFormatVersion changes whenever
// the Matched or Unmatched sheet columns change.
const (
	ReportFormatVersion = "v1"
	APIVersion          = "v1"
)

// VersionInfo describes the running build
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	Platform     string `json:"platform"`
	ReportFormat string `json:"report_format"`
	APIVersion   string `json:"api_version"`
}

// GetVersionInfo returns the build description of this binary
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
		ReportFormat: ReportFormatVersion,
		APIVersion:   APIVersion,
	}
}

// String renders the one-line form printed by the version command
func (v VersionInfo) String() string {
	s := fmt.Sprintf("Attendancify v%s (%s, %s", v.Version, v.GoVersion, v.Platform)
	if v.GitCommit != "unknown" && v.GitCommit != "" {
		s += ", commit " + v.GitCommit
	}
	return s + ", built " + v.BuildTime + ")"
}

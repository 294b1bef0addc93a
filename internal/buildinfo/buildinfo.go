// Package buildinfo carries the build identifiers stamped in with -ldflags:
//
//	-X deskmon/internal/buildinfo.Version=v1.2.0 -X deskmon/internal/buildinfo.Commit=abc123
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the version if one was stamped, else the commit, else "dev".
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// String is the full identifier printed by -version.
func String() string {
	return fmt.Sprintf("deskmon %s (commit %s, built %s)", Version, Commit, Date)
}

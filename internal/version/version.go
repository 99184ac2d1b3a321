// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Full renders the build metadata as one string, for surfaces that report
// a single version identifier instead of separate structured fields (the
// /healthz payload, the settings server's startup log line).
func Full() string {
	return fmt.Sprintf("featureflow %s (%s, built %s)", Version, Commit, Date)
}

// Package version exposes build metadata set with -ldflags, e.g.
//
//	go build -ldflags "-X metricsprobe/internal/version.Version=v1.0.0 -X metricsprobe/internal/version.Commit=abc123"
package version

import "strings"

var (
	// Version is the release tag (v1.2.3). Empty for development builds.
	Version = ""
	// Commit is the short git SHA of the build.
	Commit = ""
	// Date is the UTC build time in RFC3339.
	Date = ""
	// Dirty is "dirty" when the tree had uncommitted changes.
	Dirty = ""
)

// String returns Version for releases, "dev-<sha>" (with a trailing "*" when
// dirty) for development builds that know their commit, and "dev" otherwise.
func String() string {
	if v := strings.TrimSpace(Version); v != "" {
		return v
	}
	if Commit == "" {
		return "dev"
	}
	s := "dev-" + Commit
	if Dirty == "dirty" {
		s += "*"
	}
	return s
}

// Package buildinfo exposes the version of the netedit binary.
//
// The variables are stamped by the release build:
//
//	go build -ldflags "-X github.com/matzehuels/netedit/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/netedit/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/netedit/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/netedit
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the abbreviated git revision.
	Commit = "none"

	// Date is the UTC build time.
	Date = "unknown"
)

// IsRelease reports whether the binary was built from a tagged release.
func IsRelease() bool {
	return Version != "dev"
}

// String returns a one-line description such as "netedit v0.3.0 (abc123, 2026-01-02)".
func String() string {
	return fmt.Sprintf("netedit %s (%s, %s)", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + Version + "\ncommit: " + Commit + "\nbuilt:  " + Date + "\n"
}

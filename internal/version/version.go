// Package version exposes build metadata stamped by the linker.
package version

// Build metadata, overridden at release time via
// -ldflags "-X github.com/matiasbn/dj-wizard/internal/version.Version=… (etc.)".
var (
	// Version is the semantic version of the binary.
	Version = "1.0.0"

	// Commit is the git commit the binary was built from.
	Commit = "none"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

// Short returns only the semantic version.
func Short() string {
	return Version
}

// Full returns the version, commit, and build time in a single line.
func Full() string {
	return "version: " + Version + ", commit: " + Commit + ", built at: " + BuildTime
}

// SPDX-License-Identifier: MIT

// Package version carries build identification, populated via ldflags.
package version

var (
	// Version is the current application version.
	Version = "dev"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// String renders the full build identification.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}

// Package buildinfo holds build-time information like the version.
// It is a separate package so other packages can import it without
// introducing circular dependencies.
package buildinfo

// Updated by linker flags during release builds.
var (
	Version   string = "0.1.0"
	GitCommit string
)

// String returns the version, with the commit appended when known.
func String() string {
	if GitCommit == "" {
		return Version
	}
	return Version + " (" + GitCommit + ")"
}

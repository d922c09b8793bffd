// Package buildinfo carries version stamps set with -ldflags "-X".
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the most specific identifier available: a release version,
// else the commit, else "dev".
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// String is the one-line form printed by the version command.
func String() string {
	return fmt.Sprintf("axiom %s (commit %s, built %s)", Short(), Commit, Date)
}

// Package version holds build metadata injected with -ldflags, e.g.
// go build -ldflags "-X git.home.luguber.info/inful/pagebuilder/internal/version.Version=v1.0.0".
package version

import "fmt"

// Version is the release version.
var Version = "dev"

// Build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version line printed by --version.
func String() string {
	return fmt.Sprintf("pagebuilder %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}

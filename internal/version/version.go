package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"             // ex: v1.0.4
	Commit    = "none"            // ex: abcd123
	BuildDate = "unknown"         // ex: 2026-10-19T18:42:00Z
	GoVersion = runtime.Version() // go version
)

// Full returns a single-line description of the build.
func Full() string {
	return fmt.Sprintf("mj %s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}

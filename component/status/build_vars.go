package status

import (
	"fmt"
	"runtime"
)

// Set through -ldflags at build time.
var (
	// GitCommit is the hash of the commit the binary was built on.
	GitCommit = "0"
	// GitVersion is the version tag the commit is on.
	GitVersion string
	// GitBranch is the branch the binary was built from.
	GitBranch = "development"
)

func Version() string {
	if GitVersion != "" && GitVersion != "undefined" {
		return GitVersion
	}
	return GitBranch
}

func OSArch() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}

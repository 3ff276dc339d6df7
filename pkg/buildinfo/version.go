// Package buildinfo holds version information injected at link time:
//
//	go build -ldflags "-X github.com/matzehuels/dockspace/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/dockspace/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/dockspace/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/dockspace
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the build information on three lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template for cobra's --version output.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// IsRelease reports whether the binary was built with a version set.
func IsRelease() bool {
	return Version != "dev" && Version != ""
}

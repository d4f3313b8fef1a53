package vaultbridge

import "fmt"

// Version of the vaultbridge library
const Version = "1.0.0"

// Build information (set by ldflags during build)
var (
	GitCommit string
	BuildDate string
)

// VersionInfo returns formatted version information
func VersionInfo() string {
	if GitCommit == "" {
		return fmt.Sprintf("vaultbridge v%s", Version)
	}
	return fmt.Sprintf("vaultbridge v%s (commit: %s, built: %s)", Version, GitCommit, BuildDate)
}

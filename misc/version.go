// Package misc keeps program identification details, values are set at build
// time with -ldflags "-X docsync/misc.version=... -X docsync/misc.gitHash=...".
package misc

import "runtime/debug"

var (
	appName = "docsync"
	version = "dev"
	gitHash = ""
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns hash supplied at link time or, when absent, vcs revision
// recorded by the toolchain.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}

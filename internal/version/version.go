package version

import "runtime/debug"

// Set at build time with -ldflags "-X session-guard/internal/version.Version=...".
var (
	Version   string = "dev"
	GitCommit string = "unknown"
	BuildTime string = "unknown"
)

// GetVersion prefers the linker-provided version and falls back to the
// module version recorded by `go install`.
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

func GetGitCommit() string {
	return GitCommit
}

func GetBuildTime() string {
	return BuildTime
}

func GetFullVersion() string {
	return GetVersion() + " (commit: " + GitCommit + ", built: " + BuildTime + ")"
}

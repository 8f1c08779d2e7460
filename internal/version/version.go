package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// These variables are set during build time
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

// maxDeps caps the dependency list in FullVersion.
const maxDeps = 12

// BuildInfo contains build and runtime information
type BuildInfo struct {
	Version   string   `json:"version"`
	SemVer    string   `json:"semver"`
	BuildDate string   `json:"build_date"`
	GitCommit string   `json:"git_commit"`
	GitBranch string   `json:"git_branch"`
	Modified  bool     `json:"modified"`
	GoVersion string   `json:"go_version"`
	Platform  string   `json:"platform"`
	NumCPU    int      `json:"num_cpu"`
	BuildDeps []Module `json:"build_deps"`
}

// Module represents a Go module dependency
type Module struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

// GetBuildInfo returns build information. Values not stamped through
// -ldflags are filled from the VCS settings embedded by the go tool.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		SemVer:    semVer(Version),
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GitBranch: GitBranch,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		NumCPU:    runtime.NumCPU(),
	}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	applySettings(&info, build.Settings)
	for _, dep := range build.Deps {
		info.BuildDeps = append(info.BuildDeps, Module{Path: dep.Path, Version: dep.Version})
	}
	return info
}

func applySettings(info *BuildInfo, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
}

// semVer strips a leading v and any pre-release or build suffix.
func semVer(v string) string {
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	return v
}

// Short returns the one-line version string
func Short() string {
	return fmt.Sprintf("arbor %s", Version)
}

// FullVersion returns a formatted string with complete version information
func FullVersion() string {
	return format(GetBuildInfo())
}

func format(info BuildInfo) string {
	var b strings.Builder
	title := fmt.Sprintf("Arbor %s", info.Version)
	fmt.Fprintf(&b, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))

	b.WriteString("Version Information:\n")
	fmt.Fprintf(&b, "  Version:      %s\n", info.Version)
	fmt.Fprintf(&b, "  Semantic Ver: %s\n", info.SemVer)
	fmt.Fprintf(&b, "  Build Date:   %s\n", info.BuildDate)
	b.WriteString("\n")

	b.WriteString("Git Information:\n")
	commit := info.GitCommit
	if info.Modified {
		commit += " (modified)"
	}
	fmt.Fprintf(&b, "  Commit:       %s\n", commit)
	fmt.Fprintf(&b, "  Branch:       %s\n", info.GitBranch)
	b.WriteString("\n")

	b.WriteString("Runtime Information:\n")
	fmt.Fprintf(&b, "  Go Version:   %s\n", info.GoVersion)
	fmt.Fprintf(&b, "  Platform:     %s\n", info.Platform)
	fmt.Fprintf(&b, "  CPUs:         %d\n", info.NumCPU)

	if len(info.BuildDeps) > 0 {
		b.WriteString("\nDependencies:\n")
		shown := info.BuildDeps
		if len(shown) > maxDeps {
			shown = shown[:maxDeps]
		}
		for _, dep := range shown {
			fmt.Fprintf(&b, "  - %s@%s\n", dep.Path, dep.Version)
		}
		if rest := len(info.BuildDeps) - len(shown); rest > 0 {
			fmt.Fprintf(&b, "  ... and %d more\n", rest)
		}
	}

	return b.String()
}

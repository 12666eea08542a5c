// Package version reports build provenance for the emulator binary: the
// version string baked in at link time plus whatever VCS metadata the Go
// toolchain embedded, so `gones -version` and crash reports can point at an
// exact commit instead of a bare "dev" string.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Set via -ldflags at release build time; a dev build run with `go run`
// or a plain `go build` leaves all four at the defaults below, and Collect
// then fills GitCommit and BuildTime from runtime/debug's embedded VCS
// stamp.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	BuildUser = "unknown"
)

// Capabilities lists the mapper/backend support baked into this build, for
// diagnostics: the core only ever implements mapper 0 (spec.md's scope).
// Backends always names all three, whatever the build tags; in a build
// with the headless tag the ebitengine entry is a stub that fails on use.
var Capabilities = struct {
	Mappers  []int
	Backends []string
}{
	Mappers:  []int{0},
	Backends: []string{"ebitengine", "headless", "terminal"},
}

// Info is a snapshot of build provenance plus the runtime toolchain that
// produced the binary.
type Info struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit"`
	BuildTime  string `json:"build_time"`
	BuildUser  string `json:"build_user"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	Arch       string `json:"arch"`
	CGOEnabled bool   `json:"cgo_enabled"`
}

// Collect gathers Version/GitCommit/BuildTime/BuildUser as set by -ldflags,
// filling in GitCommit and BuildTime while they are still "unknown" from
// the Go module's own embedded VCS stamp (available even for `go build`/
// `go run` without -ldflags).
func Collect() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		BuildUser: BuildUser,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" {
				info.GitCommit = setting.Value
			}
		case "vcs.time":
			if info.BuildTime == "unknown" {
				info.BuildTime = setting.Value
			}
		case "CGO_ENABLED":
			info.CGOEnabled = setting.Value == "1"
		}
	}
	return info
}

// Short returns a version string suitable for a single status line: the
// release version if set via -ldflags, or "dev-<7 char commit>" when
// running an unreleased build with VCS info available.
func Short() string {
	if Version != "dev" {
		return Version
	}
	if commit := Collect().GitCommit; commit != "unknown" && len(commit) >= 7 {
		return "dev-" + commit[:7]
	}
	return Version
}

// Long renders a one-line human-readable summary: version, commit, build
// time, toolchain, and platform, omitting any field the build didn't set.
func Long() string {
	info := Collect()
	var b strings.Builder
	fmt.Fprintf(&b, "gones %s", info.Version)
	if info.GitCommit != "unknown" {
		commit := info.GitCommit
		if len(commit) >= 7 {
			commit = commit[:7]
		}
		fmt.Fprintf(&b, " (%s)", commit)
	}
	if info.BuildTime != "unknown" {
		if t, err := time.Parse(time.RFC3339, info.BuildTime); err == nil {
			fmt.Fprintf(&b, " built %s", t.Format("2006-01-02"))
		} else {
			fmt.Fprintf(&b, " built %s", info.BuildTime)
		}
	}
	fmt.Fprintf(&b, " [%s %s/%s]", info.GoVersion, info.Platform, info.Arch)
	return b.String()
}

// Print writes the full build report to stdout, including the mapper and
// backend capabilities compiled into this binary.
func Print() {
	info := Collect()
	fmt.Println("gones - NES emulator")
	fmt.Printf("Version:      %s\n", info.Version)
	fmt.Printf("Commit:       %s\n", info.GitCommit)
	fmt.Printf("Built:        %s\n", info.BuildTime)
	fmt.Printf("Built by:     %s\n", info.BuildUser)
	fmt.Printf("Go:           %s\n", info.GoVersion)
	fmt.Printf("Platform:     %s/%s\n", info.Platform, info.Arch)
	fmt.Printf("CGO enabled:  %t\n", info.CGOEnabled)
	fmt.Printf("Mappers:      %v\n", Capabilities.Mappers)
	fmt.Printf("Backends:     %v\n", Capabilities.Backends)
}

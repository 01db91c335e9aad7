// Package compileinfo reports the VCS state a binary was built from, so that
// result tables can be traced back to the code that produced them.
package compileinfo

import (
	"fmt"
	"runtime/debug"
	"strings"
)

type CompileInfo struct {
	Package       string
	ModuleVersion string
	GoVersion     string
	Commit        string
	CommitTime    string
	Modified      bool
}

// Version is a short form suitable for --version output: the tagged module
// version when installed with go install, otherwise the abbreviated commit.
func (c CompileInfo) Version() string {
	if c.ModuleVersion != "" && c.ModuleVersion != "(devel)" {
		return c.ModuleVersion
	}
	if c.Commit == "" {
		return "devel"
	}

	commit := c.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if c.Modified {
		commit += "-dirty"
	}

	return commit
}

func (c CompileInfo) String() string {
	parts := []string{fmt.Sprintf("casecontrol %s", c.Version())}
	if c.Package != "" {
		parts = append(parts, "package "+c.Package)
	}
	if c.GoVersion != "" {
		parts = append(parts, "built with "+c.GoVersion)
	}
	if c.Commit != "" {
		parts = append(parts, "commit "+c.Commit)
	}
	if c.CommitTime != "" {
		parts = append(parts, "committed "+c.CommitTime)
	}
	if c.Modified {
		parts = append(parts, "with uncommitted changes")
	}

	return strings.Join(parts, "\n  ")
}

// Get reads the build settings embedded by the go tool. Outside a module
// build every field is empty.
func Get() CompileInfo {
	z, ok := debug.ReadBuildInfo()
	if !ok {
		return CompileInfo{}
	}

	return fromBuildInfo(z)
}

func fromBuildInfo(z *debug.BuildInfo) CompileInfo {
	out := CompileInfo{
		Package:       z.Path,
		ModuleVersion: z.Main.Version,
		GoVersion:     z.GoVersion,
	}

	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

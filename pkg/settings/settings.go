// Package settings provides build metadata, runtime configuration, and
// context helpers used across the tvx CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "tvx"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds configuration settings for a single execution of the application.
// It includes options for logging, input source configuration, display
// toggles, and error handling behavior.
type Run struct {
	MinLogLevel int8
	Input       InputSettings
	IsQuiet     bool
	NoColor     bool
	ExitOnError bool
}

// InputSettings describes where the data for this run came from: a file path,
// a named subitem within that file (sheet or database table), and whether the
// data was captured from standard input.
type InputSettings struct {
	Path      string
	Subitem   string
	FromStdin bool
}

// NewCliParams initializes and returns a pointer to a Run struct with default
// CLI parameters: info-level logging, color output enabled, and fail-fast
// error handling.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		IsQuiet:     false,
		NoColor:     false,
		ExitOnError: true,
	}
}

// Package version holds the build version, overridable with
// -ldflags "-X pajakin/internal/version.Version=..."
package version

// Version is the tool version
var Version = "0.1.0"

// Package version provides the current version of the server build.
package version

// Version is the service version, overridable at build time via
// -ldflags "-X github.com/hrygo/thermosense/internal/version.Version=...".
var Version = "0.1.0"

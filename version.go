// Package fsagent provides the version information for fsagent.
package fsagent

// Version is the current version of fsagent.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// Package version holds the SDK version reported by the CLI and the sandbox
// /version endpoint.
package version

// Version follows semantic versioning.
const Version = "0.1.0"

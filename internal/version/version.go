// internal/version/version.go
package version

// Version is the released version string, bumped on tagged releases.
const Version = "0.4.1"

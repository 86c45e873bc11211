// Package version reports which build of the Unitrack client is running.
//
// Version, commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/unitrack/unitrack/version.Version=1.4.0" ./cmd/unitrack
package version

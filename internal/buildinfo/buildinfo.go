// Package buildinfo carries the release version, overridable at link time:
//
//	go build -ldflags "-X github.com/promptlab/promptlab/internal/buildinfo.Version=1.2.3"
package buildinfo

var Version = "0.1.0"

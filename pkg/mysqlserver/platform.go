package mysqlserver

import (
	"runtime"
	"strings"
)

// Archive names use the platform vocabulary of the packaging step, which
// predates Go's GOOS/GOARCH naming.
var osNames = map[string]string{
	"linux":   "Linux",
	"darwin":  "Mac OS X",
	"freebsd": "FreeBSD",
	"windows": "Windows",
}

var archNames = map[string]string{
	"amd64": "x86_64",
	"386":   "i386",
	"arm64": "aarch64",
}

// Platform returns the identifier of the running platform, e.g.
// "Linux-x86_64" or "Mac_OS_X-x86_64". Platforms without a bundled archive
// are not rejected here; they surface later as an archive-not-found error.
func Platform() string {
	return platformID(runtime.GOOS, runtime.GOARCH)
}

func platformID(goos, goarch string) string {
	osName, ok := osNames[goos]
	if !ok {
		osName = goos
	}
	arch, ok := archNames[goarch]
	if !ok {
		arch = goarch
	}
	return strings.ReplaceAll(osName+"-"+arch, " ", "_")
}

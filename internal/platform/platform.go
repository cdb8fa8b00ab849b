// Package platform reports host details used in session banners and exposes
// them to startup files as a read-only Lua table.
//
// Distribution lookup uses gopsutil and degrades to OS/arch only when it
// fails, so callers never have to handle a detection error.
package platform

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// Info describes the host a session runs on.
type Info struct {
	OS       string // runtime.GOOS
	Arch     string // runtime.GOARCH
	Hostname string // empty when lookup fails
	Distro   string // distribution ID, Linux only (e.g. "ubuntu")
	Version  string // distribution version, Linux only
}

// Detect gathers host details. It never fails: distribution and hostname
// lookups fall back to empty fields.
func Detect(ctx context.Context) *Info {
	info := &Info{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	if name, err := os.Hostname(); err == nil {
		info.Hostname = name
	}

	if runtime.GOOS == "linux" {
		platform, _, version, err := host.PlatformInformationWithContext(ctx)
		if err == nil && platform != "" {
			info.Distro = strings.ToLower(strings.TrimSpace(platform))
			info.Version = strings.TrimSpace(version)
		}
	}

	return info
}

// Describe renders the one-line host summary used in banner preambles,
// e.g. "myhost linux/amd64 (ubuntu 22.04)".
func (i *Info) Describe() string {
	desc := i.OS + "/" + i.Arch
	if i.Distro != "" {
		desc += " (" + i.Distro
		if i.Version != "" {
			desc += " " + i.Version
		}
		desc += ")"
	}
	if i.Hostname != "" {
		desc = i.Hostname + " " + desc
	}
	return desc
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

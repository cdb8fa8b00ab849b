package platform

import (
	"context"
	"runtime"
	"testing"
)

func TestDetect(t *testing.T) {
	info := Detect(context.Background())

	if info.OS != runtime.GOOS {
		t.Errorf("OS = %q, want %q", info.OS, runtime.GOOS)
	}
	if info.Arch != runtime.GOARCH {
		t.Errorf("Arch = %q, want %q", info.Arch, runtime.GOARCH)
	}
	if info.OS != "linux" && info.Distro != "" {
		t.Errorf("Distro = %q on %s, want empty", info.Distro, info.OS)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		info *Info
		want string
	}{
		{
			name: "os and arch only",
			info: &Info{OS: "darwin", Arch: "arm64"},
			want: "darwin/arm64",
		},
		{
			name: "with distro",
			info: &Info{OS: "linux", Arch: "amd64", Distro: "ubuntu", Version: "22.04"},
			want: "linux/amd64 (ubuntu 22.04)",
		},
		{
			name: "distro without version",
			info: &Info{OS: "linux", Arch: "amd64", Distro: "arch"},
			want: "linux/amd64 (arch)",
		},
		{
			name: "with hostname",
			info: &Info{OS: "linux", Arch: "arm64", Hostname: "devbox"},
			want: "devbox linux/arm64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Describe(); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOSPredicates(t *testing.T) {
	linux := &Info{OS: "linux"}
	if !linux.IsLinux() || linux.IsMacOS() || linux.IsWindows() {
		t.Errorf("predicates for linux = %v/%v/%v, want true/false/false",
			linux.IsLinux(), linux.IsMacOS(), linux.IsWindows())
	}

	darwin := &Info{OS: "darwin"}
	if darwin.IsLinux() || !darwin.IsMacOS() || darwin.IsWindows() {
		t.Errorf("predicates for darwin = %v/%v/%v, want false/true/false",
			darwin.IsLinux(), darwin.IsMacOS(), darwin.IsWindows())
	}
}

package platform

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
)

// ErrUnsupported is returned when a host identifier has no Go toolchain equivalent.
var ErrUnsupported = errors.New("unsupported host")

// Platforms maps host platform identifiers to GOOS values.
// Keys follow the naming used by python's sys.platform, plus the GOOS names themselves.
var Platforms = map[string]string{
	"darwin":  "darwin",
	"linux":   "linux",
	"win32":   "windows",
	"windows": "windows",
}

// Architectures maps host machine identifiers, as reported by uname or the
// windows environment, to GOARCH values.
var Architectures = map[string]string{
	"x86_64":  "amd64",
	"AMD64":   "amd64",
	"amd64":   "amd64",
	"arm64":   "arm64",
	"ARM64":   "arm64",
	"aarch64": "arm64",
	"x86":     "386",
	"i386":    "386",
	"i686":    "386",
	"s390x":   "s390x",
	"ppc64le": "ppc64le",
}

// Target is the platform/architecture pair a binary is compiled for.
type Target struct {
	GOOS   string
	GOARCH string
}

func (t Target) String() string {
	return t.GOOS + "/" + t.GOARCH
}

// Extension is the executable file extension for the target.
func (t Target) Extension() string {
	if t.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// BinaryName mangles version, platform and architecture into the name the
// binary is staged with, e.g. hugo-0.124.1-linux-amd64.
func (t Target) BinaryName(version string) string {
	return fmt.Sprintf("hugo-%s-%s-%s%s", version, t.GOOS, t.GOARCH, t.Extension())
}

// Pattern is a glob matching staged binaries for the target regardless of version.
func (t Target) Pattern() string {
	return fmt.Sprintf("hugo-*-%s-%s%s", t.GOOS, t.GOARCH, t.Extension())
}

// LookupPlatform translates a host platform identifier into a GOOS value.
func LookupPlatform(id string) (string, error) {
	goos, ok := Platforms[id]
	if !ok {
		return "", fmt.Errorf("%w: platform %q", ErrUnsupported, id)
	}
	return goos, nil
}

// LookupArch translates a host machine identifier into a GOARCH value.
func LookupArch(id string) (string, error) {
	goarch, ok := Architectures[id]
	if !ok {
		return "", fmt.Errorf("%w: architecture %q", ErrUnsupported, id)
	}
	return goarch, nil
}

// Lookup translates a host into a target.
func Lookup(h Host) (Target, error) {
	goos, err := LookupPlatform(h.Platform)
	if err != nil {
		return Target{}, err
	}

	goarch, err := LookupArch(h.Machine)
	if err != nil {
		return Target{}, err
	}

	return Target{GOOS: goos, GOARCH: goarch}, nil
}

// HostTarget returns the target matching the machine this code runs on.
func HostTarget() (Target, error) {
	h, err := DetectHost()
	if err != nil {
		return Target{}, err
	}
	return Lookup(h)
}

// Host identifies the machine by its own naming scheme.
type Host struct {
	// Platform is darwin, linux or win32.
	Platform string
	// Machine is the hardware name, e.g. x86_64, aarch64, AMD64.
	Machine string
}

// DetectHost inspects the running system.
func DetectHost() (Host, error) {
	id := runtime.GOOS
	if id == "windows" {
		id = "win32"
	}

	machine, err := machine()
	if err != nil {
		return Host{}, fmt.Errorf("failed to detect machine: %w", err)
	}

	// a 32-bit process on 64-bit windows still reports the 64-bit machine,
	// but only a 32-bit binary can be launched from a 32-bit install.
	if id == "win32" && runtime.GOARCH == "386" {
		machine = "x86"
	}

	return Host{Platform: id, Machine: machine}, nil
}

// Mapping pairs a host with the target it translates to.
type Mapping struct {
	Host   Host
	Target Target
}

// Supported lists every known host identifier pair with its target, sorted by host.
func Supported() []Mapping {
	var rows []Mapping
	for pid, goos := range Platforms {
		// same target as win32, listed once
		if pid == "windows" {
			continue
		}
		for mid, goarch := range Architectures {
			rows = append(rows, Mapping{
				Host:   Host{Platform: pid, Machine: mid},
				Target: Target{GOOS: goos, GOARCH: goarch},
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Host.Platform != rows[j].Host.Platform {
			return rows[i].Host.Platform < rows[j].Host.Platform
		}
		return rows[i].Host.Machine < rows[j].Host.Machine
	})

	return rows
}

package platform

import (
	"fmt"
	"strings"
)

// WheelTag is the compatibility tag triple of a binary wheel.
type WheelTag struct {
	Python   string
	ABI      string
	Platform string
}

// String renders the tag as it appears in a wheel filename.
func (t WheelTag) String() string {
	return t.Python + "-" + t.ABI + "-" + t.Platform
}

// BasePlatformTag returns the platform tag a wheel builder assigns to wheels
// built on the given host, before any cross compilation adjustments.
func BasePlatformTag(h Host) (string, error) {
	goos, err := LookupPlatform(h.Platform)
	if err != nil {
		return "", err
	}

	goarch, err := LookupArch(h.Machine)
	if err != nil {
		return "", err
	}

	switch goos {
	case "darwin":
		if goarch == "arm64" {
			return "macosx_11_0_arm64", nil
		}
		return "macosx_10_9_" + normalize(h.Machine), nil

	case "linux":
		return "linux_" + normalize(h.Machine), nil

	case "windows":
		switch goarch {
		case "amd64":
			return "win_amd64", nil
		case "386":
			return "win32", nil
		case "arm64":
			return "win_arm64", nil
		}
	}

	return "", fmt.Errorf("%w: no platform tag for %s/%s", ErrUnsupported, h.Platform, h.Machine)
}

// Tag computes the wheel tag for a binary compiled for goarch on a host whose
// wheel builder reports base as platform tag.
//
// The binary is self contained, so any python 3 without ABI constraints can
// install it. Only the platform part changes, to describe the compiled binary
// instead of the build host:
//   - darwin: arm64 binaries replace x86_64/universal2 and bump 10_9 to 11_0
//     (except under cibuildwheel, which already does it); amd64 binaries
//     replace arm64/universal2.
//   - linux: arm64 binaries built on x86_64 get aarch64.
//   - windows: arm64 binaries replace amd64, 386 binaries turn win_amd64 into win32.
func Tag(platform, base, goarch string, cibuildwheel bool) (WheelTag, error) {
	goos, err := LookupPlatform(platform)
	if err != nil {
		return WheelTag{}, err
	}

	tag := base

	switch goos {
	case "darwin":
		switch {
		case goarch == "arm64" && (strings.Contains(tag, "x86_64") || strings.Contains(tag, "universal2")):
			tag = strings.NewReplacer("x86_64", "arm64", "universal2", "arm64").Replace(tag)
			if !cibuildwheel && strings.Contains(tag, "10_9") {
				tag = strings.ReplaceAll(tag, "10_9", "11_0")
			}

		case goarch == "amd64" && (strings.Contains(tag, "arm64") || strings.Contains(tag, "universal2")):
			tag = strings.NewReplacer("arm64", "x86_64", "universal2", "x86_64").Replace(tag)
		}

	case "linux":
		if goarch == "arm64" && strings.Contains(tag, "x86_64") {
			tag = strings.ReplaceAll(tag, "x86_64", "aarch64")
		}

	case "windows":
		if goarch == "arm64" && strings.Contains(tag, "amd64") {
			tag = strings.ReplaceAll(tag, "amd64", "arm64")
		}
		if goarch == "386" {
			tag = strings.ReplaceAll(tag, "win_amd64", "win32")
		}
	}

	return WheelTag{Python: "py3", ABI: "none", Platform: tag}, nil
}

const (
	manylinuxX86_64  = "manylinux_2_17_x86_64.manylinux2014_x86_64"
	manylinuxAarch64 = "manylinux_2_17_aarch64.manylinux2014_aarch64"
)

// ManylinuxName rewrites the filename of a linux wheel to carry the manylinux
// 2014 tag. The binaries link against glibc, so this is a claim about the build
// environment rather than something verified here.
// Returns false for wheels that are neither x86_64 nor aarch64.
func ManylinuxName(wheel string) (string, bool) {
	var tag string
	switch {
	case strings.Contains(wheel, "x86_64"):
		tag = manylinuxX86_64
	case strings.Contains(wheel, "aarch64"):
		tag = manylinuxAarch64
	default:
		return "", false
	}

	if strings.Contains(wheel, "manylinux") {
		return wheel, true
	}

	return strings.NewReplacer("linux_x86_64", tag, "linux_aarch64", tag).Replace(wheel), true
}

func normalize(s string) string {
	return strings.NewReplacer("-", "_", ".", "_").Replace(s)
}

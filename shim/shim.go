// Package shim hands the command line over to the hugo binary staged in the
// python package, replacing the current process where the platform allows it.
package shim

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/mod/semver"

	"github.com/aexvir/hugodist/platform"
	"github.com/aexvir/hugodist/release"
)

// HomeEnv overrides the package directory the binaries are looked up in.
const HomeEnv = "HUGODIST_HOME"

// BundledVersion is used when the package carries no VERSION file.
// Can be set at link time with -X.
var BundledVersion = release.DefaultVersion

var (
	stdout   io.Writer = os.Stdout
	execFunc           = execve
)

// Binary is a staged hugo binary.
type Binary struct {
	Path    string
	Version string
}

// Locate finds the binary of version for target inside pkgdir. If that exact
// version isn't staged, the highest staged version for the target is used.
func Locate(pkgdir, version string, target platform.Target) (Binary, error) {
	dir := filepath.Join(pkgdir, "binaries")

	exact := filepath.Join(dir, target.BinaryName(version))
	if info, err := os.Stat(exact); err == nil && !info.IsDir() {
		return Binary{Path: exact, Version: version}, nil
	}

	candidates, err := filepath.Glob(filepath.Join(dir, target.Pattern()))
	if err != nil {
		return Binary{}, err
	}

	var best Binary
	for _, candidate := range candidates {
		found := versionOf(filepath.Base(candidate), target)
		if !semver.IsValid("v" + found) {
			continue
		}
		if best.Path == "" || semver.Compare("v"+found, "v"+best.Version) > 0 {
			best = Binary{Path: candidate, Version: found}
		}
	}

	if best.Path == "" {
		return Binary{}, fmt.Errorf("no hugo binary for %s in %s: %w", target, dir, fs.ErrNotExist)
	}

	return best, nil
}

// versionOf extracts the version out of a mangled binary name.
func versionOf(name string, target platform.Target) string {
	suffix := fmt.Sprintf("-%s-%s%s", target.GOOS, target.GOARCH, target.Extension())
	return strings.TrimSuffix(strings.TrimPrefix(name, "hugo-"), suffix)
}

// Version returns the version recorded in the VERSION file of pkgdir.
func Version(pkgdir string) string {
	data, err := os.ReadFile(filepath.Join(pkgdir, "VERSION"))
	if err != nil {
		return BundledVersion
	}

	version := strings.TrimSpace(string(data))
	if version == "" {
		return BundledVersion
	}

	return version
}

// Home is the package directory: the one holding the running executable,
// unless overridden through [HomeEnv].
func Home() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return filepath.Abs(home)
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate the running executable: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", err
	}

	return filepath.Dir(exe), nil
}

// Run replaces the current process with the staged hugo binary, passing args
// along. On success it only returns on platforms that can't replace processes,
// after the binary exited cleanly.
func Run(args []string) error {
	home, err := Home()
	if err != nil {
		return err
	}

	target, err := platform.HostTarget()
	if err != nil {
		return err
	}

	bin, err := Locate(home, Version(home), target)
	if err != nil {
		return err
	}

	color.New(color.FgMagenta).Fprintf(stdout, "Running Hugo %s via %s at %s\n", bin.Version, release.DefaultVendor, bin.Path)

	return execFunc(bin.Path, append([]string{"hugo"}, args...))
}

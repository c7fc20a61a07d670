package toolchain

import (
	"context"
	"fmt"
	"go/version"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// RequiredGo reads the minimum go version declared by the module in dir.
// A module without go directive requires nothing.
func RequiredGo(dir string) (string, error) {
	path := filepath.Join(dir, "go.mod")

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	gomod, err := modfile.ParseLax(path, data, nil)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if gomod.Go == nil {
		return "", nil
	}

	return gomod.Go.Version, nil
}

// InstalledGo returns the version of the go toolchain on PATH, e.g. go1.22.1.
func InstalledGo(ctx context.Context) (string, error) {
	out, err := Go.Probe(ctx)
	if err != nil {
		return "", err
	}

	return parseGoVersion(out)
}

// parseGoVersion extracts the version from the output of go version,
// e.g. "go version go1.22.1 linux/amd64".
func parseGoVersion(out string) (string, error) {
	for _, field := range strings.Fields(out) {
		if version.IsValid(field) {
			return field, nil
		}
	}
	return "", fmt.Errorf("unrecognized go version output: %q", out)
}

// CheckGoVersion fails if the installed go toolchain is older than the one
// required by the module in dir.
func CheckGoVersion(ctx context.Context, dir string) error {
	required, err := RequiredGo(dir)
	if err != nil {
		return err
	}
	if required == "" {
		return nil
	}

	installed, err := InstalledGo(ctx)
	if err != nil {
		return err
	}

	return compareGo(installed, "go"+required)
}

func compareGo(installed, required string) error {
	if version.Compare(installed, required) < 0 {
		return fmt.Errorf("%s is too old, the sources require %s or newer", installed, required)
	}
	return nil
}

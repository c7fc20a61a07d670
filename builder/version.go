package builder

import (
	"fmt"
	"os"
	"path/filepath"
)

// VersionFile is read by the shim at run time to find the matching binary.
const VersionFile = "VERSION"

// WriteVersion records the version being built in the package directory.
func WriteVersion(pkgdir, version string) error {
	if err := os.MkdirAll(pkgdir, 0o755); err != nil {
		return fmt.Errorf("failed to create package folder %s: %w", pkgdir, err)
	}

	path := filepath.Join(pkgdir, VersionFile)
	if err := os.WriteFile(path, []byte(version+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

package builder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Stage renames the compiled binary to name and moves it into dir, replacing
// any previous binary with the same name. Returns the staged path.
func Stage(output, dir, name string) (string, error) {
	if _, err := os.Stat(output); err != nil {
		return "", fmt.Errorf("compiled binary not found: %w", err)
	}

	// mangle the name next to the output first, the same way the binary is
	// named inside the package
	renamed := filepath.Join(filepath.Dir(output), name)
	if err := os.Rename(output, renamed); err != nil {
		return "", fmt.Errorf("failed to rename %s: %w", output, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create destination folder %s: %w", dir, err)
	}

	staged := filepath.Join(dir, name)
	if err := os.Remove(staged); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to replace %s: %w", staged, err)
	}

	if err := move(renamed, staged); err != nil {
		return "", err
	}

	return staged, nil
}

// move renames src to dst, falling back to copy and delete when they live on
// different devices.
func move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}

	return os.Remove(src)
}

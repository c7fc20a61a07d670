//go:build unix

package shim

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func execve(path string, argv []string) error {
	if err := unix.Exec(path, argv, os.Environ()); err != nil {
		return fmt.Errorf("failed to exec %s: %w", path, err)
	}
	return nil
}

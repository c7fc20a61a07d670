//go:build windows

package platform

import (
	"errors"
	"os"
)

// machine reports the processor architecture of the OS, not of the process.
// PROCESSOR_ARCHITEW6432 is only set for 32-bit processes on a 64-bit OS.
func machine() (string, error) {
	if arch := os.Getenv("PROCESSOR_ARCHITEW6432"); arch != "" {
		return arch, nil
	}
	if arch := os.Getenv("PROCESSOR_ARCHITECTURE"); arch != "" {
		return arch, nil
	}
	return "", errors.New("PROCESSOR_ARCHITECTURE is not set")
}

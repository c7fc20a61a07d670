//go:build unix

package platform

import (
	"golang.org/x/sys/unix"
)

// machine reports the hardware name the same way uname -m does.
func machine() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", err
	}
	return unix.ByteSliceToString(uts.Machine[:]), nil
}

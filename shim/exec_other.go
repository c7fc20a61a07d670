//go:build !unix

package shim

import (
	"os"
	"os/exec"
)

// execve runs the binary as a child process, there is no exec on these
// platforms. A non zero exit surfaces as an *exec.ExitError.
func execve(path string, argv []string) error {
	cmd := exec.Command(path, argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

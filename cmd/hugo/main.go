// Command hugo runs the hugo binary bundled with the python package.
package main

import (
	"errors"
	"os"
	"os/exec"

	"github.com/fatih/color"

	"github.com/aexvir/hugodist/shim"
)

func main() {
	err := shim.Run(os.Args[1:])
	if err == nil {
		return
	}

	var exit *exec.ExitError
	if errors.As(err, &exit) {
		os.Exit(exit.ExitCode())
	}

	color.New(color.FgRed).Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

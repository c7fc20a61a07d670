// Package toolchain verifies the external tools needed to compile hugo from source
// are installed: the go toolchain, a C compiler for cgo, and git for fetching
// modules from VCS hosts.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/aexvir/hugodist"
)

// ErrMissingTool is returned when a required executable is not installed.
var ErrMissingTool = errors.New("missing build tool")

// Tool is an executable probed with a version command.
type Tool struct {
	Name string
	Args []string
}

// Requirement is satisfied by any of its tools, tried in order.
type Requirement struct {
	Tools []Tool
	Hint  string
}

var (
	Go = Requirement{
		Tools: []Tool{{Name: "go", Args: []string{"version"}}},
		Hint:  "Go toolchain not found. Please install Go from https://go.dev/dl/ or your package manager.",
	}
	// C is needed because hugo extended is built with cgo.
	C = Requirement{
		Tools: []Tool{
			{Name: "gcc", Args: []string{"--version"}},
			{Name: "clang", Args: []string{"--version"}},
		},
		Hint: "GCC/Clang not found. Please install GCC or Clang via your package manager.",
	}
	Git = Requirement{
		Tools: []Tool{{Name: "git", Args: []string{"--version"}}},
		Hint:  "Git not found. Please install Git from https://git-scm.com/downloads or your package manager.",
	}
)

// Check probes every requirement in order and fails on the first one that
// is not met. Only missing executables fall through to the next alternative;
// a tool that is installed but fails to run is reported as is.
func Check(ctx context.Context, requirements ...Requirement) error {
	if len(requirements) == 0 {
		requirements = []Requirement{Go, C, Git}
	}

	for _, req := range requirements {
		if _, err := req.Probe(ctx); err != nil {
			return err
		}
	}

	return nil
}

// Probe returns the first line of the version output of the first tool
// of the requirement that is installed.
func (r Requirement) Probe(ctx context.Context) (string, error) {
	for _, tool := range r.Tools {
		out, err := hugodist.Output(ctx, tool.Name, hugodist.WithArgs(tool.Args...))
		if errors.Is(err, exec.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to run %s %s: %w", tool.Name, strings.Join(tool.Args, " "), err)
		}

		line, _, _ := strings.Cut(out, "\n")
		hugodist.LogDetail(strings.TrimSpace(line))
		return line, nil
	}

	return "", fmt.Errorf("%w: %s", ErrMissingTool, r.Hint)
}

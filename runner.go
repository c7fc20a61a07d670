package hugodist

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Command holds the metadata for an external command.
type Command struct {
	Executable string
	Arguments  []string

	cmd    *exec.Cmd
	errmsg string
	quiet  bool
}

// Cmd builds a external command for a specific executable.
// Executables given as relative paths are resolved against the current
// directory, so that [WithDir] only affects where the command runs.
func Cmd(ctx context.Context, executable string, opts ...CommandOpt) (*Command, error) {
	executable = resolve(executable)

	cmd := exec.CommandContext(ctx, executable)

	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	r := Command{
		Executable: executable,
		cmd:        cmd,
	}

	for _, opt := range opts {
		err := opt(&r)
		if err != nil {
			return nil, err
		}
	}

	cmd.Args = append([]string{executable}, r.Arguments...)

	return &r, nil
}

// Exec runs the command returning its error and pretty printing the error message.
func (r *Command) Exec() (err error) {
	start := time.Now()
	defer func() {
		if r.quiet {
			return
		}
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			color.Red("     ✘ %s", elapsed)
			return
		}
		color.Green("     ✔ %s", elapsed)
	}()

	if !r.quiet {
		LogDetail(strings.TrimSpace(fmt.Sprint(filepath.Base(r.Executable), " ", strings.Join(r.Arguments, " "))))
	}

	err = r.cmd.Run()

	if err != nil {
		if !r.quiet && r.errmsg != "" {
			color.Red(r.errmsg)
		}
		return fmt.Errorf("%s: %w", filepath.Base(r.Executable), err)
	}

	return nil
}

// Run is a helper function to build and execute a command in one go.
func Run(ctx context.Context, program string, opts ...CommandOpt) error {
	rnr, err := Cmd(ctx, program, opts...)
	if err != nil {
		return err
	}

	return rnr.Exec()
}

// Output runs a command quietly and returns its trimmed stdout.
func Output(ctx context.Context, program string, opts ...CommandOpt) (string, error) {
	var out strings.Builder

	opts = append(opts, WithoutNoise(), WithStdOut(&out))
	if err := Run(ctx, program, opts...); err != nil {
		return "", err
	}

	return strings.TrimSpace(out.String()), nil
}

// resolve turns the executable into an absolute path when possible.
// Bare names are looked up in PATH; names that can't be found are left
// untouched so the error surfaces when the command runs.
func resolve(executable string) string {
	if filepath.IsAbs(executable) {
		return executable
	}

	if strings.ContainsRune(executable, filepath.Separator) || strings.ContainsRune(executable, '/') {
		if abs, err := filepath.Abs(executable); err == nil {
			return abs
		}
		return executable
	}

	if path, err := exec.LookPath(executable); err == nil {
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}

	return executable
}

// CommandOpt allows customizing the behavior of the external command.
type CommandOpt func(r *Command) error

// WithEnv sets up environment variables for the command on top of the
// current process environment. Later values override earlier ones.
func WithEnv(vars ...string) CommandOpt {
	return func(r *Command) error {
		if r.cmd.Env == nil {
			r.cmd.Env = os.Environ()
		}
		for _, vrb := range vars {
			name, _, ok := strings.Cut(vrb, "=")
			if !ok || name == "" {
				return fmt.Errorf("invalid env format; %s doesn't match NAME=value expectation", vrb)
			}
			r.cmd.Env = append(r.cmd.Env, vrb)
		}
		return nil
	}
}

// WithArgs command arguments.
func WithArgs(args ...string) CommandOpt {
	return func(r *Command) error {
		r.Arguments = args
		return nil
	}
}

// WithErrMsg sets a message to be printed when the command fails.
func WithErrMsg(msg string) CommandOpt {
	return func(r *Command) error {
		r.errmsg = msg
		return nil
	}
}

// WithDir sets the directory where the command should be run inside.
func WithDir(dir string) CommandOpt {
	return func(r *Command) error {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("failed to resolve dir %s: %w", dir, err)
		}
		r.cmd.Dir = abs
		return nil
	}
}

// WithoutNoise silences all output for the command; useful when handling that on the caller side.
func WithoutNoise() CommandOpt {
	return func(r *Command) error {
		r.quiet = true
		r.cmd.Stdout = nil
		r.cmd.Stderr = nil

		return nil
	}
}

// WithStdOut set up stdout writer.
func WithStdOut(w io.Writer) CommandOpt {
	return func(r *Command) error {
		r.cmd.Stdout = w
		return nil
	}
}

package hugodist

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
}

func TestWithDirRelativePath(t *testing.T) {
	skipOnWindows(t)

	tmpdir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpdir, "bin"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpdir, "hugo_cache"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpdir, "bin", "fake-go"), []byte("#!/bin/sh\necho ok\n"), 0o755))

	t.Chdir(tmpdir)

	runner, err := Cmd(context.Background(), "bin/fake-go", WithDir("hugo_cache"))
	require.NoError(t, err)

	// the executable is resolved relative to the caller, not to the command dir
	assert.Equal(t, filepath.Join(tmpdir, "bin", "fake-go"), runner.Executable)
	assert.Equal(t, filepath.Join(tmpdir, "bin", "fake-go"), runner.cmd.Path)
	assert.Equal(t, filepath.Join(tmpdir, "hugo_cache"), runner.cmd.Dir)
}

func TestWithDirAbsolutePath(t *testing.T) {
	skipOnWindows(t)

	runner, err := Cmd(context.Background(), "/bin/echo", WithDir("/tmp"))
	require.NoError(t, err)

	assert.Equal(t, "/bin/echo", runner.Executable)
	assert.Equal(t, "/tmp", runner.cmd.Dir)
}

func TestCmdResolvesFromPath(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	runner, err := Cmd(context.Background(), "echo")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(runner.Executable), "expected absolute path, got %q", runner.Executable)
	assert.Empty(t, runner.cmd.Dir)
}

func TestCmdUnknownExecutable(t *testing.T) {
	err := Run(context.Background(), "hugodist-definitely-missing-binary", WithoutNoise())

	require.Error(t, err)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestRunWithDirExecutes(t *testing.T) {
	skipOnWindows(t)

	tmpdir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpdir, "bin"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpdir, "work"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpdir, "bin", "pwd-script"), []byte("#!/bin/sh\npwd\n"), 0o755))

	t.Chdir(tmpdir)

	out, err := Output(context.Background(), "bin/pwd-script", WithDir("work"))
	require.NoError(t, err)

	resolved, err := filepath.EvalSymlinks(filepath.Join(tmpdir, "work"))
	require.NoError(t, err)
	actual, err := filepath.EvalSymlinks(out)
	require.NoError(t, err)
	assert.Equal(t, resolved, actual)
}

func TestWithEnv(t *testing.T) {
	skipOnWindows(t)

	t.Run("passes values containing equal signs", func(t *testing.T) {
		out, err := Output(
			context.Background(),
			"/bin/sh",
			WithArgs("-c", "echo $LDFLAGS"),
			WithEnv("LDFLAGS=-X pkg.var=value"),
		)
		require.NoError(t, err)
		assert.Equal(t, "-X pkg.var=value", out)
	})

	t.Run("later values win", func(t *testing.T) {
		out, err := Output(
			context.Background(),
			"/bin/sh",
			WithArgs("-c", "echo $GOARCH"),
			WithEnv("GOARCH=amd64"),
			WithEnv("GOARCH=arm64"),
		)
		require.NoError(t, err)
		assert.Equal(t, "arm64", out)
	})

	t.Run("rejects malformed entries", func(t *testing.T) {
		_, err := Cmd(context.Background(), "/bin/sh", WithEnv("GOARCH"))
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "NAME=value"))
	})
}

func TestRunReportsFailures(t *testing.T) {
	skipOnWindows(t)

	err := Run(context.Background(), "/bin/sh", WithArgs("-c", "exit 3"), WithoutNoise())
	require.Error(t, err)

	var exit *exec.ExitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 3, exit.ExitCode())
	assert.Contains(t, err.Error(), "sh:")
}

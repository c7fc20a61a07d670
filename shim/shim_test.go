package shim

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aexvir/hugodist/platform"
)

func stage(t *testing.T, pkgdir string, names ...string) {
	t.Helper()

	dir := filepath.Join(pkgdir, "binaries")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o755))
	}
}

func TestLocate(t *testing.T) {
	linux := platform.Target{GOOS: "linux", GOARCH: "amd64"}

	t.Run("exact version", func(t *testing.T) {
		pkgdir := t.TempDir()
		stage(t, pkgdir, "hugo-0.124.1-linux-amd64", "hugo-0.125.0-linux-amd64")

		bin, err := Locate(pkgdir, "0.124.1", linux)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(pkgdir, "binaries", "hugo-0.124.1-linux-amd64"), bin.Path)
		assert.Equal(t, "0.124.1", bin.Version)
	})

	t.Run("falls back to the highest version", func(t *testing.T) {
		pkgdir := t.TempDir()
		stage(t, pkgdir,
			"hugo-0.99.0-linux-amd64",
			"hugo-0.124.1-linux-amd64",
			"hugo-0.130.0-linux-arm64",
			"hugo-0.124.10-linux-amd64",
		)

		bin, err := Locate(pkgdir, "0.200.0", linux)
		require.NoError(t, err)
		assert.Equal(t, "0.124.10", bin.Version)
	})

	t.Run("windows extension", func(t *testing.T) {
		pkgdir := t.TempDir()
		stage(t, pkgdir, "hugo-0.124.1-windows-amd64.exe")

		bin, err := Locate(pkgdir, "0.124.1", platform.Target{GOOS: "windows", GOARCH: "amd64"})
		require.NoError(t, err)
		assert.Equal(t, "0.124.1", bin.Version)
	})

	t.Run("nothing staged for the target", func(t *testing.T) {
		pkgdir := t.TempDir()
		stage(t, pkgdir, "hugo-0.124.1-linux-arm64")

		_, err := Locate(pkgdir, "0.124.1", linux)
		require.Error(t, err)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestVersion(t *testing.T) {
	pkgdir := t.TempDir()
	assert.Equal(t, BundledVersion, Version(pkgdir))

	require.NoError(t, os.WriteFile(filepath.Join(pkgdir, "VERSION"), []byte("0.125.0\n"), 0o644))
	assert.Equal(t, "0.125.0", Version(pkgdir))

	require.NoError(t, os.WriteFile(filepath.Join(pkgdir, "VERSION"), []byte("  \n"), 0o644))
	assert.Equal(t, BundledVersion, Version(pkgdir))
}

func TestHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	home, err := Home()
	require.NoError(t, err)
	assert.Equal(t, dir, home)

	t.Setenv(HomeEnv, "")
	home, err = Home()
	require.NoError(t, err)
	assert.NotEmpty(t, home)
}

func TestRun(t *testing.T) {
	color.NoColor = true

	target, err := platform.HostTarget()
	require.NoError(t, err)

	pkgdir := t.TempDir()
	stage(t, pkgdir, target.BinaryName("0.124.1"))
	require.NoError(t, os.WriteFile(filepath.Join(pkgdir, "VERSION"), []byte("0.124.1\n"), 0o644))
	t.Setenv(HomeEnv, pkgdir)

	var out bytes.Buffer
	var gotPath string
	var gotArgv []string

	stdout = &out
	execFunc = func(path string, argv []string) error {
		gotPath, gotArgv = path, argv
		return nil
	}
	t.Cleanup(func() {
		stdout = os.Stdout
		execFunc = execve
	})

	require.NoError(t, Run([]string{"server", "--port", "1414"}))

	expected := filepath.Join(pkgdir, "binaries", target.BinaryName("0.124.1"))
	assert.Equal(t, expected, gotPath)
	assert.Equal(t, []string{"hugo", "server", "--port", "1414"}, gotArgv)
	assert.Equal(t, "Running Hugo 0.124.1 via hugo-python-distributions at "+expected+"\n", out.String())

	t.Run("exec failures are returned", func(t *testing.T) {
		boom := errors.New("exec format error")
		execFunc = func(string, []string) error { return boom }

		assert.ErrorIs(t, Run(nil), boom)
	})

	t.Run("missing binary", func(t *testing.T) {
		t.Setenv(HomeEnv, t.TempDir())
		execFunc = func(string, []string) error {
			t.Fatal("nothing should be executed")
			return nil
		}

		assert.ErrorIs(t, Run(nil), fs.ErrNotExist)
	})
}

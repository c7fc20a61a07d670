package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakepath replaces PATH with a directory holding the given scripts.
func fakepath(t *testing.T, scripts map[string]string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}

	dir := t.TempDir()
	for name, body := range scripts {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	}

	t.Setenv("PATH", dir)
}

func TestCheck(t *testing.T) {
	t.Run("all tools present", func(t *testing.T) {
		fakepath(t, map[string]string{
			"go":  "echo go version go1.22.1 linux/amd64",
			"gcc": "echo gcc 13.2.0",
			"git": "echo git version 2.43.0",
		})

		assert.NoError(t, Check(context.Background()))
	})

	t.Run("clang is an alternative to gcc", func(t *testing.T) {
		fakepath(t, map[string]string{
			"go":    "echo go version go1.22.1 linux/amd64",
			"clang": "echo clang version 17",
			"git":   "echo git version 2.43.0",
		})

		assert.NoError(t, Check(context.Background()))
	})

	tests := []struct {
		name    string
		scripts map[string]string
		hint    string
	}{
		{
			name:    "missing go",
			scripts: map[string]string{"gcc": "true", "git": "true"},
			hint:    "Go toolchain not found. Please install Go from https://go.dev/dl/ or your package manager.",
		},
		{
			name:    "missing compiler",
			scripts: map[string]string{"go": "echo go version go1.22.1", "git": "true"},
			hint:    "GCC/Clang not found. Please install GCC or Clang via your package manager.",
		},
		{
			name:    "missing git",
			scripts: map[string]string{"go": "echo go version go1.22.1", "clang": "true"},
			hint:    "Git not found. Please install Git from https://git-scm.com/downloads or your package manager.",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fakepath(t, test.scripts)

			err := Check(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingTool)
			assert.Contains(t, err.Error(), test.hint)
		})
	}

	t.Run("broken tool is not reported as missing", func(t *testing.T) {
		fakepath(t, map[string]string{"go": "exit 2"})

		err := Check(context.Background(), Go)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrMissingTool)
		assert.Contains(t, err.Error(), "failed to run go version")
	})
}

func TestParseGoVersion(t *testing.T) {
	tests := map[string]string{
		"go version go1.22.1 linux/amd64":      "go1.22.1",
		"go version go1.23rc1 darwin/arm64":    "go1.23rc1",
		"go version go1.21.0 windows/386 X:on": "go1.21.0",
	}

	for out, expected := range tests {
		actual, err := parseGoVersion(out)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	}

	_, err := parseGoVersion("command not found")
	assert.Error(t, err)
}

func TestRequiredGo(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "go.mod"),
		[]byte("module github.com/gohugoio/hugo\n\ngo 1.20\n\nrequire github.com/bep/godartsass/v2 v2.0.0\n"),
		0o644,
	))

	required, err := RequiredGo(dir)
	require.NoError(t, err)
	assert.Equal(t, "1.20", required)

	t.Run("no go directive", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/x\n"), 0o644))

		required, err := RequiredGo(dir)
		require.NoError(t, err)
		assert.Empty(t, required)
	})

	t.Run("missing go.mod", func(t *testing.T) {
		_, err := RequiredGo(t.TempDir())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestCheckGoVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module github.com/gohugoio/hugo\n\ngo 1.21\n"), 0o644))

	t.Run("new enough", func(t *testing.T) {
		fakepath(t, map[string]string{"go": "echo go version go1.22.1 linux/amd64"})
		assert.NoError(t, CheckGoVersion(context.Background(), dir))
	})

	t.Run("too old", func(t *testing.T) {
		fakepath(t, map[string]string{"go": "echo go version go1.20.14 linux/amd64"})

		err := CheckGoVersion(context.Background(), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "go1.20.14 is too old")
	})
}

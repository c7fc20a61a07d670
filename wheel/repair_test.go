package wheel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepair(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "wheelhouse")

	wheels := []string{
		"hugo-0.124.1-py3-none-linux_x86_64.whl",
		"hugo-0.124.1-py3-none-linux_aarch64.whl",
		"hugo-0.124.1-py3-none-linux_s390x.whl",
	}
	for _, name := range wheels {
		require.NoError(t, os.WriteFile(filepath.Join(in, name), []byte(name), 0o644))
	}

	report, err := Repair(in, out)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(out, "hugo-0.124.1-py3-none-manylinux_2_17_x86_64.manylinux2014_x86_64.whl"),
		filepath.Join(out, "hugo-0.124.1-py3-none-manylinux_2_17_aarch64.manylinux2014_aarch64.whl"),
	}, report.Repaired)
	assert.Equal(t, []string{filepath.Join(in, "hugo-0.124.1-py3-none-linux_s390x.whl")}, report.Skipped)

	content, err := os.ReadFile(report.Repaired[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "hugo-0.124.1-py3-none-linux_")

	// originals stay in place
	for _, name := range wheels {
		assert.FileExists(t, filepath.Join(in, name))
	}

	t.Run("repairing again replaces the links", func(t *testing.T) {
		again, err := Repair(in, out)
		require.NoError(t, err)
		assert.Len(t, again.Repaired, 2)
	})

	t.Run("repairing in place keeps manylinux wheels", func(t *testing.T) {
		report, err := Repair(out, out)
		require.NoError(t, err)
		assert.Len(t, report.Repaired, 2)
		for _, whl := range report.Repaired {
			assert.FileExists(t, whl)
		}
	})
}

func TestRepairSameDirectoryThroughDifferentPaths(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	name := "hugo-0.124.1-py3-none-manylinux_2_17_x86_64.manylinux2014_x86_64.whl"
	require.NoError(t, os.MkdirAll("dist", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("dist", name), []byte("wheel"), 0o644))

	report, err := Repair("dist", filepath.Join(dir, "dist"))
	require.NoError(t, err)
	require.Len(t, report.Repaired, 1)

	content, err := os.ReadFile(filepath.Join(dir, "dist", name))
	require.NoError(t, err)
	assert.Equal(t, "wheel", string(content))
}

func TestRepairReplacesExistingOutput(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(in, "hugo-0.124.1-py3-none-linux_aarch64.whl"), []byte("new"), 0o644))
	repaired := filepath.Join(out, "hugo-0.124.1-py3-none-manylinux_2_17_aarch64.manylinux2014_aarch64.whl")
	require.NoError(t, os.WriteFile(repaired, []byte("old"), 0o644))

	_, err := Repair(in, out)
	require.NoError(t, err)

	content, err := os.ReadFile(repaired)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
	assert.NoFileExists(t, repaired+".tmp")
}

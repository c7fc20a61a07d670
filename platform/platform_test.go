package platform

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupPlatform(t *testing.T) {
	tests := map[string]string{
		"darwin":  "darwin",
		"linux":   "linux",
		"win32":   "windows",
		"windows": "windows",
	}

	for id, expected := range tests {
		t.Run(id, func(t *testing.T) {
			goos, err := LookupPlatform(id)
			require.NoError(t, err)
			assert.Equal(t, expected, goos)
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		_, err := LookupPlatform("freebsd")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupported)
		assert.Contains(t, err.Error(), `"freebsd"`)
	})
}

func TestLookupArch(t *testing.T) {
	tests := map[string]string{
		"x86_64":  "amd64",
		"AMD64":   "amd64",
		"arm64":   "arm64",
		"aarch64": "arm64",
		"x86":     "386",
		"s390x":   "s390x",
		"ppc64le": "ppc64le",
	}

	for id, expected := range tests {
		t.Run(id, func(t *testing.T) {
			goarch, err := LookupArch(id)
			require.NoError(t, err)
			assert.Equal(t, expected, goarch)
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		_, err := LookupArch("riscv64")
		assert.ErrorIs(t, err, ErrUnsupported)
	})
}

func TestLookup(t *testing.T) {
	target, err := Lookup(Host{Platform: "win32", Machine: "AMD64"})
	require.NoError(t, err)
	assert.Equal(t, Target{GOOS: "windows", GOARCH: "amd64"}, target)

	_, err = Lookup(Host{Platform: "sunos5", Machine: "x86_64"})
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Lookup(Host{Platform: "linux", Machine: "mips"})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestBinaryName(t *testing.T) {
	tests := []struct {
		target   Target
		expected string
	}{
		{Target{"linux", "amd64"}, "hugo-0.124.1-linux-amd64"},
		{Target{"darwin", "arm64"}, "hugo-0.124.1-darwin-arm64"},
		{Target{"windows", "amd64"}, "hugo-0.124.1-windows-amd64.exe"},
		{Target{"windows", "386"}, "hugo-0.124.1-windows-386.exe"},
	}

	for _, test := range tests {
		t.Run(test.target.String(), func(t *testing.T) {
			assert.Equal(t, test.expected, test.target.BinaryName("0.124.1"))
		})
	}

	assert.Equal(t, "hugo-*-windows-arm64.exe", Target{"windows", "arm64"}.Pattern())
}

func TestDetectHost(t *testing.T) {
	host, err := DetectHost()
	require.NoError(t, err)
	assert.NotEmpty(t, host.Machine)

	if runtime.GOOS == "windows" {
		assert.Equal(t, "win32", host.Platform)
	} else {
		assert.Equal(t, runtime.GOOS, host.Platform)
	}

	switch runtime.GOOS {
	case "linux", "darwin":
		target, err := Lookup(host)
		require.NoError(t, err)
		assert.Equal(t, runtime.GOOS, target.GOOS)
	}
}

func TestSupported(t *testing.T) {
	rows := Supported()
	require.NotEmpty(t, rows)

	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1].Host, rows[i].Host
		assert.True(t,
			prev.Platform < cur.Platform || (prev.Platform == cur.Platform && prev.Machine < cur.Machine),
			"rows not sorted at %d", i,
		)
	}

	for _, row := range rows {
		assert.NotEqual(t, "windows", row.Host.Platform)
		target, err := Lookup(row.Host)
		require.NoError(t, err)
		assert.Equal(t, row.Target, target)
	}
}

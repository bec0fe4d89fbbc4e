package adapter

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVersionBinary writes a tiny shell script that prints output to stdout
// when invoked with "--version", mimicking the real adapter's CLI surface.
func fakeVersionBinary(t *testing.T, output string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes are not supported on windows")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-adapter")
	script := "#!/bin/sh\necho '" + output + "'\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func TestCheckVersionParsesSemverLikeOutput(t *testing.T) {
	path := fakeVersionBinary(t, "lldb-dap version 18.1.3")
	version, ok := CheckVersion(path)
	assert.True(t, ok)
	assert.Equal(t, "v18.1.3", version)
}

func TestCheckVersionDegradesGracefullyForNonSemverOutput(t *testing.T) {
	// Leading zeros (08.01.2) are syntactically disallowed by semver, even
	// though the regex happily extracts them as a version-shaped string.
	path := fakeVersionBinary(t, "lldb version 08.01.2")
	version, ok := CheckVersion(path)
	assert.False(t, ok)
	assert.NotEmpty(t, version)
}

func TestCheckVersionUnparseableOutput(t *testing.T) {
	path := fakeVersionBinary(t, "no digits here at all")
	_, ok := CheckVersion(path)
	assert.False(t, ok)
}

func TestCheckVersionMissingBinary(t *testing.T) {
	_, ok := CheckVersion(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.False(t, ok)
}

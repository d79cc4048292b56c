package commands

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runVersion(t *testing.T, version string, args ...string) string {
	t.Helper()
	cmd := NewVersionCommand(version)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestVersionCommand_Full(t *testing.T) {
	out := runVersion(t, "0.3.0")

	assert.Contains(t, out, "lineagesync v0.3.0\n")
	assert.Contains(t, out, runtime.Version())
	assert.Contains(t, out, "revision: ")
	assert.Contains(t, out, "crawlers: postgres, s3, duckdb")
}

func TestVersionCommand_Short(t *testing.T) {
	for _, version := range []string{"0.3.0", "dev"} {
		t.Run(version, func(t *testing.T) {
			assert.Equal(t, version+"\n", runVersion(t, version, "--short"))
		})
	}
}

func TestVCSRevision(t *testing.T) {
	rev := vcsRevision()
	require.NotEmpty(t, rev)
	// Test binaries carry no VCS stamp, but a stamped build is trimmed.
	assert.LessOrEqual(t, len(rev), len("0123456789ab-dirty"))
}

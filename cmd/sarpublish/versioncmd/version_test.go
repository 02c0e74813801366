package versioncmd_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sarpublish.run/cmd/sarpublish/versioncmd"
)

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := versioncmd.NewCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetArgs([]string{"--embedded"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "go go1.")
}

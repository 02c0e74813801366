package deps_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"sarpublish.run/cmd/sarpublish/deps"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	container, err := deps.Build()
	require.NoError(t, err)

	require.NoError(t, container.Invoke(func(cmd *cobra.Command) {
		require.NotNil(t, cmd)
		require.True(t, cmd.HasSubCommands())
	}))
}

package display

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldOutputJSON(t *testing.T) {
	t.Setenv(OutputEnv, "")
	assert.False(t, ShouldOutputJSON(nil))

	cmd := &cobra.Command{Use: "summary"}
	cmd.Flags().Bool("json", false, "")
	assert.False(t, ShouldOutputJSON(cmd))

	t.Setenv(OutputEnv, "JSON")
	assert.True(t, ShouldOutputJSON(cmd))
	assert.True(t, ShouldOutputJSON(&cobra.Command{}), "commands without the flag follow the environment")

	require.NoError(t, cmd.Flags().Set("json", "false"))
	assert.False(t, ShouldOutputJSON(cmd), "an explicit flag wins")
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputJSON(&buf, map[string]int{"total": 2}))
	assert.Equal(t, "{\n  \"total\": 2\n}\n", buf.String())
}

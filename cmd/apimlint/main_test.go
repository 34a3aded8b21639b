package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	root := newRootCommand()
	for _, name := range []string{"lint", "rules"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestNewRootCommand_Version(t *testing.T) {
	t.Parallel()

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})
	require.NoError(t, root.Execute())

	v, _, _ := getVersionInfo()
	assert.Contains(t, out.String(), v)
}

package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-dynaMIX/raiseorlaunch/internal/wm"
)

func TestResolveCommand(t *testing.T) {
	t.Run("explicit exec is taken as is", func(t *testing.T) {
		cmd, err := resolveCommand("qutebrowser --restore", wm.Criteria{Class: "whatever"})
		require.NoError(t, err)
		assert.Equal(t, "qutebrowser --restore", cmd)
	})

	t.Run("falls back to lower-cased class", func(t *testing.T) {
		// "sh" is about the only executable safe to assume on PATH
		cmd, err := resolveCommand("", wm.Criteria{Class: "Sh", Title: "something"})
		require.NoError(t, err)
		assert.Equal(t, "sh", cmd)
	})

	t.Run("class wins over instance and title", func(t *testing.T) {
		cmd, err := resolveCommand("", wm.Criteria{Class: "sh", Instance: "other", Title: "third"})
		require.NoError(t, err)
		assert.Equal(t, "sh", cmd)
	})

	t.Run("fallback must be on PATH", func(t *testing.T) {
		_, err := resolveCommand("", wm.Criteria{Class: "definitely-not-an-executable-anywhere"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not an executable")
	})

	t.Run("no criteria means no executable", func(t *testing.T) {
		_, err := resolveCommand("", wm.Criteria{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no executable provided")
	})
}

func TestRootFlagsAreRegistered(t *testing.T) {
	for _, name := range []string{
		"class", "instance", "title", "exec", "workspace", "target-workspace",
		"scratch", "mark", "event-time-limit", "ignore-case", "cycle",
		"leave-fullscreen", "debug",
	} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "flag --%s missing", name)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

//go:build e2e && unix

package main

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHelpCommand(t *testing.T) {
	t.Parallel()

	// Ensure the test binary exists (it should be built by TestMain)
	if _, err := os.Stat(binPath); os.IsNotExist(err) {
		t.Skip("Test binary not found - TestMain may not have run yet")
	}

	// Run directly, not through the PTY, since it exits quickly
	cmd := exec.Command(binPath, "--help")
	out, _ := cmd.CombinedOutput()

	output := string(out)
	require.Contains(t, output, "-config", "Help should describe the config flag")
	require.Contains(t, output, "-manual", "Help should describe the manual animation flag")
	require.Contains(t, output, "-lines", "Help should describe the lines flag")
}

func TestHelpKeyTogglesFullHelp(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready(), "Should receive ready signal")

	tf.SendKeys(KeyHelp)
	require.True(t, tf.SeePlain("center middle line"), "Full help should list the refresh binding")
}

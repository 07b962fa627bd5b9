package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

const minimalConfig = `data:
  path: data/sales.csv

smtp:
  host: smtp.example.com
  sender: reports@example.com
  recipients:
    - boss@example.com
`

func newProject(t *testing.T, configYAML string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, bizreport.ConfigFileName), []byte(configYAML), 0644))
	return dir
}

// testCommand provides a cobra command carrying the flags buildRunSetup
// inspects, without going through Execute.
func testCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Duration("timeout", 3*time.Minute, "")
	return cmd
}

func TestBuildRunSetup_Defaults(t *testing.T) {
	dir := newProject(t, minimalConfig)

	setup, err := buildRunSetup(testCommand(), dir, runFlagValues{dryRun: true, timeout: 3 * time.Minute})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data/sales.csv"), setup.request.DataPath)
	assert.Equal(t, []string{"boss@example.com"}, setup.request.Recipients)
	assert.True(t, setup.request.DryRun)
	assert.Equal(t, 3*time.Minute, setup.timeout)
	assert.Equal(t, bizreport.DefaultMaxTokens, setup.request.MaxTokens)
}

func TestBuildRunSetup_MissingConfig(t *testing.T) {
	_, err := buildRunSetup(testCommand(), t.TempDir(), runFlagValues{dryRun: true})
	assert.ErrorIs(t, err, bizreport.ErrInvalidConfig)
	assert.ErrorContains(t, err, "bizreport init")
}

func TestBuildRunSetup_FlagOverrides(t *testing.T) {
	dir := newProject(t, minimalConfig)
	abs := filepath.Join(t.TempDir(), "other.csv")

	setup, err := buildRunSetup(testCommand(), dir, runFlagValues{
		dryRun:     true,
		data:       abs,
		recipients: []string{"other@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, abs, setup.request.DataPath)
	assert.Equal(t, []string{"other@example.com"}, setup.request.Recipients)
}

func TestBuildRunSetup_RelativeDataFlagJoinsProject(t *testing.T) {
	dir := newProject(t, minimalConfig)

	setup, err := buildRunSetup(testCommand(), dir, runFlagValues{dryRun: true, data: "q3.csv"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "q3.csv"), setup.request.DataPath)
}

func TestBuildRunSetup_NoDataConfigured(t *testing.T) {
	dir := newProject(t, `smtp:
  host: smtp.example.com
  sender: reports@example.com
`)

	_, err := buildRunSetup(testCommand(), dir, runFlagValues{dryRun: true})
	assert.ErrorIs(t, err, bizreport.ErrInvalidConfig)
}

func TestBuildRunSetup_InvalidRecipientRejectedWhenSending(t *testing.T) {
	dir := newProject(t, `data:
  path: data/sales.csv

smtp:
  host: smtp.example.com
  sender: reports@example.com
  recipients:
    - not-an-email
`)

	_, err := buildRunSetup(testCommand(), dir, runFlagValues{})
	assert.ErrorIs(t, err, bizreport.ErrInvalidRecipient)

	// A dry run renders without recipients, so the same config passes
	_, err = buildRunSetup(testCommand(), dir, runFlagValues{dryRun: true})
	assert.NoError(t, err)
}

func TestBuildRunSetup_TimeoutFromConfig(t *testing.T) {
	dir := newProject(t, minimalConfig+"\ntimeout: 10m\n")

	setup, err := buildRunSetup(testCommand(), dir, runFlagValues{dryRun: true, timeout: 3 * time.Minute})
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, setup.timeout)
}

func TestBuildRunSetup_TimeoutFlagWins(t *testing.T) {
	dir := newProject(t, minimalConfig+"\ntimeout: 10m\n")

	cmd := testCommand()
	require.NoError(t, cmd.Flags().Set("timeout", "30s"))

	setup, err := buildRunSetup(cmd, dir, runFlagValues{dryRun: true, timeout: 30 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, setup.timeout)
}

func TestBuildRunSetup_BadTimeoutInConfig(t *testing.T) {
	dir := newProject(t, minimalConfig+"\ntimeout: whenever\n")

	_, err := buildRunSetup(testCommand(), dir, runFlagValues{dryRun: true})
	assert.ErrorIs(t, err, bizreport.ErrInvalidConfig)
}

func TestBuildRunSetup_ProjectDotEnvLoaded(t *testing.T) {
	dir := newProject(t, minimalConfig)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OPENROUTER_API_KEY=sk-from-dotenv\n"), 0644))
	t.Setenv("OPENROUTER_API_KEY", "")
	os.Unsetenv("OPENROUTER_API_KEY")

	setup, err := buildRunSetup(testCommand(), dir, runFlagValues{dryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "sk-from-dotenv", setup.secrets.OpenRouterAPIKey)
}

func TestNewBackoff_UsesConfiguredDelays(t *testing.T) {
	dir := newProject(t, minimalConfig+`
retry:
  max_retries: 2
  base_delay: 250ms
  max_delay: 1s
`)

	setup, err := buildRunSetup(testCommand(), dir, runFlagValues{dryRun: true})
	require.NoError(t, err)

	strategy := newBackoff(setup.cfg)
	assert.Equal(t, 2, strategy.MaxAttempts())
	// First delay is the base; later delays are capped
	assert.InDelta(t, float64(250*time.Millisecond), float64(strategy.NextDelay(0)), float64(50*time.Millisecond))
	assert.LessOrEqual(t, strategy.NextDelay(10), time.Duration(float64(time.Second)*1.2))
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "schedule", "init", "version"} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}

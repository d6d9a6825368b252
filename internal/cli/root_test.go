package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/wordgen/internal/cli/config"
	"github.com/leapstack-labs/wordgen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommands(t *testing.T) {
	cmd := NewRootCmd()

	want := []string{"generate", "check", "explain", "repl", "watch", "history", "init", "rules", "version", "completion"}
	for _, name := range want {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{"config", "verbose", "output", "log-level", "log-format", "history"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootGenerateEndToEnd(t *testing.T) {
	dir := testutil.SetupProject(t)
	testutil.WriteFile(t, dir, "wordgen.yaml", "output: json\nseed: 21\n")
	t.Chdir(dir)

	stdout, _, err := execute(t, "gen", "cv.yaml", "-n", "2")
	require.NoError(t, err)

	var out struct {
		Seed  uint64   `json:"seed"`
		Words []string `json:"words"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	assert.Equal(t, uint64(21), out.Seed)
	assert.Len(t, out.Words, 2)
}

func TestRootEnvOverridesFile(t *testing.T) {
	dir := testutil.SetupProject(t)
	testutil.WriteFile(t, dir, "wordgen.yaml", "output: json\nseed: 21\n")
	t.Chdir(dir)
	t.Setenv("WORDGEN_SEED", "22")

	stdout, _, err := execute(t, "generate", "cv.yaml", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"seed": 22`)

	// flags win over env
	stdout, _, err = execute(t, "generate", "cv.yaml", "-n", "1", "--seed", "23")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"seed": 23`)
}

func TestRootVerboseLogsToStderr(t *testing.T) {
	dir := testutil.SetupProject(t)
	t.Chdir(dir)

	stdout, stderr, err := execute(t, "generate", "cv.yaml", "-n", "1", "-v", "-o", "csv")
	require.NoError(t, err)
	assert.Contains(t, stderr, "generated batch")
	assert.NotContains(t, stdout, "generated batch")
}

func TestRootInvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := execute(t, "generate", "-p", "a", "-o", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRootVersion(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wordgen v"+Version)

	stdout, _, err = execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "wordgen "+Version+"\n", stdout)
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			stdout, _, err := execute(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, stdout, "wordgen")
		})
	}

	_, _, err := execute(t, "completion", "tcsh")
	require.Error(t, err)
}

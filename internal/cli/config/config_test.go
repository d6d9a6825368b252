package config

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/wordgen/pkg/lint"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to an empty directory so no wordgen.yaml is found.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "wordgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.IntP("count", "n", 0, "")
	flags.Uint64("seed", 0, "")
	flags.Int("max-depth", 0, "")
	flags.StringP("output", "o", "", "")
	flags.String("history", "", "")
	flags.BoolP("verbose", "v", false, "")
	flags.StringP("pattern", "p", "", "")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	dir := chdir(t)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultCount, cfg.Count)
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.False(t, cfg.Save)
	assert.Equal(t, DefaultMinSeverity, cfg.Lint.MinSeverity)
	assert.Equal(t, filepath.Join(dir, DefaultHistoryPath), cfg.HistoryPath)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	dir := chdir(t)
	path := writeConfig(t, dir, `count: 7
seed: 99
max_depth: 10
output: json
history_path: state/runs.db
lint:
  disabled: [WG05]
  severity:
    WG02: error
  min_severity: warning
`)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, 7, cfg.Count)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, 10, cfg.MaxDepth)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, filepath.Join(dir, "state", "runs.db"), cfg.HistoryPath)
	assert.Equal(t, []string{"WG05"}, cfg.Lint.Disabled)
	assert.Equal(t, map[string]string{"WG02": "error"}, cfg.Lint.Severity)
	assert.Equal(t, "warning", cfg.Lint.MinSeverity)
}

func TestLoadConfig_SearchesParentDirectories(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	writeConfig(t, root, "count: 3\n")
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	t.Chdir(sub)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Count)
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, DefaultHistoryPath), cfg.HistoryPath)
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	ResetConfig()
	dir := chdir(t)

	_, err := LoadConfig(filepath.Join(dir, "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Precedence(t *testing.T) {
	ResetConfig()
	dir := chdir(t)
	writeConfig(t, dir, "count: 1\nmax_depth: 5\noutput: csv\n")
	t.Setenv("WORDGEN_COUNT", "2")
	t.Setenv("WORDGEN_MAX_DEPTH", "6")

	flags := newFlags()
	require.NoError(t, flags.Set("count", "3"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Count, "flag should override env and file")
	assert.Equal(t, 6, cfg.MaxDepth, "env should override file")
	assert.Equal(t, "csv", cfg.Output, "file should override defaults")
}

func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	chdir(t)
	t.Setenv("WORDGEN_SEED", "1234")

	cfg, err := LoadConfig("", newFlags())
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), cfg.Seed)
}

func TestLoadConfig_LintFromEnv(t *testing.T) {
	ResetConfig()
	chdir(t)
	t.Setenv("WORDGEN_LINT_MIN_SEVERITY", "error")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Lint.MinSeverity)
}

func TestLoadConfig_HistoryFlagRelativeToCwd(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	writeConfig(t, root, "count: 3\n")
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	t.Chdir(sub)

	flags := newFlags()
	require.NoError(t, flags.Set("history", "h.db"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sub, "h.db"), cfg.HistoryPath)
}

func TestLoadConfig_HistoryExpandsEnv(t *testing.T) {
	ResetConfig()
	dir := chdir(t)
	t.Setenv("WORDGEN_TEST_HOME", dir)
	writeConfig(t, dir, "history_path: ${WORDGEN_TEST_HOME}/runs.db\n")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "runs.db"), cfg.HistoryPath)
}

func TestLoadConfig_UnknownFlagsIgnored(t *testing.T) {
	ResetConfig()
	chdir(t)

	flags := newFlags()
	require.NoError(t, flags.Set("pattern", "{C}{V}"))

	_, err := LoadConfig("", flags)
	require.NoError(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	ResetConfig()
	chdir(t)
	t.Setenv("WORDGEN_COUNT", "0")

	_, err := LoadConfig("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count must be positive")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr string
	}{
		{name: "default", modify: func(*Config) {}},
		{name: "zero count", modify: func(c *Config) { c.Count = 0 }, wantErr: "count"},
		{name: "negative depth", modify: func(c *Config) { c.MaxDepth = -1 }, wantErr: "max_depth"},
		{name: "bad output", modify: func(c *Config) { c.Output = "xml" }, wantErr: "output format"},
		{name: "md alias", modify: func(c *Config) { c.Output = "md" }},
		{name: "bad level", modify: func(c *Config) { c.LogLevel = "loud" }, wantErr: "log_level"},
		{name: "upper level", modify: func(c *Config) { c.LogLevel = "DEBUG" }},
		{name: "bad format", modify: func(c *Config) { c.LogFormat = "xml" }, wantErr: "log_format"},
		{name: "no history", modify: func(c *Config) { c.HistoryPath = " " }, wantErr: "history_path"},
		{name: "unknown rule", modify: func(c *Config) { c.Lint.Disabled = []string{"XX01"} }, wantErr: "unknown rule"},
		{name: "bad severity", modify: func(c *Config) { c.Lint.Severity = map[string]string{"WG01": "fatal"} }, wantErr: "unknown severity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLintConfig_Build(t *testing.T) {
	lc := LintConfig{
		Disabled:    []string{" wg05 "},
		Severity:    map[string]string{"WG02": "error"},
		MinSeverity: "warning",
	}
	cfg, err := lc.Build()
	require.NoError(t, err)

	assert.True(t, cfg.IsDisabled(lint.RuleUnusedDefinition))
	assert.Equal(t, lint.SeverityError, cfg.GetSeverity(lint.RuleUnknownReference, lint.SeverityWarning))
	assert.True(t, cfg.Keeps(lint.SeverityWarning))
	assert.False(t, cfg.Keeps(lint.SeverityInfo))
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_VAR_ONE}", "value_one"},
		{"/path/${TEST_VAR_ONE}/h.db", "/path/value_one/h.db"},
		{"${UNSET_VARIABLE_X}", "${UNSET_VARIABLE_X}"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, expandEnvVars(tt.input), tt.input)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogFormat = "json"

	logger := NewLogger(&buf, cfg)
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "v", rec["k"])

	buf.Reset()
	cfg.LogFormat = "text"
	cfg.Verbose = true
	NewLogger(&buf, cfg).Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := NewLogger(&bytes.Buffer{}, Default())
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

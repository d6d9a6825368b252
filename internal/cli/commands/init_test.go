package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/wordgen/internal/cli/config"
	clitestutil "github.com/leapstack-labs/wordgen/internal/cli/testutil"
	"github.com/leapstack-labs/wordgen/internal/grammar"
	"github.com/leapstack-labs/wordgen/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string) // setup before running
		args      []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name:      "init empty directory",
			wantFiles: []string{"grammars/sample.yaml", "wordgen.yaml", ".gitignore"},
		},
		{
			name:      "init with examples",
			args:      []string{"--example"},
			wantFiles: []string{"grammars/sample.yaml", "grammars/flowing.yaml", "grammars/harsh.yaml", "grammars/weighted.yaml"},
		},
		{
			name: "existing sample without force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "grammars"), 0o750))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "grammars", "sample.yaml"), []byte("pattern: x\n"), 0o600))
			},
			wantErr: true,
		},
		{
			name: "existing sample with force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "grammars"), 0o750))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "grammars", "sample.yaml"), []byte("pattern: x\n"), 0o600))
			},
			args:      []string{"--force"},
			wantFiles: []string{"grammars/sample.yaml", "wordgen.yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			_, _, err := clitestutil.Execute(t, clitestutil.WrapCommand(NewInitCommand()),
				append([]string{"init"}, tt.args...)...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "--force")
				return
			}
			require.NoError(t, err)

			for _, f := range tt.wantFiles {
				assert.FileExists(t, filepath.Join(tmpDir, filepath.FromSlash(f)))
			}
		})
	}
}

func TestInitKeepsExistingConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "wordgen.yaml"), []byte("count: 5\n"), 0o600))

	stdout, _, err := clitestutil.Execute(t, clitestutil.WrapCommand(NewInitCommand()), "init")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "wordgen.yaml")

	content, err := os.ReadFile(filepath.Join(tmpDir, "wordgen.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "count: 5\n", string(content))
}

func TestInitIntoNewDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	_, stderr, err := clitestutil.Execute(t, clitestutil.WrapCommand(NewInitCommand()), "init", "conlang")
	require.NoError(t, err)
	assert.Contains(t, stderr, "wordgen project initialized")
	assert.FileExists(t, filepath.Join(tmpDir, "conlang", "grammars", "sample.yaml"))
	assert.FileExists(t, filepath.Join(tmpDir, "conlang", ".gitignore"))
}

// The generated files must load and pass the checker.
func TestInitCreatesValidProject(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	_, _, err := clitestutil.Execute(t, clitestutil.WrapCommand(NewInitCommand()), "init", "--example")
	require.NoError(t, err)

	cfg, err := config.LoadConfig(filepath.Join(tmpDir, "wordgen.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultCount, cfg.Count)
	assert.Equal(t, filepath.Join(tmpDir, ".wordgen", "history.db"), cfg.HistoryPath)

	for _, name := range []string{"sample", "flowing", "harsh", "weighted"} {
		g, err := grammar.Load(filepath.Join(tmpDir, "grammars", name+".yaml"))
		require.NoError(t, err, name)
		assert.Equal(t, name, g.Name)
		assert.False(t, lint.HasErrors(lint.Check(g.Pattern, g.Definitions)), name)
	}
}

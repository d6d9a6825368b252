package commands

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/leapstack-labs/wordgen/internal/cli/config"
	clitestutil "github.com/leapstack-labs/wordgen/internal/cli/testutil"
	"github.com/leapstack-labs/wordgen/internal/grammar"
	"github.com/leapstack-labs/wordgen/internal/testutil"
	"github.com/leapstack-labs/wordgen/pkg/wordgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runGenerateJSON(t *testing.T, args ...string) generationJSON {
	t.Helper()
	stdout, _, err := clitestutil.Execute(t, clitestutil.WrapCommand(NewGenerateCommand()),
		append([]string{"generate", "-o", "json"}, args...)...)
	require.NoError(t, err)

	var out generationJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	return out
}

func TestGenerate_SeedIsDeterministic(t *testing.T) {
	dir := testutil.SetupProject(t)
	t.Chdir(dir)

	first := runGenerateJSON(t, "cv.yaml", "--seed", "7")
	second := runGenerateJSON(t, "cv.yaml", "--seed", "7")

	assert.Equal(t, first.Words, second.Words)
	assert.Equal(t, uint64(7), first.Seed)
	assert.Equal(t, "cv", first.Grammar)
}

func TestGenerate_ShortBatch(t *testing.T) {
	dir := testutil.SetupProject(t)
	t.Chdir(dir)

	// cv.yaml asks for 10 words but only 6 exist
	_, stderr, err := clitestutil.Execute(t, clitestutil.WrapCommand(NewGenerateCommand()),
		"generate", "cv.yaml", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr, "cv: generated 6 of 10 words after 200 attempts")

	out := runGenerateJSON(t, "cv.yaml", "--seed", "1")
	assert.Equal(t, 10, out.Requested)
	assert.Equal(t, 6, out.Generated)
	assert.Equal(t, 200, out.Attempts)
	assert.True(t, out.Short)
	assert.ElementsMatch(t, []string{"pa", "pi", "ta", "ti", "ka", "ki"}, out.Words)
}

func TestGenerate_CountFlagOverridesGrammar(t *testing.T) {
	dir := testutil.SetupProject(t)
	t.Chdir(dir)

	out := runGenerateJSON(t, "cv.yaml", "-n", "3", "--seed", "5")
	assert.Equal(t, 3, out.Requested)
	assert.Len(t, out.Words, 3)
	assert.False(t, out.Short)
}

func TestGenerate_InlinePattern(t *testing.T) {
	t.Chdir(t.TempDir())

	out := runGenerateJSON(t, "-p", "{C}{V}^ka", "-d", "C=k/t", "-d", "V=a", "-n", "5")
	assert.Equal(t, "pattern", out.Grammar)
	assert.Equal(t, []string{"ta"}, out.Words)
	assert.Positive(t, out.Filtered)
}

func TestGenerate_DefOverridesGrammar(t *testing.T) {
	dir := testutil.SetupProject(t)
	t.Chdir(dir)

	out := runGenerateJSON(t, "cv.yaml", "-d", "C=m", "-d", "V=o", "-n", "1")
	assert.Equal(t, []string{"mo"}, out.Words)
}

func TestGenerate_MultipleGrammars(t *testing.T) {
	dir := testutil.SetupProject(t)
	testutil.WriteFile(t, dir, "single.yaml", "name: single\npattern: \"x{V}\"\ndefinitions:\n  - V: o\n")
	t.Chdir(dir)

	stdout, _, err := clitestutil.Execute(t, clitestutil.WrapCommand(NewGenerateCommand()),
		"generate", "cv.yaml", "single.yaml", "--seed", "40", "-n", "1", "-o", "json")
	require.NoError(t, err)

	var out []generationJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	require.Len(t, out, 2)
	assert.Equal(t, "cv", out[0].Grammar)
	assert.Equal(t, uint64(40), out[0].Seed)
	assert.Equal(t, "single", out[1].Grammar)
	assert.Equal(t, uint64(41), out[1].Seed)
	assert.Equal(t, []string{"xo"}, out[1].Words)
}

func TestGenerate_Markdown(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := clitestutil.Execute(t, clitestutil.WrapCommand(NewGenerateCommand()),
		"generate", "-p", "ab", "-n", "1")
	require.NoError(t, err)
	assert.Equal(t, "- ab\n", stdout)
}

func TestGenerate_CSV(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := clitestutil.Execute(t, clitestutil.WrapCommand(NewGenerateCommand()),
		"generate", "-p", "ab", "-n", "1", "-o", "csv")
	require.NoError(t, err)

	lines := clitestutil.Lines(stdout)
	require.Len(t, lines, 2)
	assert.Equal(t, "grammar,n,word", lines[0])
	assert.Equal(t, "pattern,1,ab", lines[1])
}

func TestGenerate_CSVQuotesFields(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := clitestutil.Execute(t, clitestutil.WrapCommand(NewGenerateCommand()),
		"generate", "-p", `a,b"c`, "-n", "1", "--seed", "1", "-o", "csv")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(stdout)).ReadAll()
	require.NoError(t, err, stdout)
	assert.Equal(t, [][]string{{"grammar", "n", "word"}, {"pattern", "1", `a,b"c`}}, records)
}

func TestGenerate_PrintsRandomSeed(t *testing.T) {
	t.Chdir(testutil.SetupProject(t))

	stdout, stderr, err := clitestutil.Execute(t, clitestutil.WrapCommand(NewGenerateCommand()),
		"generate", "cv.yaml", "-n", "3", "-o", "text")
	require.NoError(t, err)

	var seed uint64
	_, err = fmt.Sscanf(clitestutil.Lines(stderr)[0], "seed %d", &seed)
	require.NoError(t, err, stderr)
	require.NotZero(t, seed)

	replay, replayErr, err := clitestutil.Execute(t, clitestutil.WrapCommand(NewGenerateCommand()),
		"generate", "cv.yaml", "-n", "3", "-o", "text", "--seed", strconv.FormatUint(seed, 10))
	require.NoError(t, err)
	assert.Equal(t, stdout, replay)
	assert.NotContains(t, replayErr, "seed")
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no pattern", []string{}, "no pattern"},
		{"bad definition", []string{"-p", "a", "-d", "nope"}, "NAME=PATTERN"},
		{"missing file", []string{"missing.yaml"}, "missing.yaml"},
		{"recursion", []string{"-p", "{A}", "-d", "A=a{A}", "--max-depth", "4"}, "depth limit"},
		{"zero count", []string{"-p", "a", "-n", "0"}, "count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			_, _, err := clitestutil.Execute(t, clitestutil.WrapCommand(NewGenerateCommand()),
				append([]string{"generate"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBatchCount(t *testing.T) {
	cfg := config.Default()
	cfg.Count = 15

	assert.Equal(t, 15, batchCount(&grammar.Grammar{}, cfg, false))
	assert.Equal(t, 4, batchCount(&grammar.Grammar{Count: 4}, cfg, false))
	assert.Equal(t, 15, batchCount(&grammar.Grammar{Count: 4}, cfg, true))
}

func TestGenerateAll_KeepsOrder(t *testing.T) {
	cfg := config.Default()
	cfg.Count = 1
	grammars := []*grammar.Grammar{
		{Name: "a", Pattern: "a"},
		{Name: "b", Pattern: "b"},
		{Name: "c", Pattern: "{X}", Definitions: []wordgen.Definition{{Name: "X", Pattern: "c"}}},
	}

	results, err := generateAll(context.Background(), grammars, 10, false, cfg, testutil.NewTestLogger(t))
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, want, results[i].Grammar.Name)
		assert.Equal(t, uint64(10+i), results[i].Seed)
		assert.Equal(t, []string{want}, results[i].Batch.Words)
	}
}

func TestResolveSeed(t *testing.T) {
	assert.Equal(t, uint64(9), resolveSeed(9))
	assert.NotZero(t, resolveSeed(0))
}

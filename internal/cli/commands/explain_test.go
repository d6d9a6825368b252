package commands

import (
	"encoding/json"
	"testing"

	clitestutil "github.com/leapstack-labs/wordgen/internal/cli/testutil"
	"github.com/leapstack-labs/wordgen/internal/grammar"
	"github.com/leapstack-labs/wordgen/pkg/wordgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplainGrammar(t *testing.T) {
	g := &grammar.Grammar{
		Name:    "demo",
		Pattern: "a*3/b^x",
		Definitions: []wordgen.Definition{
			{Name: "C", Pattern: "p/t"},
			{Name: "V", Pattern: "a"},
			{Name: "C", Pattern: "k"},
		},
	}

	ex := explainGrammar(g)
	assert.Equal(t, "demo", ex.Grammar)
	assert.Equal(t, []string{"x"}, ex.Filters)

	require.Len(t, ex.Patterns, 3)
	assert.Equal(t, "pattern", ex.Patterns[0].Source)
	assert.Equal(t, "a*3/b", ex.Patterns[0].Pattern)
	assert.Equal(t, []wordgen.Choice{
		{Branch: "a", Weight: 3, Probability: 0.75},
		{Branch: "b", Weight: 1, Probability: 0.25},
	}, ex.Patterns[0].Choices)

	// ordered by each name's effective (last) definition
	assert.Equal(t, "{V}", ex.Patterns[1].Source)
	assert.Equal(t, "{C}", ex.Patterns[2].Source)
	assert.Equal(t, "k", ex.Patterns[2].Pattern)
}

func TestExplainGrammar_NoFilters(t *testing.T) {
	ex := explainGrammar(&grammar.Grammar{Pattern: "a"})
	assert.Equal(t, "pattern", ex.Grammar)
	assert.NotNil(t, ex.Filters)
	assert.Empty(t, ex.Filters)
}

func TestExplainCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := clitestutil.Execute(t, clitestutil.WrapCommand(NewExplainCommand()),
		"explain", "-p", "a*0/b*0", "-o", "json")
	require.NoError(t, err)

	var out explainJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	require.Len(t, out.Patterns, 1)
	// all-zero weights fall back to uniform
	for _, c := range out.Patterns[0].Choices {
		assert.InDelta(t, 0.5, c.Probability, 1e-9)
	}
}

func TestExplainCommand_Table(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := clitestutil.Execute(t, clitestutil.WrapCommand(NewExplainCommand()),
		"explain", "-p", "a*3/^z", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, stdout, "75.0%")
	assert.Contains(t, stdout, "(empty)")
	assert.Contains(t, stdout, `Filters: ["z"]`)
}

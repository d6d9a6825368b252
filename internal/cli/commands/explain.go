package commands

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/wordgen/internal/cli/output"
	"github.com/leapstack-labs/wordgen/internal/grammar"
	"github.com/leapstack-labs/wordgen/pkg/wordgen"
	"github.com/spf13/cobra"
)

// NewExplainCommand creates the explain command.
func NewExplainCommand() *cobra.Command {
	opts := &InputOptions{}
	cmd := &cobra.Command{
		Use:   "explain [grammar.yaml]",
		Short: "Show branch weights and probabilities",
		Long: `Show how each pattern chooses between its top-level branches.

Lists every branch of the main pattern and of each effective definition
with its weight and the probability of being picked. Filters of the main
pattern are listed separately.`,
		Example: `  wordgen explain grammars/sample.yaml
  wordgen explain -p 'a*3/b' -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			grammars, err := opts.loadGrammars(args)
			if err != nil {
				return err
			}
			return renderExplain(cmdCtx.Renderer, explainGrammar(grammars[0]))
		},
	}
	opts.addFlags(cmd)
	return cmd
}

// explanation is the branch breakdown of one pattern.
type explanation struct {
	Source  string           `json:"source"`
	Pattern string           `json:"pattern"`
	Choices []wordgen.Choice `json:"choices"`
}

type explainJSON struct {
	Grammar  string        `json:"grammar"`
	Filters  []string      `json:"filters"`
	Patterns []explanation `json:"patterns"`
}

func explainGrammar(g *grammar.Grammar) explainJSON {
	base, filters := wordgen.SplitFilters(g.Pattern)
	if filters == nil {
		filters = []string{}
	}
	out := explainJSON{
		Grammar: label(g),
		Filters: filters,
		Patterns: []explanation{{
			Source:  "pattern",
			Pattern: base,
			Choices: wordgen.Explain(base),
		}},
	}

	table := wordgen.Merge(g.Definitions)
	emitted := make(map[string]bool, len(table))
	// last occurrence wins, so walk backwards and reverse
	var names []string
	for i := len(g.Definitions) - 1; i >= 0; i-- {
		name := g.Definitions[i].Name
		if !emitted[name] {
			emitted[name] = true
			names = append(names, name)
		}
	}
	for i := len(names) - 1; i >= 0; i-- {
		out.Patterns = append(out.Patterns, explanation{
			Source:  "{" + names[i] + "}",
			Pattern: table[names[i]],
			Choices: wordgen.Explain(table[names[i]]),
		})
	}
	return out
}

func renderExplain(r *output.Renderer, ex explainJSON) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(ex)
	}

	var rows [][]string
	for _, p := range ex.Patterns {
		for _, c := range p.Choices {
			branch := c.Branch
			if branch == "" {
				branch = "(empty)"
			}
			rows = append(rows, []string{
				p.Source,
				branch,
				strconv.Itoa(c.Weight),
				fmt.Sprintf("%.1f%%", c.Probability*100),
			})
		}
	}
	r.Table([]string{"Source", "Branch", "Weight", "Probability"}, rows)

	if len(ex.Filters) > 0 && r.EffectiveMode() != output.ModeCSV {
		r.Println("")
		r.Printf("Filters: %q\n", ex.Filters)
	}
	return nil
}

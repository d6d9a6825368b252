package commands

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"

	"github.com/leapstack-labs/wordgen/internal/cli/config"
	"github.com/leapstack-labs/wordgen/internal/cli/output"
	"github.com/leapstack-labs/wordgen/internal/grammar"
	"github.com/leapstack-labs/wordgen/internal/state"
	"github.com/leapstack-labs/wordgen/pkg/wordgen"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	InputOptions
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}
	cmd := &cobra.Command{
		Use:     "generate [grammar.yaml ...]",
		Aliases: []string{"gen"},
		Short:   "Generate distinct words from a grammar",
		Long: `Generate a batch of distinct words.

The grammar comes from one or more grammar files, from --pattern and --def,
or from a file with flag overrides. Several files are generated
concurrently, each with its own seed (--seed plus the file's position).

The batch may be shorter than --count when the grammar cannot produce
enough distinct words; a warning is printed on stderr.

Output adapts to environment:
  - Terminal: one word per line
  - Piped/Scripted: Markdown list
  - JSON / CSV: machine-readable, including batch statistics`,
		Example: `  # Generate from a grammar file
  wordgen generate grammars/sample.yaml

  # Inline grammar
  wordgen generate -p '{C}{V}({C}{V})^ii' -d C=p/t/k -d V=a/i/u -n 10

  # Reproducible output, saved to history
  wordgen generate sample.yaml --seed 42 --save -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, opts)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().IntP("count", "n", config.DefaultCount, "Number of words to generate")
	cmd.Flags().Uint64("seed", 0, "Random seed (0 picks one)")
	cmd.Flags().Int("max-depth", config.DefaultMaxDepth, "Maximum nesting of {name} references")
	cmd.Flags().Bool("save", false, "Record the run in the history database")

	return cmd
}

// generation is the outcome for one grammar.
type generation struct {
	Grammar *grammar.Grammar
	Seed    uint64
	Batch   *wordgen.Batch
	RunID   string
}

func runGenerate(cmd *cobra.Command, args []string, opts *GenerateOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	grammars, err := opts.loadGrammars(args)
	if err != nil {
		return err
	}

	seed := resolveSeed(cfg.Seed)
	countSet := cmd.Flags().Changed("count")
	results, err := generateAll(cmd.Context(), grammars, seed, countSet, cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}

	if cfg.Save {
		if err := saveRuns(cmd.Context(), cmdCtx, results); err != nil {
			return err
		}
	}

	r := cmdCtx.Renderer
	if cfg.Seed == 0 {
		r.Muted(fmt.Sprintf("seed %d", seed))
	}
	for _, res := range results {
		if res.Batch.Short() {
			r.Warning(fmt.Sprintf("%s: generated %d of %d words after %d attempts",
				label(res.Grammar), len(res.Batch.Words), res.Batch.Requested, res.Batch.Attempts))
		}
	}
	return renderGenerations(r, results)
}

// batchCount picks the batch size: an explicit --count, then the grammar's
// own count, then the configured default.
func batchCount(g *grammar.Grammar, cfg *config.Config, countSet bool) int {
	if !countSet && g.Count > 0 {
		return g.Count
	}
	return cfg.Count
}

// generateAll runs one batch per grammar concurrently. Results keep the
// input order.
func generateAll(ctx context.Context, grammars []*grammar.Grammar, seed uint64, countSet bool, cfg *config.Config, logger *slog.Logger) ([]*generation, error) {
	results := make([]*generation, len(grammars))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, gr := range grammars {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s := seed + uint64(i)
			gen := wordgen.New(gr.Definitions,
				wordgen.WithSeed(s),
				wordgen.WithMaxDepth(cfg.MaxDepth),
				wordgen.WithLogger(logger.With(slog.String("grammar", label(gr)))),
			)
			batch, err := gen.Batch(gr.Pattern, batchCount(gr, cfg, countSet))
			if err != nil {
				return fmt.Errorf("%s: %w", label(gr), err)
			}
			logger.Debug("generated batch",
				slog.String("grammar", label(gr)),
				slog.Uint64("seed", s),
				slog.Int("words", len(batch.Words)),
				slog.Int("attempts", batch.Attempts))
			results[i] = &generation{Grammar: gr, Seed: s, Batch: batch}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func saveRuns(ctx context.Context, cmdCtx *CommandContext, results []*generation) error {
	store, err := cmdCtx.OpenStore()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer func() { _ = store.Close() }()

	for _, res := range results {
		run, err := store.RecordRun(ctx, state.RunInput{
			Grammar:     res.Grammar.Name,
			Pattern:     res.Grammar.Pattern,
			Definitions: res.Grammar.Definitions,
			Seed:        res.Seed,
			Requested:   res.Batch.Requested,
			Attempts:    res.Batch.Attempts,
			Words:       res.Batch.Words,
		})
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		res.RunID = run.ID
		cmdCtx.Renderer.Muted(fmt.Sprintf("saved %s as run %s", label(res.Grammar), run.ID))
	}
	return nil
}

// generationJSON is the machine-readable form of a batch.
type generationJSON struct {
	Grammar    string   `json:"grammar"`
	Pattern    string   `json:"pattern"`
	Seed       uint64   `json:"seed"`
	Requested  int      `json:"requested"`
	Generated  int      `json:"generated"`
	Attempts   int      `json:"attempts"`
	Filtered   int      `json:"filtered"`
	Duplicates int      `json:"duplicates"`
	Short      bool     `json:"short"`
	RunID      string   `json:"run_id,omitempty"`
	Words      []string `json:"words"`
}

func renderGenerations(r *output.Renderer, results []*generation) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		out := make([]generationJSON, len(results))
		for i, res := range results {
			b := res.Batch
			out[i] = generationJSON{
				Grammar:    label(res.Grammar),
				Pattern:    res.Grammar.Pattern,
				Seed:       res.Seed,
				Requested:  b.Requested,
				Generated:  len(b.Words),
				Attempts:   b.Attempts,
				Filtered:   b.Filtered,
				Duplicates: b.Duplicates,
				Short:      b.Short(),
				RunID:      res.RunID,
				Words:      b.Words,
			}
		}
		if len(out) == 1 {
			return r.JSON(out[0])
		}
		return r.JSON(out)

	case output.ModeCSV:
		var rows [][]string
		for _, res := range results {
			for i, w := range res.Batch.Words {
				rows = append(rows, []string{label(res.Grammar), strconv.Itoa(i + 1), w})
			}
		}
		r.Table([]string{"grammar", "n", "word"}, rows)
		return nil

	case output.ModeMarkdown:
		for i, res := range results {
			if i > 0 {
				r.Println("")
			}
			if len(results) > 1 {
				r.Header(label(res.Grammar))
			}
			for _, w := range res.Batch.Words {
				r.Printf("- %s\n", w)
			}
		}
		return nil

	default:
		for i, res := range results {
			if len(results) > 1 {
				if i > 0 {
					r.Println("")
				}
				r.Header(label(res.Grammar))
			}
			for _, w := range res.Batch.Words {
				r.Println(r.Styles().Word.Render(w))
			}
		}
		return nil
	}
}

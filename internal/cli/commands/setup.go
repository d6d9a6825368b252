package commands

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/leapstack-labs/wordgen/internal/cli/config"
	"github.com/leapstack-labs/wordgen/internal/cli/output"
	"github.com/leapstack-labs/wordgen/internal/grammar"
	"github.com/leapstack-labs/wordgen/internal/state"
	"github.com/leapstack-labs/wordgen/pkg/wordgen"
	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the loaded config, logger and a renderer for
// the configured output mode.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// OpenStore opens and migrates the history database. The caller closes it.
func (c *CommandContext) OpenStore() (*state.SQLiteStore, error) {
	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.HistoryPath); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// getConfig returns the loaded configuration, or defaults when a command
// runs without the root command.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// InputOptions are the flags shared by commands that read a grammar.
type InputOptions struct {
	Pattern string
	Defs    []string
}

func (o *InputOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Pattern, "pattern", "p", "", "Main pattern (overrides the grammar file's pattern)")
	cmd.Flags().StringArrayVarP(&o.Defs, "def", "d", nil, "Definition NAME=PATTERN, repeatable; later ones win")
}

// loadGrammars reads each grammar file and applies the --pattern and --def
// overrides. With no files the grammar comes from the flags alone.
func (o *InputOptions) loadGrammars(paths []string) ([]*grammar.Grammar, error) {
	extra := make([]wordgen.Definition, 0, len(o.Defs))
	for _, d := range o.Defs {
		def, err := grammar.ParseDefinitionFlag(d)
		if err != nil {
			return nil, err
		}
		extra = append(extra, def)
	}

	if len(paths) == 0 {
		if o.Pattern == "" {
			return nil, fmt.Errorf("no pattern: pass a grammar file or --pattern")
		}
		return []*grammar.Grammar{{Pattern: norm.NFC.String(o.Pattern), Definitions: extra}}, nil
	}

	grammars := make([]*grammar.Grammar, 0, len(paths))
	for _, path := range paths {
		g, err := grammar.Load(path)
		if err != nil {
			return nil, err
		}
		if o.Pattern != "" {
			g.Pattern = norm.NFC.String(o.Pattern)
		}
		g.Definitions = append(g.Definitions, extra...)
		grammars = append(grammars, g)
	}
	return grammars, nil
}

// resolveSeed returns the configured seed, or a random one when it is 0
// so the run can still be reproduced from its recorded seed.
func resolveSeed(seed uint64) uint64 {
	for seed == 0 {
		seed = rand.Uint64()
	}
	return seed
}

// label names a grammar in output.
func label(g *grammar.Grammar) string {
	if g.Name != "" {
		return g.Name
	}
	return "pattern"
}

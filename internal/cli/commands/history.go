package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/wordgen/internal/cli/output"
	"github.com/leapstack-labs/wordgen/internal/state"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List or show saved generation runs",
		Long: `List runs saved with 'wordgen generate --save', most recent first,
or show one run with its words. A run records the grammar, definitions and
seed, so 'wordgen generate --seed' reproduces it.`,
		Example: `  # Recent runs
  wordgen history

  # One run
  wordgen history 0b6f1c9e-...

  # Delete a run
  wordgen history delete 0b6f1c9e-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			store, err := cmdCtx.OpenStore()
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer func() { _ = store.Close() }()

			if len(args) == 1 {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return renderRun(cmdCtx.Renderer, run)
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return renderRuns(cmdCtx.Renderer, runs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list (0 for all)")
	cmd.AddCommand(newHistoryDeleteCommand())
	return cmd
}

func newHistoryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			store, err := cmdCtx.OpenStore()
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteRun(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmdCtx.Renderer.Success("Deleted run " + args[0])
			return nil
		},
	}
}

func renderRuns(r *output.Renderer, runs []*state.Run) error {
	if r.EffectiveMode() == output.ModeJSON {
		if runs == nil {
			runs = []*state.Run{}
		}
		return r.JSON(runs)
	}
	if len(runs) == 0 && r.EffectiveMode() != output.ModeCSV {
		r.Muted("No saved runs. Use 'wordgen generate --save' to record one.")
		return nil
	}

	rows := make([][]string, len(runs))
	for i, run := range runs {
		words := strconv.Itoa(run.Generated) + "/" + strconv.Itoa(run.Requested)
		rows[i] = []string{
			run.ID,
			run.CreatedAt.Local().Format(time.DateTime),
			run.Grammar,
			run.Pattern,
			strconv.FormatUint(run.Seed, 10),
			words,
		}
	}
	r.Table([]string{"ID", "Created", "Grammar", "Pattern", "Seed", "Words"}, rows)
	return nil
}

func renderRun(r *output.Renderer, run *state.Run) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(run)
	case output.ModeCSV:
		rows := make([][]string, len(run.Words))
		for i, w := range run.Words {
			rows[i] = []string{strconv.Itoa(i + 1), w}
		}
		r.Table([]string{"n", "word"}, rows)
		return nil
	}

	r.Header("Run " + run.ID)
	r.Printf("Created:  %s\n", run.CreatedAt.Local().Format(time.DateTime))
	if run.Grammar != "" {
		r.Printf("Grammar:  %s\n", run.Grammar)
	}
	r.Printf("Pattern:  %s\n", run.Pattern)
	for _, d := range run.Definitions {
		r.Printf("  %s = %s\n", d.Name, d.Pattern)
	}
	r.Printf("Seed:     %d\n", run.Seed)
	r.Printf("Words:    %d of %d in %d attempts\n", run.Generated, run.Requested, run.Attempts)
	r.Println("")
	if r.EffectiveMode() == output.ModeMarkdown {
		for _, w := range run.Words {
			r.Printf("- %s\n", w)
		}
		return nil
	}
	r.Println(strings.Join(run.Words, "\n"))
	return nil
}

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/wordgen/internal/cli/config"
	"github.com/leapstack-labs/wordgen/internal/grammar"
	"github.com/leapstack-labs/wordgen/pkg/lint"
	"github.com/spf13/cobra"
)

// watchDebounce groups the bursts of events editors produce on save.
const watchDebounce = 100 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <grammar.yaml>",
		Short: "Regenerate whenever a grammar file changes",
		Long: `Generate a batch, then generate again every time the grammar file is
saved. Grammars with error-severity findings are reported instead of
generated. Stop with Ctrl+C.`,
		Example: `  wordgen watch grammars/sample.yaml -n 10`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runWatch(ctx, cmd, args[0])
		},
	}
	cmd.Flags().IntP("count", "n", config.DefaultCount, "Number of words to generate")
	cmd.Flags().Uint64("seed", 0, "Random seed (0 picks one per change)")
	cmd.Flags().Int("max-depth", config.DefaultMaxDepth, "Maximum nesting of {name} references")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, path string) error {
	cmdCtx := NewCommandContext(cmd)
	countSet := cmd.Flags().Changed("count")

	regenerate := func() {
		if err := watchIteration(ctx, cmdCtx, path, countSet); err != nil {
			cmdCtx.Renderer.Error(err.Error())
		}
	}

	regenerate()
	return watchFile(ctx, path, cmdCtx.Logger, regenerate)
}

func watchIteration(ctx context.Context, cmdCtx *CommandContext, path string, countSet bool) error {
	g, err := grammar.Load(path)
	if err != nil {
		return err
	}

	lintCfg, err := cmdCtx.Cfg.Lint.Build()
	if err != nil {
		return err
	}
	diags := lint.NewAnalyzer(lintCfg).Check(g.Pattern, g.Definitions)
	if lint.HasErrors(diags) {
		for _, d := range diags {
			if d.Severity == lint.SeverityError {
				cmdCtx.Renderer.Error(d.String())
			}
		}
		return ErrCheckFailed
	}

	results, err := generateAll(ctx, []*grammar.Grammar{g}, resolveSeed(cmdCtx.Cfg.Seed), countSet, cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	r.Muted(fmt.Sprintf("%s %s (seed %d)", time.Now().Format(time.TimeOnly), filepath.Base(path), results[0].Seed))
	return renderGenerations(r, results)
}

// watchFile calls onChange after path is written, created or replaced,
// until ctx is done. The parent directory is watched so editors that save
// by renaming a temporary file are seen.
func watchFile(ctx context.Context, path string, logger *slog.Logger, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	logger.Debug("watching grammar", slog.String("path", abs))

	changed := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("grammar changed", slog.String("op", event.Op.String()))

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})

		case <-changed:
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

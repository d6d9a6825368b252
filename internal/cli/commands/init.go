package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/wordgen/internal/grammar"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a starter grammar and configuration",
		Long: `Initialize a wordgen project.

This creates:
  - grammars/sample.yaml   a small grammar to start from
  - wordgen.yaml           configuration with every setting and its default
  - .gitignore             ignoring the .wordgen/ history directory

Use --example to also add grammars showing weights, optional groups and
filters. Existing files are kept unless --force is given.`,
		Example: `  # Initialize in current directory
  wordgen init

  # Initialize a new directory with example grammars
  wordgen init conlang --example`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(NewCommandContext(cmd), dir, force, example)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Add example grammars")

	return cmd
}

func runInit(cmdCtx *CommandContext, dir string, force, example bool) error {
	r := cmdCtx.Renderer
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	samplePath := filepath.Join(dir, "grammars", "sample.yaml")
	if _, err := os.Stat(samplePath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", samplePath)
	}
	if err := grammar.Save(samplePath, grammar.Sample()); err != nil {
		return err
	}
	created := []string{"grammars/sample.yaml"}

	files, err := copyTemplate("project", dir, force)
	if err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}
	created = append(created, files...)

	if example {
		files, err := copyTemplate("example", dir, force)
		if err != nil {
			return fmt.Errorf("failed to add examples: %w", err)
		}
		created = append(created, files...)
	}

	for _, f := range created {
		r.Println("  " + f)
	}
	r.Println("")
	r.Success("wordgen project initialized")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  wordgen check grammars/sample.yaml")
	r.Println("  wordgen generate grammars/sample.yaml")
	r.Println("  wordgen repl grammars/sample.yaml")

	cmdCtx.Logger.Debug("initialized project", "dir", dir, "files", len(created))
	return nil
}

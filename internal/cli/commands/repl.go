package commands

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/wordgen/internal/cli/output"
	"github.com/leapstack-labs/wordgen/internal/grammar"
	"github.com/leapstack-labs/wordgen/pkg/lint"
	"github.com/leapstack-labs/wordgen/pkg/wordgen"
	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"
)

const replPrompt = "wordgen> "

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl [grammar.yaml]",
		Short: "Try patterns interactively",
		Long: `Start an interactive shell for experimenting with patterns.

Type a pattern to generate words from it using the current definitions.
Lines starting with a dot are commands; type .help to list them.
An optional grammar file preloads definitions and the pattern.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd, args)
		},
	}
	return cmd
}

func runREPL(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	session := newREPLSession(cmdCtx)
	if len(args) > 0 {
		if err := session.load(args[0]); err != nil {
			return err
		}
	}

	// Setup history file next to the history database
	historyFile := filepath.Join(filepath.Dir(cmdCtx.Cfg.HistoryPath), "repl_history")
	if err := os.MkdirAll(filepath.Dir(historyFile), 0o750); err != nil {
		cmdCtx.Logger.Debug("repl history disabled", "error", err)
		historyFile = ""
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    session.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r := cmdCtx.Renderer
	r.Println("wordgen REPL")
	r.Println("Type a pattern to generate words, .help for commands, .quit to exit")
	r.Println("")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if session.handle(line) {
			break
		}
	}
	return nil
}

// replSession holds the state edited by REPL commands.
type replSession struct {
	r        *output.Renderer
	defs     []wordgen.Definition
	pattern  string
	count    int
	maxDepth int
	seed     uint64
	rnd      *rand.Rand
	lint     *lint.Analyzer
}

func newREPLSession(cmdCtx *CommandContext) *replSession {
	cfg := cmdCtx.Cfg
	s := &replSession{
		r:        cmdCtx.Renderer,
		count:    cfg.Count,
		maxDepth: cfg.MaxDepth,
	}
	s.setSeed(cfg.Seed)
	lintCfg, err := cfg.Lint.Build()
	if err != nil {
		lintCfg = nil
	}
	s.lint = lint.NewAnalyzer(lintCfg)
	return s
}

// setSeed restarts the session's random sequence. 0 picks a seed.
func (s *replSession) setSeed(seed uint64) {
	s.seed = resolveSeed(seed)
	s.rnd = wordgen.NewRand(s.seed)
}

func (s *replSession) load(path string) error {
	g, err := grammar.Load(path)
	if err != nil {
		return err
	}
	s.defs = append(s.defs, g.Definitions...)
	s.pattern = g.Pattern
	if g.Count > 0 {
		s.count = g.Count
	}
	return nil
}

// handle runs one input line and reports whether the session should end.
func (s *replSession) handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, ".") {
		s.pattern = norm.NFC.String(line)
		s.generate()
		return false
	}

	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(command) {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.r.Writer())

	case ".def":
		def, err := grammar.ParseDefinitionFlag(arg)
		if err != nil {
			s.r.Error(err.Error())
			return false
		}
		s.defs = append(s.defs, def)

	case ".undef":
		before := len(s.defs)
		s.defs = slices.DeleteFunc(s.defs, func(d wordgen.Definition) bool { return d.Name == arg })
		if len(s.defs) == before {
			s.r.Error(fmt.Sprintf("{%s} is not defined", arg))
		}

	case ".defs":
		s.listDefs()

	case ".load":
		if err := s.load(arg); err != nil {
			s.r.Error(err.Error())
		}

	case ".count":
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			s.r.Error("usage: .count N (N > 0)")
			return false
		}
		s.count = n

	case ".seed":
		if arg == "" {
			s.r.Printf("seed %d\n", s.seed)
			return false
		}
		seed, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			s.r.Error("usage: .seed N")
			return false
		}
		s.setSeed(seed)

	case ".again":
		s.generate()

	case ".explain":
		if arg != "" {
			s.pattern = norm.NFC.String(arg)
		}
		_ = renderExplain(s.r, explainGrammar(s.grammar()))

	case ".check":
		if arg != "" {
			s.pattern = norm.NFC.String(arg)
		}
		diags := s.lint.Check(s.pattern, s.defs)
		if len(diags) == 0 {
			s.r.Success("No issues found")
			return false
		}
		for _, d := range diags {
			s.r.Println(d.String())
		}

	default:
		s.r.Error(fmt.Sprintf("unknown command: %s (type .help for commands)", command))
	}
	return false
}

func (s *replSession) grammar() *grammar.Grammar {
	return &grammar.Grammar{Pattern: s.pattern, Definitions: s.defs}
}

func (s *replSession) generate() {
	if s.pattern == "" {
		s.r.Error("no pattern yet")
		return
	}
	gen := wordgen.New(s.defs, wordgen.WithRand(s.rnd), wordgen.WithMaxDepth(s.maxDepth))
	batch, err := gen.Batch(s.pattern, s.count)
	if err != nil {
		s.r.Error(err.Error())
		return
	}
	s.r.Println(strings.Join(batch.Words, " "))
	if batch.Short() {
		s.r.Warning(fmt.Sprintf("generated %d of %d words after %d attempts",
			len(batch.Words), batch.Requested, batch.Attempts))
	}
}

func (s *replSession) listDefs() {
	if len(s.defs) == 0 {
		s.r.Println("(no definitions)")
		return
	}
	rows := make([][]string, 0, len(s.defs))
	for i, d := range s.defs {
		status := ""
		if slices.ContainsFunc(s.defs[i+1:], func(o wordgen.Definition) bool { return o.Name == d.Name }) {
			status = "overridden"
		}
		rows = append(rows, []string{d.Name, d.Pattern, status})
	}
	s.r.Table([]string{"Name", "Pattern", "Status"}, rows)
}

func (s *replSession) definedNames(string) []string {
	names := make([]string, 0, len(s.defs))
	for name := range wordgen.Merge(s.defs) {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (s *replSession) completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".def"),
		readline.PcItem(".undef", readline.PcItemDynamic(s.definedNames)),
		readline.PcItem(".defs"),
		readline.PcItem(".load"),
		readline.PcItem(".count"),
		readline.PcItem(".seed"),
		readline.PcItem(".again"),
		readline.PcItem(".explain"),
		readline.PcItem(".check"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  <pattern>            Generate words from a pattern
  .def NAME=PATTERN    Add a definition (a later one with the same name wins)
  .undef NAME          Remove every definition of NAME
  .defs                List definitions
  .load FILE           Load definitions and pattern from a grammar file
  .count N             Words per batch
  .seed [N]            Show or set the seed (0 picks one)
  .again               Generate again from the last pattern
  .explain [PATTERN]   Show branch weights
  .check [PATTERN]     Check the pattern and definitions
  .help                Show this help message
  .quit / .exit        Exit the REPL

Tips:
  - Use arrow keys to navigate history
  - Tab completion works for commands and definition names
`
	_, _ = fmt.Fprintln(w, help)
}

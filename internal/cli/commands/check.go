package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/wordgen/internal/cli/output"
	"github.com/leapstack-labs/wordgen/internal/grammar"
	"github.com/leapstack-labs/wordgen/pkg/lint"
	"github.com/spf13/cobra"
)

// ErrCheckFailed is returned when a grammar has error-severity findings.
var ErrCheckFailed = errors.New("grammar check failed")

// CheckOptions holds options for the check command.
type CheckOptions struct {
	InputOptions
	Disable  []string // Rule IDs to disable
	Severity string   // Minimum severity: error, warning, info, hint
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [grammar.yaml ...]",
		Short: "Find mistakes in a grammar",
		Long: `Statically analyze a grammar without generating words.

Reports unclosed brackets, undefined or unused definitions, definitions
that always recurse past the depth limit, choices whose weights are all
zero, empty filters and overridden definitions. Run 'wordgen rules' for
the full list.

Exits non-zero when any finding has error severity.`,
		Example: `  # Check a grammar file
  wordgen check grammars/sample.yaml

  # Check an inline grammar, errors and warnings only
  wordgen check -p '{C}{V}' -d C=p/t --severity warning

  # Ignore unused definitions
  wordgen check sample.yaml --disable WG05`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "", "Minimum severity: error, warning, info, hint")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	grammars, err := opts.loadGrammars(args)
	if err != nil {
		return err
	}

	lintCfg, err := buildLintConfig(cmdCtx, opts)
	if err != nil {
		return err
	}
	analyzer := lint.NewAnalyzer(lintCfg)

	results := make([]checkResult, len(grammars))
	failed := false
	for i, g := range grammars {
		diags := analyzer.Check(g.Pattern, g.Definitions)
		results[i] = checkResult{Grammar: g, Diagnostics: diags}
		failed = failed || lint.HasErrors(diags)
		cmdCtx.Logger.Debug("checked grammar", "grammar", label(g), "diagnostics", len(diags))
	}

	if err := renderCheckResults(r, results); err != nil {
		return err
	}
	if failed {
		return ErrCheckFailed
	}
	return nil
}

// buildLintConfig layers --disable and --severity over the lint section
// of the configuration.
func buildLintConfig(cmdCtx *CommandContext, opts *CheckOptions) (*lint.Config, error) {
	lc := cmdCtx.Cfg.Lint
	lc.Disabled = append(append([]string(nil), lc.Disabled...), opts.Disable...)
	if opts.Severity != "" {
		lc.MinSeverity = opts.Severity
	}
	return lc.Build()
}

type checkResult struct {
	Grammar     *grammar.Grammar
	Diagnostics []lint.Diagnostic
}

type checkJSON struct {
	Grammar     string            `json:"grammar"`
	Path        string            `json:"path,omitempty"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"`
}

// checkSummary counts findings by severity.
type checkSummary struct {
	Errors, Warnings, Info, Hints int
}

func (s *checkSummary) add(d lint.Diagnostic) {
	switch d.Severity {
	case lint.SeverityError:
		s.Errors++
	case lint.SeverityWarning:
		s.Warnings++
	case lint.SeverityInfo:
		s.Info++
	case lint.SeverityHint:
		s.Hints++
	}
}

func (s checkSummary) total() int {
	return s.Errors + s.Warnings + s.Info + s.Hints
}

func (s checkSummary) String() string {
	parts := []string{fmt.Sprintf("%d issues", s.total())}
	if s.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", s.Errors))
	}
	if s.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", s.Warnings))
	}
	if s.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", s.Info))
	}
	if s.Hints > 0 {
		parts = append(parts, fmt.Sprintf("%d hints", s.Hints))
	}
	return strings.Join(parts, ", ")
}

func renderCheckResults(r *output.Renderer, results []checkResult) error {
	if r.EffectiveMode() == output.ModeJSON {
		out := make([]checkJSON, len(results))
		for i, res := range results {
			diags := res.Diagnostics
			if diags == nil {
				diags = []lint.Diagnostic{}
			}
			out[i] = checkJSON{Grammar: label(res.Grammar), Path: res.Grammar.Path, Diagnostics: diags}
		}
		return r.JSON(out)
	}

	var summary checkSummary
	var rows [][]string
	for _, res := range results {
		for _, d := range res.Diagnostics {
			summary.add(d)
			offset := "-"
			if d.Offset >= 0 {
				offset = strconv.Itoa(d.Offset)
			}
			rows = append(rows, []string{label(res.Grammar), d.Source, offset, d.Severity.String(), d.RuleID, d.Message})
		}
	}

	if r.EffectiveMode() == output.ModeCSV {
		r.Table([]string{"grammar", "source", "offset", "severity", "rule", "message"}, rows)
		return nil
	}

	if len(rows) == 0 {
		r.Success("No issues found")
		return nil
	}

	if r.EffectiveMode() == output.ModeText && r.IsTTY() {
		for _, row := range rows {
			row[3] = severityStyle(r, row[3])
		}
	}
	r.Table([]string{"Grammar", "Source", "Offset", "Severity", "Rule", "Message"}, rows)
	r.Printf("\nSummary: %s in %d grammars\n", summary, len(results))
	return nil
}

func severityStyle(r *output.Renderer, sev string) string {
	switch sev {
	case lint.SeverityError.String():
		return r.Styles().Error.Render(sev)
	case lint.SeverityWarning.String():
		return r.Styles().Warning.Render(sev)
	case lint.SeverityInfo.String():
		return r.Styles().Info.Render(sev)
	default:
		return r.Styles().Muted.Render(sev)
	}
}

package commands

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/wordgen/internal/cli/output"
	"github.com/leapstack-labs/wordgen/pkg/lint"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Verbose bool   // Show full documentation
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List the grammar check rules",
		Long: `List the rules run by 'wordgen check' with their default severity.

Rules are grouped by what they inspect: choice, filter, reference and
syntax. Use --verbose or pass a rule ID for rationale and examples.`,
		Example: `  # List all rules
  wordgen rules

  # Show details for a specific rule
  wordgen rules WG03

  # Reference rules only, with documentation
  wordgen rules --group reference -V`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := NewCommandContext(cmd).Renderer
			if len(args) > 0 {
				return showRule(r, args[0])
			}
			return listRules(r, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")

	return cmd
}

// ruleGroup is the part of a rule name before the first dot.
func ruleGroup(rule lint.RuleInfo) string {
	group, _, _ := strings.Cut(rule.Name, ".")
	return group
}

func listRules(r *output.Renderer, opts *RulesOptions) error {
	var rules []lint.RuleInfo
	for _, rule := range lint.Rules() {
		if opts.Group == "" || ruleGroup(rule) == opts.Group {
			rules = append(rules, rule)
		}
	}
	if len(rules) == 0 {
		return fmt.Errorf("no rules in group %q", opts.Group)
	}

	// Rules() is ordered by ID, keep that order within each group
	slices.SortStableFunc(rules, func(a, b lint.RuleInfo) int {
		return cmp.Compare(ruleGroup(a), ruleGroup(b))
	})

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(struct {
			Rules []lint.RuleInfo `json:"rules"`
			Count int             `json:"count"`
		}{rules, len(rules)})
	case output.ModeCSV:
		rows := make([][]string, len(rules))
		for i, rule := range rules {
			rows[i] = []string{rule.ID, rule.Name, rule.DefaultSeverity.String(), rule.Description}
		}
		r.Table([]string{"id", "name", "severity", "description"}, rows)
		return nil
	case output.ModeMarkdown:
		listRulesMarkdown(r, rules, opts.Verbose)
		return nil
	default:
		listRulesText(r, rules, opts.Verbose)
		return nil
	}
}

func listRulesText(r *output.Renderer, rules []lint.RuleInfo, verbose bool) {
	styles := r.Styles()
	title := cases.Title(language.English)

	r.Println(styles.Header.Render(fmt.Sprintf("Check Rules (%d)", len(rules))))
	r.Println("")

	currentGroup := ""
	for _, rule := range rules {
		if g := ruleGroup(rule); g != currentGroup {
			currentGroup = g
			r.Println(styles.Bold.Render("  " + title.String(g)))
		}

		r.Printf("    %s  %s - %s\n",
			styles.Muted.Render(rule.ID),
			rule.Description,
			severityStyle(r, rule.DefaultSeverity.String()),
		)
		if verbose && rule.Rationale != "" {
			r.Println(styles.Muted.Render("        Why: " + rule.Rationale))
			r.Println("")
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'wordgen rules <rule-id>' for detailed documentation"))
}

func listRulesMarkdown(r *output.Renderer, rules []lint.RuleInfo, verbose bool) {
	title := cases.Title(language.English)
	r.Println("# Check Rules")
	r.Println("")

	currentGroup := ""
	for _, rule := range rules {
		if g := ruleGroup(rule); g != currentGroup {
			if currentGroup != "" {
				r.Println("")
			}
			currentGroup = g
			r.Println("## " + title.String(g))
			r.Println("")
		}
		r.Printf("- **%s** %s (`%s`)\n", rule.ID, rule.Description, rule.DefaultSeverity)
		if verbose && rule.Rationale != "" {
			r.Println("  > " + rule.Rationale)
		}
	}
}

func showRule(r *output.Renderer, id string) error {
	rule, ok := lint.RuleByID(strings.ToUpper(id))
	if !ok {
		return fmt.Errorf("rule %q not found", id)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rule)
	case output.ModeMarkdown:
		r.Printf("# %s: %s\n\n", rule.ID, rule.Name)
		r.Printf("%s\n\n", rule.Description)
		r.Printf("**Default severity:** %s\n\n", rule.DefaultSeverity)
		if rule.Rationale != "" {
			r.Printf("## Rationale\n\n%s\n\n", rule.Rationale)
		}
		if rule.BadExample != "" {
			r.Printf("## Bad\n\n```\n%s\n```\n\n", rule.BadExample)
		}
		if rule.GoodExample != "" {
			r.Printf("## Good\n\n```\n%s\n```\n", rule.GoodExample)
		}
		return nil
	default:
		styles := r.Styles()
		r.Println(styles.Header.Render(rule.ID + " " + rule.Name))
		r.Println(rule.Description)
		r.Println("")
		r.Printf("Default severity: %s\n", severityStyle(r, rule.DefaultSeverity.String()))
		if rule.Rationale != "" {
			r.Println("")
			r.Println(rule.Rationale)
		}
		if rule.BadExample != "" {
			r.Println("")
			r.Println(styles.Error.Render("Bad:  ") + rule.BadExample)
		}
		if rule.GoodExample != "" {
			r.Println(styles.Success.Render("Good: ") + rule.GoodExample)
		}
		return nil
	}
}

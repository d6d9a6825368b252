package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/wordgen/pkg/lint"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// groupDescriptions introduces each rule group. Groups are the part of a
// rule name before the dot.
var groupDescriptions = map[string]string{
	"choice":    "Rules about '/' alternatives and their weights.",
	"filter":    "Rules about the '^' substring filters of the main pattern.",
	"reference": "Rules about {name} references and the definitions they resolve to.",
	"syntax":    "Rules about brackets that the generator copies literally.",
}

// generateRulesDocs writes the check rules reference.
func generateRulesDocs(outDir string) error {
	log.Printf("Generating rules docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rules := lint.Rules()
	w := NewMarkdownWriter()
	w.Frontmatter("Checking Grammars", "Rules run by wordgen check")
	w.GeneratedMarker()

	w.Header(1, "Checking Grammars")
	w.Paragraph(fmt.Sprintf("`wordgen check` runs **%d rules** over a grammar without generating any words. "+
		"Findings with error severity make the command exit with status 1.", len(rules)))

	w.Header(2, "Severity Levels")
	w.Table([]string{"Severity", "Description"}, [][]string{
		{InlineCode("error"), "The grammar cannot generate as written"},
		{InlineCode("warning"), "The generator silently recovers, usually hiding a mistake"},
		{InlineCode("info"), "Behaviour worth knowing about"},
		{InlineCode("hint"), "Cleanup suggestion"},
	})

	w.Header(2, "Configuration")
	w.Paragraph("Rules can be configured in `wordgen.yaml`:")
	w.CodeBlock("yaml", `lint:
  disabled: [WG05]       # never run these rules
  severity:
    WG02: error          # override severity
  min_severity: warning  # hide info and hints`)

	title := cases.Title(language.English)
	grouped := make(map[string][]lint.RuleInfo)
	var order []string
	for _, r := range rules {
		group, _, _ := strings.Cut(r.Name, ".")
		if _, ok := grouped[group]; !ok {
			order = append(order, group)
		}
		grouped[group] = append(grouped[group], r)
	}

	for _, group := range order {
		w.Line(fmt.Sprintf("## %s {#%s}", title.String(group), group))
		w.Newline()
		if desc, ok := groupDescriptions[group]; ok {
			w.Paragraph(desc)
		}
		for _, r := range grouped[group] {
			writeRuleDoc(w, r)
		}
	}

	if err := os.WriteFile(filepath.Join(outDir, "rules.md"), w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated rules.md")
	return nil
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, rule lint.RuleInfo) {
	// ### WG03 - reference.recursive {#WG03}
	w.Line(fmt.Sprintf("### %s - %s {#%s}", rule.ID, rule.Name, rule.ID))
	w.Newline()
	w.Line(fmt.Sprintf("**Severity:** %s", InlineCode(rule.DefaultSeverity.String())))
	w.Newline()
	w.Paragraph(cleanDescription(rule.Description))

	if rule.Rationale != "" {
		w.Header(4, "Why This Matters")
		w.Paragraph(rule.Rationale)
	}
	if rule.BadExample != "" {
		w.Header(4, "Bad")
		w.CodeBlock("text", rule.BadExample)
	}
	if rule.GoodExample != "" {
		w.Header(4, "Good")
		w.CodeBlock("text", rule.GoodExample)
	}

	w.Line("---")
	w.Newline()
}

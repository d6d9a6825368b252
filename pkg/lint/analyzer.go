package lint

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/wordgen/pkg/wordgen"
	"golang.org/x/text/cases"
)

// Analyzer runs the grammar rules.
type Analyzer struct {
	config *Config
}

// NewAnalyzer creates an analyzer. A nil config enables every rule.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// Check lints a main pattern and its definitions with every rule enabled.
func Check(mainPattern string, defs []wordgen.Definition) []Diagnostic {
	return NewAnalyzer(nil).Check(mainPattern, defs)
}

// Check lints mainPattern (including its '^' filters) and defs. Findings
// are ordered by source: filters and the main pattern first, then each
// effective definition in document order, then reference graph findings.
func (a *Analyzer) Check(mainPattern string, defs []wordgen.Definition) []Diagnostic {
	table := wordgen.Merge(defs)
	w := &walker{
		analyzer: a,
		table:    table,
		edges:    make(map[string]map[string]bool),
	}

	base, filters := wordgen.SplitFilters(mainPattern)
	offset := len(base)
	for _, f := range filters {
		if f == "" {
			w.report(RuleEmptyFilter, SourcePattern, offset,
				"empty filter rejects every word")
		}
		offset += len(f) + 1
	}

	w.node, w.source = mainNode, SourcePattern
	w.pattern(base, 0, false)

	order := effectiveOrder(defs)
	last := make(map[string]int, len(defs))
	for i, d := range defs {
		if prev, ok := last[d.Name]; ok {
			w.report(RuleOverridden, d.Name, -1,
				fmt.Sprintf("definitions[%d] replaces definitions[%d]", i, prev))
		}
		last[d.Name] = i
	}
	for _, name := range order {
		w.node, w.source = name, name
		w.pattern(table[name], 0, false)
	}

	w.checkUnused(order)
	w.checkRecursion(order)
	return w.diags
}

// mainNode is the graph node of the main pattern. It cannot collide with a
// definition name.
const mainNode = "\x00main"

// walker visits every branch and group of a pattern, unlike the generator
// which follows one random path.
type walker struct {
	analyzer *Analyzer
	table    map[string]string
	node     string // graph node of the text being walked
	source   string // Diagnostic.Source of the text being walked
	// edges[from][to] is true when some reference from -> to is reached
	// without passing an optional group or an alternative.
	edges map[string]map[string]bool
	diags []Diagnostic
}

func (w *walker) report(rule, source string, offset int, msg string) {
	cfg := w.analyzer.config
	if cfg.IsDisabled(rule) {
		return
	}
	sev := cfg.GetSeverity(rule, defaultSeverity(rule))
	w.reportAs(rule, sev, source, offset, msg)
}

func (w *walker) reportAs(rule string, sev Severity, source string, offset int, msg string) {
	cfg := w.analyzer.config
	if cfg.IsDisabled(rule) || !cfg.Keeps(sev) {
		return
	}
	w.diags = append(w.diags, Diagnostic{
		RuleID:   rule,
		Severity: sev,
		Source:   source,
		Offset:   offset,
		Message:  msg,
	})
}

// pattern visits the choices of p, which starts at byte base of the source.
// guarded is true when the generator may skip p entirely.
func (w *walker) pattern(p string, base int, guarded bool) {
	branches := wordgen.SplitChoices(p)

	positive := 0
	for _, b := range branches {
		if _, weight := wordgen.ParseWeight(b); weight > 0 {
			positive++
		}
	}
	if positive == 0 {
		w.report(RuleZeroWeightChoice, w.source, base,
			fmt.Sprintf("all %d branches of %q have weight 0", len(branches), p))
	}
	branchGuarded := guarded || positive > 1

	offset := base
	for _, b := range branches {
		text, weight := wordgen.ParseWeight(b)
		if weight > 0 || positive == 0 {
			w.sequence(text, offset, branchGuarded)
		}
		offset += len(b) + 1
	}
}

func (w *walker) sequence(s string, base int, guarded bool) {
	for i := 0; i < len(s); {
		c := s[i]
		switch c {
		case '{', '[', '(':
			j := wordgen.MatchBracket(s, i)
			if j == wordgen.NotFound {
				w.report(RuleUnclosedBracket, w.source, base+i,
					fmt.Sprintf("%q is never closed and is emitted literally", c))
				i++
				continue
			}
			inner := s[i+1 : j]
			switch c {
			case '{':
				w.reference(inner, base+i, guarded)
			case '[':
				w.pattern(inner, base+i+1, guarded)
			case '(':
				w.pattern(inner, base+i+1, true)
			}
			i = j + 1
		case ')', ']', '}':
			w.report(RuleStrayCloser, w.source, base+i,
				fmt.Sprintf("%q has no opening bracket and is emitted literally", c))
			i++
		default:
			i++
		}
	}
}

func (w *walker) reference(name string, offset int, guarded bool) {
	if _, ok := w.table[name]; !ok {
		msg := fmt.Sprintf("{%s} is not defined and expands to nothing", name)
		if alt := w.similarName(name); alt != "" {
			msg += fmt.Sprintf("; did you mean {%s}?", alt)
		}
		w.report(RuleUnknownReference, w.source, offset, msg)
		return
	}
	out := w.edges[w.node]
	if out == nil {
		out = make(map[string]bool)
		w.edges[w.node] = out
	}
	out[name] = out[name] || !guarded
}

// similarName finds a definition whose name differs from name only in case.
func (w *walker) similarName(name string) string {
	folder := cases.Fold()
	want := folder.String(name)
	var found []string
	for defined := range w.table {
		if folder.String(defined) == want {
			found = append(found, defined)
		}
	}
	if len(found) == 0 {
		return ""
	}
	slices.Sort(found)
	return found[0]
}

func (w *walker) checkUnused(order []string) {
	reached := map[string]bool{mainNode: true}
	queue := []string{mainNode}
	for len(queue) > 0 {
		from := queue[0]
		queue = queue[1:]
		for to := range w.edges[from] {
			if !reached[to] {
				reached[to] = true
				queue = append(queue, to)
			}
		}
	}
	for _, name := range order {
		if !reached[name] {
			w.report(RuleUnusedDefinition, name, -1,
				fmt.Sprintf("{%s} is never reached from the main pattern", name))
		}
	}
}

// checkRecursion reports each strongly connected group of definitions
// once. A group that still cycles using only unguarded references always
// recurses and keeps the rule's severity; otherwise it is a warning.
func (w *walker) checkRecursion(order []string) {
	all := make(map[string][]string, len(order))
	hard := make(map[string][]string, len(order))
	for _, from := range order {
		for _, to := range order {
			unguarded, ok := w.edges[from][to]
			if !ok {
				continue
			}
			all[from] = append(all[from], to)
			if unguarded {
				hard[from] = append(hard[from], to)
			}
		}
	}

	hardMember := make(map[string]bool)
	for _, scc := range cycles(order, hard) {
		for _, n := range scc {
			hardMember[n] = true
		}
		w.report(RuleRecursiveDefinition, scc[0], -1,
			fmt.Sprintf("%s always recurses and exceeds the depth limit", describeCycle(scc)))
	}

	sev := w.analyzer.config.GetSeverity(RuleRecursiveDefinition, defaultSeverity(RuleRecursiveDefinition))
	if sev < SeverityWarning {
		sev = SeverityWarning
	}
	for _, scc := range cycles(order, all) {
		if slices.ContainsFunc(scc, func(n string) bool { return hardMember[n] }) {
			continue
		}
		w.reportAs(RuleRecursiveDefinition, sev, scc[0], -1,
			fmt.Sprintf("%s recurses through optional parts and may exceed the depth limit", describeCycle(scc)))
	}
}

func describeCycle(scc []string) string {
	if len(scc) == 1 {
		return fmt.Sprintf("{%s} refers to itself and", scc[0])
	}
	refs := make([]string, len(scc))
	for i, n := range scc {
		refs[i] = "{" + n + "}"
	}
	return strings.Join(refs, ", ") + " refer to each other and"
}

// effectiveOrder lists each definition name once, at the position of its
// last occurrence, which is the pattern the generator uses.
func effectiveOrder(defs []wordgen.Definition) []string {
	last := make(map[string]int, len(defs))
	for i, d := range defs {
		last[d.Name] = i
	}
	order := make([]string, 0, len(last))
	for i, d := range defs {
		if last[d.Name] == i {
			order = append(order, d.Name)
		}
	}
	return order
}

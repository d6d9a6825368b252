package lint

// RuleInfo provides metadata about a rule for documentation and tooling.
type RuleInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	DefaultSeverity Severity `json:"default_severity"`

	Rationale   string `json:"rationale,omitempty"`
	BadExample  string `json:"bad_example,omitempty"`
	GoodExample string `json:"good_example,omitempty"`
}

// Rule IDs.
const (
	RuleUnclosedBracket     = "WG01"
	RuleUnknownReference    = "WG02"
	RuleRecursiveDefinition = "WG03"
	RuleZeroWeightChoice    = "WG04"
	RuleUnusedDefinition    = "WG05"
	RuleEmptyFilter         = "WG06"
	RuleStrayCloser         = "WG07"
	RuleOverridden          = "WG08"
)

var rules = []RuleInfo{
	{
		ID:              RuleUnclosedBracket,
		Name:            "syntax.unclosed_bracket",
		Description:     "An opening bracket has no matching closing bracket",
		DefaultSeverity: SeverityWarning,
		Rationale:       "The bracket is copied into every word as a literal character.",
		BadExample:      "{C}(a",
		GoodExample:     "{C}(a)",
	},
	{
		ID:              RuleUnknownReference,
		Name:            "reference.unknown",
		Description:     "A {name} reference has no definition",
		DefaultSeverity: SeverityWarning,
		Rationale:       "Unknown references expand to nothing, which usually hides a typo.",
		BadExample:      "{C}{v}",
		GoodExample:     "{C}{V}",
	},
	{
		ID:              RuleRecursiveDefinition,
		Name:            "reference.recursive",
		Description:     "A definition refers back to itself",
		DefaultSeverity: SeverityError,
		Rationale: "Recursion that is not behind an optional group or an alternative always " +
			"exceeds the depth limit. Guarded recursion terminates but can still hit the limit.",
		BadExample:  "A: a{A}",
		GoodExample: "A: a({A})",
	},
	{
		ID:              RuleZeroWeightChoice,
		Name:            "choice.zero_weight",
		Description:     "Every branch of a choice has weight 0",
		DefaultSeverity: SeverityWarning,
		Rationale:       "The generator falls back to a uniform choice, ignoring the weights.",
		BadExample:      "a*0/b*0",
		GoodExample:     "a*0/b",
	},
	{
		ID:              RuleUnusedDefinition,
		Name:            "reference.unused",
		Description:     "A definition is never reached from the main pattern",
		DefaultSeverity: SeverityHint,
	},
	{
		ID:              RuleEmptyFilter,
		Name:            "filter.empty",
		Description:     "A filter is empty",
		DefaultSeverity: SeverityError,
		Rationale:       "Every word contains the empty string, so nothing is ever generated.",
		BadExample:      "{C}{V}^",
		GoodExample:     "{C}{V}",
	},
	{
		ID:              RuleStrayCloser,
		Name:            "syntax.stray_closer",
		Description:     "A closing bracket has no opening bracket",
		DefaultSeverity: SeverityInfo,
		Rationale:       "The bracket is copied into every word as a literal character.",
	},
	{
		ID:              RuleOverridden,
		Name:            "reference.overridden",
		Description:     "A later definition replaces an earlier one with the same name",
		DefaultSeverity: SeverityInfo,
	},
}

// Rules returns metadata for every rule, ordered by ID.
func Rules() []RuleInfo {
	out := make([]RuleInfo, len(rules))
	copy(out, rules)
	return out
}

// RuleByID looks up rule metadata.
func RuleByID(id string) (RuleInfo, bool) {
	for _, r := range rules {
		if r.ID == id {
			return r, true
		}
	}
	return RuleInfo{}, false
}

func defaultSeverity(id string) Severity {
	if r, ok := RuleByID(id); ok {
		return r.DefaultSeverity
	}
	return SeverityWarning
}

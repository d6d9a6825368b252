package wordgen

// Definition is one named sub-pattern, referenced from other patterns as
// {Name}. Names are case-sensitive.
type Definition struct {
	Name    string `json:"name" yaml:"name"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

// Merge folds an ordered list of definitions into a lookup table.
// A later definition replaces an earlier one with the same name.
func Merge(defs []Definition) map[string]string {
	table := make(map[string]string, len(defs))
	for _, d := range defs {
		table[d.Name] = d.Pattern
	}
	return table
}

package wordgen

// Choice describes one top-level branch of a pattern.
type Choice struct {
	Branch      string  `json:"branch"`
	Weight      int     `json:"weight"`
	Probability float64 `json:"probability"`
}

// Explain lists the top-level branches of pattern with their effective
// weight and selection probability. When every branch has weight 0 the
// uniform fallback used during generation is reported.
func Explain(pattern string) []Choice {
	w := weigh(SplitChoices(pattern))
	choices := make([]Choice, len(w.bases))
	for i := range w.bases {
		choices[i] = Choice{
			Branch:      w.bases[i],
			Weight:      w.weights[i],
			Probability: float64(w.weights[i]) / float64(w.total),
		}
	}
	return choices
}

// Package wordgen expands compact phonotactic patterns into synthetic words.
//
// # Pattern Grammar
//
// A pattern is a string of literal characters combined with a small set of
// operators:
//
//	{C}     reference: expands definitions["C"], empty when undefined
//	[ab]    mandatory group: always expanded
//	(ab)    optional group: expanded with 50% probability
//	a/b     choice: one branch is picked at random
//	a*3     weight: the branch counts three times in the choice
//	X^pa    filter: words containing "pa" are rejected (main pattern only)
//
// Malformed input never fails: an unmatched opening bracket is emitted as a
// literal, an unknown reference expands to nothing and a non-numeric weight
// suffix is kept as part of the branch text.
//
// # Usage
//
//	words, err := wordgen.Generate("{C}{V}^pa", []wordgen.Definition{
//		{Name: "C", Pattern: "p/t/k"},
//		{Name: "V", Pattern: "a/i"},
//	}, 10, wordgen.WithSeed(42))
//
// Patterns are re-scanned on every expansion; no parse tree is cached.
//
// # Concurrency
//
// A Generator owns its random source and is not safe for concurrent use.
// Generate builds a fresh Generator per call, so concurrent calls are safe
// as long as they do not share a *rand.Rand passed through WithRand.
package wordgen

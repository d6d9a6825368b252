// Package lint checks word generation grammars without generating words.
//
// The generator never fails on malformed patterns: an unclosed bracket is
// emitted literally, an unknown reference expands to nothing and a choice
// whose branches all have weight 0 falls back to a uniform pick. Those
// silent recoveries are usually authoring mistakes, and this package
// reports them as diagnostics with stable rule IDs.
//
// # Rules
//
//   - WG01 unclosed bracket
//   - WG02 unknown reference
//   - WG03 recursive definition
//   - WG04 zero-weight choice
//   - WG05 unused definition
//   - WG06 empty filter
//   - WG07 stray closing bracket
//   - WG08 overridden definition
//
// # Usage
//
//	diags := lint.Check("{C}{V}^", defs)
//	if lint.HasErrors(diags) {
//		...
//	}
//
// Use Config to disable rules or change their severity:
//
//	cfg := lint.NewConfig().Disable("WG05").SetSeverity("WG02", lint.SeverityError)
//	diags := lint.NewAnalyzer(cfg).Check(pattern, defs)
package lint

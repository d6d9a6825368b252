package wordgen

import (
	"strconv"
	"strings"
)

// SplitChoices splits a pattern on '/' characters that are not nested in
// '(' or '[' groups. The result always has at least one element and keeps
// the trailing segment, which is empty when the pattern ends with '/'.
//
//	SplitChoices("a/b/[c/d]/(e/f)") // ["a" "b" "[c/d]" "(e/f)"]
func SplitChoices(pattern string) []string {
	var parts []string
	depth := 0
	start := 0

	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '/':
			if depth == 0 {
				parts = append(parts, pattern[start:i])
				start = i + 1
			}
		}
	}

	return append(parts, pattern[start:])
}

// ParseWeight extracts a trailing "*N" multiplier from a branch.
// The text after the last '*' must be a non-empty run of decimal digits;
// otherwise the whole branch is returned unchanged with weight 1.
// Weights saturate at 2147483647.
//
//	ParseWeight("a*b*2") // "a*b", 2
//	ParseWeight("a*")    // "a*", 1
func ParseWeight(branch string) (string, int) {
	idx := strings.LastIndexByte(branch, '*')
	if idx == -1 {
		return branch, 1
	}

	suffix := branch[idx+1:]
	if suffix == "" || !isDigits(suffix) {
		return branch, 1
	}
	weight, err := strconv.ParseUint(suffix, 10, 64)
	if err != nil || weight > maxBranchWeight {
		// Only strconv.ErrRange is possible for a digit run.
		weight = maxBranchWeight
	}
	return branch[:idx], int(weight)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// SplitFilters separates the generative base of a main pattern from its
// '^'-delimited filter substrings.
//
//	SplitFilters("{C}{V}^pa^ki") // "{C}{V}", ["pa" "ki"]
func SplitFilters(mainPattern string) (string, []string) {
	parts := strings.Split(mainPattern, "^")
	if len(parts) == 1 {
		return parts[0], nil
	}
	return parts[0], parts[1:]
}

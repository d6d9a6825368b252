package wordgen

// NotFound is returned by MatchBracket when no closing bracket exists.
const NotFound = -1

// closerFor maps each opening bracket to its closing counterpart.
func closerFor(open byte) (byte, bool) {
	switch open {
	case '(':
		return ')', true
	case '[':
		return ']', true
	case '{':
		return '}', true
	default:
		return 0, false
	}
}

// MatchBracket returns the index of the bracket closing the one at start.
// Only brackets of the same kind affect nesting: when matching '(' an
// intervening '[' or '{' is ignored. It returns NotFound when s[start] is
// not an opening bracket or the string ends before the bracket is closed.
func MatchBracket(s string, start int) int {
	if start < 0 || start >= len(s) {
		return NotFound
	}
	open := s[start]
	closer, ok := closerFor(open)
	if !ok {
		return NotFound
	}

	depth := 1
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return NotFound
}

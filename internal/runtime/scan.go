package runtime

import (
	"unicode/utf8"

	"github.com/aretw0/tally/pkg/expr"
)

// Numeric runs are pure ASCII ("0"-"9" and "."), and UTF-8 continuation
// bytes never fall in that range, so the scans below walk bytes.

func isNumericByte(b byte) bool {
	return (b >= '0' && b <= '9') || b == '.'
}

// runStart walks back from end while bytes are numeric and returns the first
// index of the run. Invariant: s[runStart:end] is all numeric and
// s[runStart-1], if any, is not.
func runStart(s string, end int) int {
	start := end
	for start > 0 && isNumericByte(s[start-1]) {
		start--
	}
	return start
}

// lastRun locates the last maximal numeric run, skipping any trailing
// non-numeric text. It returns start == end when there is none.
func lastRun(s string) (start, end int) {
	end = len(s)
	for end > 0 && !isNumericByte(s[end-1]) {
		end--
	}
	return runStart(s, end), end
}

// hasSign reports whether the run starting at start carries a leading minus
// sign rather than being the right operand of a subtraction.
func hasSign(s string, start int) bool {
	if start == 0 || s[start-1] != '-' {
		return false
	}
	before := s[:start-1]
	if before == "" {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(before)
	return r == '(' || expr.IsOperator(string(r))
}

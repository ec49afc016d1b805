package logging

import (
	"strconv"
	"strings"
)

// TruncatedArgs renders the first n elements of a query for a log
// line, eliding the remainder to bound log size — spec calls for "the
// first N query arguments (bounded, e.g. 7)".
func TruncatedArgs(args [][]byte, n int) string {
	if n <= 0 {
		n = 7
	}
	shown := args
	elided := 0
	if len(args) > n {
		shown = args[:n]
		elided = len(args) - n
	}

	parts := make([]string, len(shown))
	for i, a := range shown {
		parts[i] = string(a)
	}
	s := strings.Join(parts, " ")
	if elided > 0 {
		s += " …(+" + strconv.Itoa(elided) + " more)"
	}
	return s
}

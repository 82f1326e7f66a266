package content

import "strings"

// SplitLines splits s on LF or CRLF. A trailing line ending does not produce
// an empty final line, and an empty string yields nil.
func SplitLines(s string) []string {
	var lines []string
	for line := range strings.Lines(s) {
		if trimmed, ok := strings.CutSuffix(line, "\n"); ok {
			line = strings.TrimSuffix(trimmed, "\r")
		}
		lines = append(lines, line)
	}
	return lines
}

// CountLines returns the number of lines SplitLines would produce.
func CountLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

package extract

import (
	"strings"
)

// CleanText normalizes raw extracted text: collapses runs of whitespace
// within each line, strips blank lines, and trims the result.
func CleanText(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var b strings.Builder
	b.Grow(len(raw))

	first := true
	for _, line := range strings.Split(raw, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if !first {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(fields, " "))
		first = false
	}

	return b.String()
}

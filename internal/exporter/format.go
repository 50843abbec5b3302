package exporter

import (
	"fmt"
	"strings"
)

// FormatClose formats a close price for console output with exactly four
// decimal places and thousands separators, e.g. 1,234.5678.
func FormatClose(v float64) string {
	s := fmt.Sprintf("%.4f", v)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	parts := strings.SplitN(s, ".", 2)
	whole := groupThousands(parts[0])

	out := whole + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}

// groupThousands inserts comma separators into a digit string
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	first := n % 3
	if first > 0 {
		b.WriteString(digits[:first])
	}
	for i := first; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

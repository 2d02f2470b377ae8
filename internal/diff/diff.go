// Package diff generates the per-asset comparison text written during
// asset-diff export. Text files get a line-oriented unified rendering,
// everything else gets a short binary size/content report.
//
// The line diff is intentionally positional: both sequences are walked with
// independent cursors and compared index by index. A single inserted or
// deleted line shifts the remainder out of alignment and is reported as a
// -/+ pair per line rather than a clean insertion block. Callers depend on
// this exact output shape; do not replace it with an LCS-based alignment.
package diff

import "strings"

// Lines renders a unified-style comparison of two line sequences. The
// output starts with "--- old" / "+++ new" header lines, followed by one
// line per step: ' ' for context, '-' for removed, '+' for added.
func Lines(oldLines, newLines []string) string {
	var b strings.Builder
	b.WriteString("--- old\n")
	b.WriteString("+++ new\n")
	i, j := 0, 0
	for i < len(oldLines) || j < len(newLines) {
		switch {
		case i >= len(oldLines):
			writeLine(&b, '+', newLines[j])
			j++
		case j >= len(newLines):
			writeLine(&b, '-', oldLines[i])
			i++
		case oldLines[i] == newLines[j]:
			writeLine(&b, ' ', oldLines[i])
			i++
			j++
		default:
			writeLine(&b, '-', oldLines[i])
			writeLine(&b, '+', newLines[j])
			i++
			j++
		}
	}
	return b.String()
}

func writeLine(b *strings.Builder, marker byte, line string) {
	b.WriteByte(marker)
	b.WriteString(line)
	b.WriteByte('\n')
}

// SplitLines splits file content into lines for Lines. CRLF is normalized
// to LF and a trailing newline does not produce an empty final element.
func SplitLines(data []byte) []string {
	s := strings.ReplaceAll(string(data), "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

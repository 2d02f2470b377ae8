package diff

import (
	"bytes"
	"fmt"
	"strings"
)

// Binary reports size and content equality of two byte sequences. A size
// mismatch is sufficient proof of difference; equal sizes trigger a
// byte-by-byte scan that stops at the first mismatch.
func Binary(oldData, newData []byte) string {
	var b strings.Builder
	b.WriteString("Binary file comparison\n")
	fmt.Fprintf(&b, "Old size: %d bytes\n", len(oldData))
	fmt.Fprintf(&b, "New size: %d bytes\n", len(newData))
	fmt.Fprintf(&b, "Size change: %d bytes\n", len(newData)-len(oldData))
	switch {
	case len(oldData) != len(newData):
		b.WriteString("Binary content differs (files have different sizes)\n")
	case bytes.Equal(oldData, newData):
		b.WriteString("Binary content is identical\n")
	default:
		b.WriteString("Binary content differs (files have the same size)\n")
	}
	return b.String()
}

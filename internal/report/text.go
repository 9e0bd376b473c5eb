package report

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Placeholder stands in for undefined values such as an effectiveness
// with no recorded sessions.
const Placeholder = "-"

// cleanText maps s onto Latin-1, the repertoire of the core fonts canvases
// use. Runes outside it become "?".
func cleanText(s string) string {
	if s == "" {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if _, ok := charmap.ISO8859_1.EncodeRune(r); ok {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('?')
		}
	}
	return sb.String()
}

// Package textutil makes file names and paths safe to print on a terminal.
package textutil

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Labels for the invisible format characters most often used to disguise a
// file name. Other format characters get a generic U+XXXX label.
var formatLabels = map[rune]string{
	0x00AD: "SHY",
	0x061C: "ALM",
	0x180E: "MVS",
	0x200B: "ZWSP",
	0x200C: "ZWNJ",
	0x200D: "ZWJ",
	0x200E: "LRM",
	0x200F: "RLM",
	0x202A: "LRE",
	0x202B: "RLE",
	0x202C: "PDF",
	0x202D: "LRO",
	0x202E: "RLO",
	0x2060: "WJ",
	0x2066: "LRI",
	0x2067: "RLI",
	0x2068: "FSI",
	0x2069: "PDI",
	0xFEFF: "BOM",
}

// SanitizeTerminalText rewrites text so it can be drawn cell by cell without
// the terminal interpreting any of it: control characters become '?',
// line breaks and tabs become spaces, format characters are shown as
// ⟪labels⟫ and bytes that are not UTF-8 are shown as \xNN.
func SanitizeTerminalText(text string) string {
	if isSafe(text) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 8)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(&b, `\x%02x`, text[i])
			i++
			continue
		}
		i += size
		switch {
		case r == '\t', r == '\n', r == '\r':
			b.WriteByte(' ')
		case r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0):
			b.WriteByte('?')
		case isFormat(r):
			b.WriteString("⟪" + formatLabel(r) + "⟫")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isSafe(text string) bool {
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			return false
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) || isFormat(r) {
			return false
		}
		i += size
	}
	return true
}

func isFormat(r rune) bool {
	if _, ok := formatLabels[r]; ok {
		return true
	}
	return unicode.Is(unicode.Cf, r)
}

func formatLabel(r rune) string {
	if label, ok := formatLabels[r]; ok {
		return label
	}
	return fmt.Sprintf("U+%04X", r)
}

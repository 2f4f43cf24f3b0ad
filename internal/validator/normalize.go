package validator

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold normalizes text for keyword matching: lowercase, diacritics stripped.
// The reply channel sometimes transmits in a mangled encoding, so matching
// runs on a canonical diacritic-free form instead of duplicated keyword
// tables per encoding.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(out)
	// NFD does not decompose the stroked d.
	out = strings.ReplaceAll(out, "đ", "d")
	return out
}

// containsAny reports whether the folded text contains any folded keyword.
func containsAny(foldedText string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(foldedText, Fold(kw)) {
			return true
		}
	}
	return false
}

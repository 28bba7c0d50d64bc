// Package slug turns free text (attribute tags, module titles) into
// identifier-safe tokens used as hierarchy path segments.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// None is returned when no identifier can be derived from the input.
const None = ""

// missing is what the table scraper writes for an absent cell.
const missing = "none"

var lower = cases.Lower(language.Und)

// Make derives a slug from text. Accents are folded ("é" becomes "e"),
// letters are lower-cased, runs of separators collapse into one hyphen,
// and everything else except ASCII letters and digits is dropped.
//
//	Make("PatientName")  // "patientname"
//	Make("(0010,0010)")  // "00100010"
//	Make("Issuer of ID") // "issuer-of-id"
//	Make(">>")           // None
func Make(text string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), text)
	if err != nil {
		folded = text
	}
	folded = lower.String(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingSep := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case isSeparator(r):
			pendingSep = true
		}
	}

	out := b.String()
	if out == missing {
		return None
	}
	return out
}

// Valid reports whether s is a usable slug.
func Valid(s string) bool {
	return s != None
}

func isSeparator(r rune) bool {
	switch r {
	case '-', '_', '/', '.':
		return true
	}
	return unicode.IsSpace(r)
}

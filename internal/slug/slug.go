// Package slug derives URL-safe identifiers from titles and names.
//
// A slug doubles as a uniqueness key, so Normalize is deterministic and idempotent:
// Normalize(Normalize(x)) == Normalize(x) for every x.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases text and reduces it to ASCII word characters and hyphens.
// Diacritics are stripped (é becomes e), each run of whitespace becomes a single hyphen,
// existing hyphens are kept and every other character is removed.
//
// Normalize returns the empty string when nothing survives, callers that use the result as
// an identifier must reject such input before storing it (see HasIdentifier).
func Normalize(text string) string {
	folded, _, err := transform.String(foldDiacritics(), text)
	if err != nil {
		folded = text
	}
	folded = strings.ToLower(strings.TrimSpace(folded))

	var b strings.Builder
	b.Grow(len(folded))

	inSpace := false
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r):
			if !inSpace {
				b.WriteByte('-')
				inSpace = true
			}
		case isWord(r) || r == '-':
			b.WriteRune(r)
			inSpace = false
		}
		// anything else is dropped and does not end a whitespace run
	}

	return b.String()
}

// MaxLabelLength is the longest DNS label a tenant subdomain may use.
const MaxLabelLength = 63

// Label derives a DNS label from text so the result can serve as a tenant subdomain.
// Underscores become hyphens, hyphen runs collapse to one, leading and trailing hyphens
// are trimmed and the result is cut to MaxLabelLength. Label returns "" when nothing
// survives.
func Label(text string) string {
	s := strings.ReplaceAll(Normalize(text), "_", "-")

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '-' && i > 0 && s[i-1] == '-' {
			continue
		}
		b.WriteByte(s[i])
	}

	label := strings.Trim(b.String(), "-")
	if len(label) > MaxLabelLength {
		label = strings.TrimRight(label[:MaxLabelLength], "-")
	}
	return label
}

// HasIdentifier reports whether text normalizes to a slug containing at least one
// word character.
func HasIdentifier(text string) bool {
	return strings.IndexFunc(Normalize(text), isWord) >= 0
}

// Valid reports whether s is already a well formed slug.
func Valid(s string) bool {
	return s != "" && Normalize(s) == s && strings.IndexFunc(s, isWord) >= 0
}

func isWord(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('0' <= r && r <= '9')
}

// foldDiacritics decomposes characters and drops the combining marks.
// A new chain is built per call because transform.Transformer values are stateful.
func foldDiacritics() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

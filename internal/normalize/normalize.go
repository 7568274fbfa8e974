// Package normalize canonicalizes free-text titles for searching and comparison.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Apostrophes are stripped rather than replaced with spaces so that
	// "Schitt's Creek" and "Schitts Creek" normalize to the same form.
	apostropheRegex = regexp.MustCompile("[’'`‘’ʼ]")
	digitRunRegex   = regexp.MustCompile(`\d+`)
	emptyBraceRegex = regexp.MustCompile(`\(\s*\)|\[\s*\]`)
	spaceRegex      = regexp.MustCompile(`\s+`)
)

var asciiFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize returns the canonical diacritic-preserving form of a title:
// lower-cased, canonically composed, punctuation replaced with spaces,
// whitespace collapsed and trimmed. Normalize is idempotent.
func Normalize(text string) string {
	return canonicalize(text, false)
}

// NormalizeASCII is the strict folding profile: like Normalize but with
// combining diacritical marks stripped, so "Amélie" becomes "amelie".
// Matching against English-language catalogs is usually done in this form.
func NormalizeASCII(text string) string {
	return canonicalize(text, true)
}

func canonicalize(text string, fold bool) string {
	s := strings.ToLower(text)
	s = apostropheRegex.ReplaceAllString(s, "")
	if fold {
		if folded, _, err := transform.String(asciiFolder, s); err == nil {
			s = folded
		}
	} else {
		s = norm.NFC.String(s)
	}

	var b strings.Builder
	b.Grow(len(s))
	prevSpace := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		if !prevSpace {
			b.WriteRune(' ')
			prevSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// articles that are dropped for the article-stripped query variant.
var articles = map[string]bool{
	"the": true,
	"a":   true,
	"an":  true,
}

// QueryVariations generates alternate query spellings for a title, most
// likely variant first. The base normalized form always comes first, then
// subtitle-separator variants ("Title, Subtitle", "Title - Subtitle",
// "Title: Subtitle") and a leading-article-stripped form. Duplicates are
// collapsed preserving first occurrence, so callers can iterate in order
// and stop at the first acceptable match.
func QueryVariations(text string) []string {
	base := Normalize(text)
	if base == "" {
		return nil
	}

	variants := []string{base}
	tokens := strings.Fields(base)

	if len(tokens) > 1 {
		head, rest := tokens[0], strings.Join(tokens[1:], " ")
		for _, sep := range []string{", ", " - ", ": "} {
			variants = append(variants, head+sep+rest)
		}
	}

	if len(tokens) > 1 && articles[tokens[0]] {
		variants = append(variants, strings.Join(tokens[1:], " "))
	}

	seen := make(map[string]bool, len(variants))
	deduped := variants[:0]
	for _, v := range variants {
		if seen[v] {
			continue
		}
		seen[v] = true
		deduped = append(deduped, v)
	}
	return deduped
}

// ExtractYear detects an embedded release year in a title and splits it
// from the title body. Only 4-digit tokens in the range 1900..current+1
// qualify, and only when parenthesized or trailing, so that titles like
// "District 9" or "2001: A Space Odyssey" are left untouched. When no
// plausible year is found the original title is returned with ok false.
func ExtractYear(title string) (string, int, bool) {
	maxYear := time.Now().Year() + 1

	start, end, year := -1, -1, 0
	for _, m := range digitRunRegex.FindAllStringIndex(title, -1) {
		run := title[m[0]:m[1]]
		if len(run) != 4 {
			continue
		}
		v, err := strconv.Atoi(run)
		if err != nil || v < 1900 || v > maxYear {
			continue
		}
		if !bracketed(title, m[0], m[1]) && !trailing(title, m[1]) {
			continue
		}
		// Later occurrences win: the trailing token is the year convention.
		start, end, year = m[0], m[1], v
	}
	if start < 0 {
		return title, 0, false
	}

	clean := title[:start] + title[end:]
	clean = emptyBraceRegex.ReplaceAllString(clean, " ")
	clean = spaceRegex.ReplaceAllString(clean, " ")
	clean = strings.Trim(clean, " -–:,.")
	if clean == "" {
		// The title was nothing but the year; refusing to extract beats
		// corrupting the search query.
		return title, 0, false
	}
	return clean, year, true
}

// bracketed reports whether the token at [start,end) is directly wrapped
// in parentheses or square brackets, ignoring whitespace.
func bracketed(s string, start, end int) bool {
	i := start - 1
	for i >= 0 && s[i] == ' ' {
		i--
	}
	j := end
	for j < len(s) && s[j] == ' ' {
		j++
	}
	open := i >= 0 && (s[i] == '(' || s[i] == '[')
	closed := j < len(s) && (s[j] == ')' || s[j] == ']')
	return open && closed
}

// trailing reports whether only whitespace or closing punctuation follows
// position end.
func trailing(s string, end int) bool {
	for _, r := range s[end:] {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

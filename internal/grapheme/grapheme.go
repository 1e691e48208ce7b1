// Package grapheme provides Unicode grapheme-cluster segmentation, locale-aware
// case folding, and delimiter splitting over user-visible text units.
package grapheme

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Segment splits s into an ordered sequence of grapheme clusters. It never
// splits an extended grapheme cluster across two elements. Empty input
// yields an empty (non-nil) slice.
func Segment(s string) []string {
	if s == "" {
		return []string{}
	}
	graphemes := make([]string, 0, len(s))
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		graphemes = append(graphemes, cluster)
	}
	return graphemes
}

// resolveLocale parses a BCP 47 tag, falling back to und (undefined) on
// malformed input rather than failing case operations.
func resolveLocale(localeTag string) language.Tag {
	tag, err := language.Parse(localeTag)
	if err != nil {
		return language.Und
	}
	return tag
}

// ToLower folds s to lowercase relative to localeTag. Returns s unchanged
// when no mapping applies.
func ToLower(s, localeTag string) string {
	if s == "" {
		return s
	}
	return cases.Lower(resolveLocale(localeTag)).String(s)
}

// ToUpper folds s to uppercase relative to localeTag.
func ToUpper(s, localeTag string) string {
	if s == "" {
		return s
	}
	return cases.Upper(resolveLocale(localeTag)).String(s)
}

// ToTitle title-cases s relative to localeTag.
func ToTitle(s, localeTag string) string {
	if s == "" {
		return s
	}
	return cases.Title(resolveLocale(localeTag)).String(s)
}

// IsUppercased reports whether s equals its own uppercase folding, and
// differs from its lowercase folding (so a string with no case, like a
// digit sequence, is not considered uppercased).
func IsUppercased(s, localeTag string) bool {
	if s == "" {
		return false
	}
	upper := ToUpper(s, localeTag)
	lower := ToLower(s, localeTag)
	return s == upper && upper != lower
}

// OppositeCase returns the case-swapped form of a single grapheme: the
// lowercase form if it is uppercased, else the uppercase form. When neither
// mapping changes the grapheme, the lowercase form is returned as a best
// effort, per the opposite-case computation used by the fuzzy search engine.
func OppositeCase(g, localeTag string) string {
	if g == "" {
		return g
	}
	if IsUppercased(g, localeTag) {
		return ToLower(g, localeTag)
	}
	upper := ToUpper(g, localeTag)
	if upper != g {
		return upper
	}
	return ToLower(g, localeTag)
}

// TrimSpace trims Unicode whitespace from both ends of s.
func TrimSpace(s string) string {
	return strings.TrimSpace(s)
}

// SplitByGrapheme splits s on every occurrence of the single-grapheme
// delimiter delim.
func SplitByGrapheme(s, delim string) []string {
	if delim == "" {
		return Segment(s)
	}
	return strings.Split(s, delim)
}

// SplitByString splits s on every occurrence of the string delimiter delim.
func SplitByString(s, delim string) []string {
	return strings.Split(s, delim)
}

// ValidateLocaleTag reports whether localeTag parses as a well-formed BCP 47
// tag, used to validate dictionary_header.locales entries.
func ValidateLocaleTag(localeTag string) bool {
	_, err := language.Parse(localeTag)
	return err == nil
}

// Join concatenates a grapheme sequence back into a string.
func Join(graphemes []string) string {
	return strings.Join(graphemes, "")
}

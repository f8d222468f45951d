package textnorm

import (
	"strings"
)

// accentReplacer maps accented letters used on the site to their ASCII base
// form and collapses punctuation into a dash. The table mirrors the catalog's
// own character usage; anything outside it passes through unchanged.
var accentReplacer = func() *strings.Replacer {
	from := []rune("öÖüÜóÓőŐúÚůŮéÉěĚáÁűŰíÍýÝąĄćĆčČęĘłŁńŃóÓśŚšŠźŹżŻžŽřŘďĎťŤňŇ\t @#$?%ˇ´˝¸~^˘°|/*()[]{}:<>.,;¨˛`·'_\"\\")
	to := []rune("oOuUoOoOuUuUeEeEaAuUiIyYaAcCcCeElLnNoOsSsSzZzZzZrRdDtTnN--------------------------------------")
	pairs := make([]string, 0, 2*len(from))
	for i := range from {
		pairs = append(pairs, string(from[i]), string(to[i]))
	}
	return strings.NewReplacer(pairs...)
}()

// StripAccents removes diacritics and folds listed punctuation to a dash.
// Idempotent: the output alphabet maps to itself.
func StripAccents(value string) string {
	return accentReplacer.Replace(value)
}

// Clean lower-cases after stripping accents. This is the comparison form used
// by every fuzzy title/author match.
func Clean(value string) string {
	return strings.ToLower(StripAccents(value))
}

// CleanFlat additionally drops dashes, the containment-check form used by the
// external search-engine extractors.
func CleanFlat(value string) string {
	return strings.ReplaceAll(Clean(value), "-", "")
}

// CleanSpaced folds dashes back to spaces after cleaning, restoring word
// boundaries for whole-title comparisons.
func CleanSpaced(value string) string {
	return strings.ReplaceAll(Clean(value), "-", " ")
}

// SurnameTokens derives the fuzzy author token set from a scraped author
// string: drop the leading given name, skip tokens of one or two characters,
// trim the feminine -ová suffix and keep both inflected forms. Deliberately
// lossy; the permissiveness is part of the matching contract.
func SurnameTokens(author string) map[string]struct{} {
	cleaned := strings.ToLower(strings.ReplaceAll(author, " (p)", ""))
	parts := strings.Fields(cleaned)
	tokens := make(map[string]struct{})
	if len(parts) < 2 {
		return tokens
	}
	for _, part := range parts[1:] {
		if len([]rune(part)) <= 2 {
			continue
		}
		base := strings.Trim(part, "ová")
		tokens[base] = struct{}{}
		tokens[base+"ová"] = struct{}{}
	}
	return tokens
}

// QueryTokens splits the queried author names into a lower-cased token set,
// commas stripped. Every name part counts, given names included.
func QueryTokens(authors []string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, part := range strings.Fields(strings.Join(authors, " ")) {
		token := strings.ToLower(strings.ReplaceAll(part, ",", ""))
		if token != "" {
			tokens[token] = struct{}{}
		}
	}
	return tokens
}

// Intersects reports whether the two token sets share any element.
func Intersects(a map[string]struct{}, b map[string]struct{}) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for token := range a {
		if _, ok := b[token]; ok {
			return true
		}
	}
	return false
}

// SharedCount returns the number of tokens present in both sets.
func SharedCount(a map[string]struct{}, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	count := 0
	for token := range a {
		if _, ok := b[token]; ok {
			count++
		}
	}
	return count
}

// Surname extracts the comparison form of the last name part of a full name.
func Surname(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	return Clean(parts[len(parts)-1])
}

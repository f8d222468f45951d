package legie

import (
	"regexp"
	"strings"

	"github.com/seeder/legie-metadata/internal/textnorm"
)

// titleMetaPattern matches identifier:value pairs embedded in the free-text
// title field, e.g. "legie:123 pubdate:1996 Čaroprávnost".
var titleMetaPattern = regexp.MustCompile(`(?:(?:` +
	`isbn|ean|oclc|` +
	`dbk|dbknih|databazeknih|` +
	`dbkp|dbk_povidka|databazeknih_povidka|dbknih_povidka|` +
	`xtrance_id|xtrance|xtr|` +
	`legie|legie_povidka|` +
	`pitaval|pitaval_povidka|` +
	`publisher|pubdate|pubyear|language|lang|` +
	`type|search` +
	`):(?:\S*)(?: |$))`)

var identifierAliases = map[string][]string{
	"databazeknih":         {"databazeknih", "dbknih", "dbk"},
	"databazeknih_povidka": {"databazeknih_povidka", "dbknih_povidka", "dbk_povidka", "dbk_p", "dbkp"},
	"legie":                {"legie"},
	"legie_povidka":        {"legie_povidka"},
	"pitaval":              {"pitaval"},
	"pitaval_povidka":      {"pitaval_povidka"},
	"xtrance":              {"xtrance", "xtrance_id", "xtr"},
	"isbn":                 {"isbn", "ean"},
	"pubdate":              {"pubdate", "pubyear"},
	"publisher":            {"publisher"},
	"language":             {"language", "lang"},
	"type":                 {"type"},
	"search":               {"search"},
}

// ParseTitleMetadata pulls identifier:value overrides out of the title and
// merges them into the identifier map. The cleaned title, with the overrides
// and any bare ISBN removed, is returned alongside. The original identifier
// map is not mutated.
func ParseTitleMetadata(title string, identifiers map[string]string) (string, map[string]string) {
	merged := make(map[string]string, len(identifiers)+4)
	for key, value := range identifiers {
		merged[key] = value
	}
	if title != "" {
		found := titleMetaPattern.FindAllString(title, -1)
		title = titleMetaPattern.ReplaceAllString(title, "")
		title = strings.Join(strings.Fields(title), " ")
		for _, pair := range found {
			parts := strings.SplitN(strings.TrimRight(pair, " "), ":", 2)
			if len(parts) == 2 && parts[1] != "" {
				merged[parts[0]] = parts[1]
			}
		}
	}

	for canonical, keys := range identifierAliases {
		for _, key := range keys {
			if value, ok := merged[key]; ok && value != "" {
				merged[canonical] = value
				break
			}
		}
	}

	if bookType, ok := merged["type"]; ok {
		switch textnorm.Clean(bookType) {
		case "audio", "audiokniha", "audiobook":
			merged["type"] = "a"
		case "povidka", "basen", "cast-dila", "cast_dila", "part", "book_part", "tale", "poem":
			merged["type"] = "p"
		}
	}
	if engine, ok := merged["search"]; ok {
		switch textnorm.Clean(engine) {
		case "google":
			merged["search"] = "g"
		case "duckduckgo", "ddg", "duck":
			merged["search"] = "d"
		}
	}
	if publisher, ok := merged["publisher"]; ok {
		merged["publisher"] = strings.ReplaceAll(publisher, "_", " ")
	}

	// A bare valid ISBN anywhere in the title counts as the isbn identifier.
	if title != "" {
		for _, word := range strings.Fields(title) {
			if isbn := CheckISBN(word); isbn != "" {
				merged["isbn"] = word
				title = strings.Join(strings.Fields(strings.Replace(title, word, "", 1)), " ")
				break
			}
		}
	}

	// legie:103#1996 pins the edition year; the fragment moves to pubdate.
	if id, ok := merged["legie"]; ok && strings.Contains(id, "#") {
		parts := strings.SplitN(id, "#", 2)
		if merged["pubdate"] == "" {
			if len(parts[1]) == 4 && isDigits(parts[1]) {
				merged["pubdate"] = parts[1]
			}
		}
		merged["legie"] = parts[0]
	}

	return title, merged
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

package legie

import (
	"sort"
	"strconv"
	"strings"

	"github.com/seeder/legie-metadata/internal/prefs"
	"github.com/seeder/legie-metadata/internal/textnorm"
)

// CompareKey is the total-order sort key ranking finished records against
// the original query. Elements follow the 1-is-good, 2-is-bad convention of
// the flag slots; counting slots are negated so that more shared words sort
// first under plain lexicographic less-than.
type CompareKey struct {
	base  [13]int
	extra int
}

// Less orders keys lexicographically over base, then extra. The ordering is
// a strict weak ordering, so it is safe for a stable sort.
func (k CompareKey) Less(other CompareKey) bool {
	for i := range k.base {
		if k.base[i] != other.base[i] {
			return k.base[i] < other.base[i]
		}
	}
	return k.extra < other.extra
}

// CompareKeyFor builds the sort key of one record against the query. A nil
// record gets all-neutral values and sorts behind every real one.
func (r *Resolver) CompareKeyFor(record *Record, title string, authors []string, identifiers map[string]string) CompareKey {
	if record == nil {
		return CompareKey{base: [13]int{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2}}
	}

	title, ids := ParseTitleMetadata(title, identifiers)

	isbn := 2
	if record.ISBNValue() != "" && ids["isbn"] != "" && record.ISBNValue() == ids["isbn"] {
		isbn = 1
	}

	allFields := 2
	if record.Title != "" && len(record.Authors) > 0 {
		allFields = 1
	}

	exactTitle := 2
	if title != "" && title == record.Title {
		exactTitle = 1
	}

	cleanQuery := textnorm.CleanSpaced(title)
	cleanFound := textnorm.CleanSpaced(record.Title)

	exactCleanTitle := 2
	if title != "" && record.Title != "" && cleanQuery == cleanFound {
		exactCleanTitle = 1
	}
	containsTitle := 2
	if title != "" && record.Title != "" && strings.Contains(record.Title, title) {
		containsTitle = 1
	}
	containsCleanTitle := 2
	if title != "" && strings.Contains(cleanFound, cleanQuery) {
		containsCleanTitle = 1
	}

	// The accent fold turns spaces into dashes, so a flattened title is a
	// single token; the shared count is 0 or 1.
	titleShared := 0
	if flat := textnorm.CleanFlat(title); flat != "" && flat == textnorm.CleanFlat(record.Title) {
		titleShared = 1
	}

	authorShared := sharedSurnames(authors, record.Authors)

	wantedLang := ids["language"]
	if wantedLang == "" {
		switch r.prefs.IssuePreference {
		case prefs.IssueCzechNewest, prefs.IssueCzechOldest:
			wantedLang = "cs"
		case prefs.IssueSlovakNewest, prefs.IssueSlovakOldest:
			wantedLang = "sk"
		}
	}
	closestLang := 2
	if record.Language == wantedLang {
		closestLang = 0
	}

	wantedYear, _ := strconv.Atoi(ids["pubdate"])
	if wantedYear == 0 {
		switch r.prefs.IssuePreference {
		case prefs.IssueCzechNewest, prefs.IssueSlovakNewest:
			wantedYear = 10000
		}
	}
	closestYear := 0
	if wantedYear != 0 && record.PubYear != 0 {
		closestYear = wantedYear - record.PubYear
		if closestYear < 0 {
			closestYear = -closestYear
		}
	}

	hasCover := 2
	if r.recordHasCover(record) {
		hasCover = 1
	}

	return CompareKey{
		base: [13]int{
			neutral(record.AuthorMatchRelevance),
			neutral(record.TitleRelevance),
			exactTitle,
			exactCleanTitle,
			containsTitle,
			-titleShared,
			containsCleanTitle,
			-authorShared,
			closestLang,
			closestYear,
			allFields,
			isbn,
			hasCover,
		},
		extra: record.SourceRelevance,
	}
}

// recordHasCover prefers the cached cover lookup when a cache is wired,
// falling back to the record's own cover list.
func (r *Resolver) recordHasCover(record *Record) bool {
	if record.HasCover {
		return true
	}
	if r.covers == nil || record.Identifiers == nil {
		return false
	}
	for _, key := range []string{"legie", "legie_povidka"} {
		if id := record.Identifiers[key]; id != "" {
			if urls, err := r.covers.CachedCover(id); err == nil && len(urls) > 0 {
				return true
			}
		}
	}
	return false
}

func sharedSurnames(query []string, found []string) int {
	return textnorm.SharedCount(surnameSet(query), surnameSet(found))
}

func surnameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		if surname := textnorm.Surname(name); surname != "" {
			set[surname] = struct{}{}
		}
	}
	return set
}

func neutral(value int) int {
	if value == 0 {
		return 2
	}
	return value
}

// SortRecords stable-sorts records best-first by their compare keys.
func (r *Resolver) SortRecords(records []Record, title string, authors []string, identifiers map[string]string) {
	type keyed struct {
		record Record
		key    CompareKey
	}
	pairs := make([]keyed, len(records))
	for i := range records {
		pairs[i] = keyed{records[i], r.CompareKeyFor(&records[i], title, authors, identifiers)}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].key.Less(pairs[j].key)
	})
	for i := range pairs {
		records[i] = pairs[i].record
	}
}

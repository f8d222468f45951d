package legie

import (
	"strconv"
	"strings"
	"time"

	"github.com/seeder/legie-metadata/internal/prefs"
	"github.com/seeder/legie-metadata/internal/textnorm"
)

// collectiveAuthors are non-personal author strings that must never be
// name-swapped, compared accent- and case-insensitively.
var collectiveAuthors = map[string]struct{}{
	"kolektiv-autoru": {},
	"kolektiv":        {},
	"antologie":       {},
	"anonym":          {},
	"neznamy":         {},
	"various":         {},
}

// Compose builds the final record from one chosen issue. Pure transform; the
// issue is not modified.
func (r *Resolver) Compose(issue Issue) Record {
	p := r.prefs

	record := Record{
		Title:           composeLine(issue, p.TitleTemplate, p),
		Authors:         composeAuthors(issue, p),
		Series:          composeLine(issue, p.SeriesTemplate, p),
		SeriesIndex:     composeSeriesIndex(issue, p),
		Publisher:       composeLine(issue, p.PublisherTemplate, p),
		PubDate:         issue.PubDate,
		PubYear:         issue.PubYear,
		Language:        issue.Language,
		Rating:          float64(issue.RatingPercent) / 20,
		Tags:            composeTags(issue, p),
		Comments:        composeComments(issue, p),
		Identifiers:     composeIdentifiers(issue, p),
		SourceRelevance: issue.SourceRelevance,
	}

	if p.FirstPublication && issue.OrigYear > 0 {
		record.PubYear = issue.OrigYear
		record.PubDate = yearDate(issue.OrigYear)
	}

	covers := issue.CoverURLs
	if p.MaxCovers >= 0 && len(covers) > p.MaxCovers {
		covers = covers[:p.MaxCovers]
	}
	record.CoverURLs = covers
	record.HasCover = len(covers) > 0

	return record
}

// resolveToken maps one template token to its values for this issue. List
// tokens (tags, awards, contained works) return every element; scalar tokens
// return a single value or nothing when the attribute is absent. There is one
// resolver; the line, tag, and identifier formatters only differ in how they
// fold the values.
func resolveToken(issue Issue, item prefs.TemplateItem, p prefs.Prefs) []string {
	single := func(value string) []string {
		if value == "" {
			return nil
		}
		return []string{value}
	}
	number := func(value int) []string {
		if value == 0 {
			return nil
		}
		return []string{strconv.Itoa(value)}
	}

	switch item.Token {
	case prefs.TokenText:
		return []string{item.Text}
	case prefs.TokenTitle:
		return single(issue.Title)
	case prefs.TokenSubtitle:
		return single(issue.Subtitle)
	case prefs.TokenOrigTitle:
		return single(issue.OrigTitle)
	case prefs.TokenPubYear:
		return number(issue.PubYear)
	case prefs.TokenOrigYear:
		return number(issue.OrigYear)
	case prefs.TokenPublisher:
		return single(mapOrFilter(issue.Publisher, p.MapPublisher, p.PublisherFilter))
	case prefs.TokenSeries:
		return single(mapOrFilter(issue.Series, p.MapSeries, p.SeriesFilter))
	case prefs.TokenSeriesIndex:
		if issue.SeriesIndex == 0 {
			return nil
		}
		return []string{strconv.FormatFloat(issue.SeriesIndex, 'f', -1, 64)}
	case prefs.TokenEdition:
		return single(mapOrFilter(issue.Edition, p.MapSeries, p.SeriesFilter))
	case prefs.TokenEditionIndex:
		if issue.EditionIndex == 0 {
			return nil
		}
		return []string{strconv.FormatFloat(issue.EditionIndex, 'f', -1, 64)}
	case prefs.TokenPages:
		return number(issue.Pages)
	case prefs.TokenPrintRun:
		return number(issue.PrintRun)
	case prefs.TokenRating:
		return number(issue.RatingPercent)
	case prefs.TokenRating5:
		if issue.RatingPercent == 0 {
			return nil
		}
		return []string{strconv.FormatFloat(float64(issue.RatingPercent)/20, 'f', -1, 64)}
	case prefs.TokenRating10:
		if issue.RatingPercent == 0 {
			return nil
		}
		return []string{strconv.FormatFloat(float64(issue.RatingPercent)/10, 'f', -1, 64)}
	case prefs.TokenRatingCount:
		return number(issue.RatingCount)
	case prefs.TokenISBN:
		return single(issue.ISBN)
	case prefs.TokenEAN:
		return single(issue.EAN)
	case prefs.TokenLanguage:
		return single(issue.Language)
	case prefs.TokenCoverType:
		return single(issue.CoverType)
	case prefs.TokenDimensions:
		return single(issue.Dimensions)
	case prefs.TokenPrice:
		return single(issue.Price)
	case prefs.TokenNote:
		return single(issue.Note)
	case prefs.TokenDescription:
		return single(issue.Description)
	case prefs.TokenTags:
		var tags []string
		for _, category := range issue.Categories {
			tags = append(tags, p.MapCategory(category)...)
		}
		return tags
	case prefs.TokenAwards:
		return issue.Awards
	case prefs.TokenContainedIn:
		return issue.ContainedIn
	case prefs.TokenSeparately:
		return issue.Separately
	case prefs.TokenOrigID:
		return single(issueKey(issue))
	case prefs.TokenSourceRelevance:
		return []string{strconv.Itoa(issue.SourceRelevance)}
	}
	return nil
}

// composeLine folds a template into one scalar field, space-joining the
// enabled tokens in order.
func composeLine(issue Issue, template []prefs.TemplateItem, p prefs.Prefs) string {
	var parts []string
	for _, item := range template {
		if !item.Enabled {
			continue
		}
		for _, value := range resolveToken(issue, item, p) {
			if value != "" {
				parts = append(parts, value)
			}
		}
	}
	return strings.Join(parts, " ")
}

// composeTags folds the tag blocks into a deduplicated tag list.
func composeTags(issue Issue, p prefs.Prefs) []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, item := range p.TagBlocks {
		if !item.Enabled {
			continue
		}
		for _, value := range resolveToken(issue, item, p) {
			if value == "" {
				continue
			}
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}
			tags = append(tags, value)
		}
	}
	return tags
}

// composeComments folds the comment blocks into one HTML string, one
// paragraph per value. The description is already paragraph-formatted and
// passes through as is.
func composeComments(issue Issue, p prefs.Prefs) string {
	var blocks []string
	for _, item := range p.CommentBlocks {
		if !item.Enabled {
			continue
		}
		values := resolveToken(issue, item, p)
		if item.Token == prefs.TokenSeries && issue.Series != "" && issue.SeriesIndex > 0 {
			values = []string{issue.Series + " (" +
				strconv.FormatFloat(issue.SeriesIndex, 'f', -1, 64) + ". díl)"}
		}
		for _, value := range values {
			if value == "" {
				continue
			}
			if item.Token == prefs.TokenDescription {
				blocks = append(blocks, value)
				continue
			}
			blocks = append(blocks, "<p>"+value+"</p>")
		}
	}
	return strings.Join(blocks, "")
}

// composeIdentifiers folds the identifier exports into the identifier map.
// The catalog id always exports under "legie" for books and "legie_povidka"
// for tales.
func composeIdentifiers(issue Issue, p prefs.Prefs) map[string]string {
	ids := make(map[string]string)
	for _, item := range p.IdentifierExports {
		if !item.Enabled {
			continue
		}
		values := resolveToken(issue, item, p)
		if len(values) == 0 {
			continue
		}
		switch item.Token {
		case prefs.TokenOrigID:
			key := "legie"
			if issue.ID == "" && issue.TaleID != "" {
				key = "legie_povidka"
			}
			ids[key] = values[0]
		case prefs.TokenISBN:
			ids["isbn"] = values[0]
		case prefs.TokenEAN:
			ids["ean"] = values[0]
		case prefs.TokenPubYear:
			ids["pubdate"] = values[0]
		case prefs.TokenRating:
			ids["rating"] = values[0]
		}
	}
	return ids
}

// composeSeriesIndex resolves the configured index token to a number,
// falling back to the scraped series index when the token yields nothing
// numeric.
func composeSeriesIndex(issue Issue, p prefs.Prefs) float64 {
	values := resolveToken(issue, prefs.TemplateItem{Token: p.SeriesIndexToken, Enabled: true}, p)
	if len(values) > 0 {
		if index, err := strconv.ParseFloat(values[0], 64); err == nil {
			return index
		}
	}
	return issue.SeriesIndex
}

// composeAuthors builds the ordered author list from the enabled role
// buckets, optionally truncated to one name, role-annotated, and swapped to
// "Last First". Collective author strings are never swapped. Duplicates keep
// their first occurrence.
func composeAuthors(issue Issue, p prefs.Prefs) []string {
	type bucket struct {
		names   []string
		role    string
		include bool
	}
	buckets := []bucket{
		{issue.Authors, "", p.AuthorsInclude},
		{issue.Translators, "překlad", p.TranslatorsInclude},
		{issue.Illustrators, "ilustrace", p.IllustratorsInclude},
		{issue.CoverAuthors, "obálka", p.CoverAuthorsInclude},
	}

	var authors []string
	seen := make(map[string]struct{})
	for _, b := range buckets {
		if !b.include {
			continue
		}
		for _, name := range b.names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if p.SwapAuthors && !isCollectiveAuthor(name) {
				name = swapName(name)
			}
			if p.AuthorRole && b.role != "" {
				name = name + " (" + b.role + ")"
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			authors = append(authors, name)
		}
		if p.OneAuthor && len(authors) > 0 {
			break
		}
	}

	if p.OneAuthor && len(authors) > 1 {
		authors = authors[:1]
	}
	return authors
}

func isCollectiveAuthor(name string) bool {
	_, collective := collectiveAuthors[textnorm.Clean(name)]
	return collective
}

// swapName turns "First Last" into "Last First"; single-token names pass
// through.
func swapName(name string) string {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return name
	}
	last := fields[len(fields)-1]
	rest := strings.Join(fields[:len(fields)-1], " ")
	return last + " " + rest
}

// mapOrFilter runs a name through a mapping table; with the filter on,
// unmapped names are dropped instead of passed through.
func mapOrFilter(name string, mapFn func(string) string, filter bool) string {
	if name == "" {
		return ""
	}
	mapped := mapFn(name)
	if filter && mapped == name {
		return ""
	}
	return mapped
}

func yearDate(year int) time.Time {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
}

package prefs

import (
	"strings"

	"github.com/seeder/legie-metadata/internal/textnorm"
)

// IssuePreference biases edition selection when the caller does not pin a
// language or year explicitly.
type IssuePreference int

const (
	IssueDefault IssuePreference = iota
	IssueCzechNewest
	IssueCzechOldest
	IssueSlovakNewest
	IssueSlovakOldest
)

// newestYearBias stands in for "prefer the highest year" when an issue
// preference asks for the newest edition.
const newestYearBias = 10000

// Prefs is an immutable snapshot of every tunable the resolver consumes. A
// snapshot is taken once per resolution and passed down explicitly; no
// component reads shared preference state.
type Prefs struct {
	MaxResults int `yaml:"max_results"`
	MaxCovers  int `yaml:"max_covers"`

	IdentifierSearch bool `yaml:"identifier_search"`
	ISBNSearch       bool `yaml:"isbn_search"`
	TalesSearch      bool `yaml:"tales_search"`
	GoogleSearch     bool `yaml:"google_search"`
	DuckDuckGoSearch bool `yaml:"duckduckgo_search"`

	IssuePreference IssuePreference `yaml:"issue_preference"`
	WantedLanguage  string          `yaml:"wanted_language"`
	WantedPublisher string          `yaml:"wanted_publisher"`
	WantedYear      int             `yaml:"wanted_year"`

	AuthorsInclude      bool `yaml:"authors_include"`
	TranslatorsInclude  bool `yaml:"translators_include"`
	IllustratorsInclude bool `yaml:"illustrators_include"`
	CoverAuthorsInclude bool `yaml:"cover_authors_include"`
	OneAuthor           bool `yaml:"one_author"`
	AuthorRole          bool `yaml:"author_role"`
	SwapAuthors         bool `yaml:"swap_authors"`

	TitleTemplate     []TemplateItem `yaml:"title_template"`
	SeriesTemplate    []TemplateItem `yaml:"series_template"`
	PublisherTemplate []TemplateItem `yaml:"publisher_template"`
	CommentBlocks     []TemplateItem `yaml:"comment_blocks"`
	TagBlocks         []TemplateItem `yaml:"tag_blocks"`
	IdentifierExports []TemplateItem `yaml:"identifier_exports"`
	SeriesIndexToken  Token          `yaml:"series_index_token"`

	// FirstPublication switches the published-date field from the scraped
	// edition to the work's first publication year.
	FirstPublication bool `yaml:"first_publication"`

	PublisherMappings map[string]string   `yaml:"publisher_mappings"`
	SeriesMappings    map[string]string   `yaml:"series_mappings"`
	CategoryMappings  map[string][]string `yaml:"category_mappings"`
	PublisherFilter   bool                `yaml:"publisher_filter"`
	SeriesFilter      bool                `yaml:"series_filter"`
	CategoryFilter    bool                `yaml:"category_filter"`
}

// Default returns the compiled-in preference snapshot.
func Default() Prefs {
	return Prefs{
		MaxResults:       5,
		MaxCovers:        1,
		IdentifierSearch: true,
		ISBNSearch:       true,
		TalesSearch:      false,
		GoogleSearch:     false,
		DuckDuckGoSearch: false,
		IssuePreference:  IssueDefault,

		AuthorsInclude:      true,
		TranslatorsInclude:  false,
		IllustratorsInclude: false,
		CoverAuthorsInclude: false,
		OneAuthor:           false,
		AuthorRole:          false,
		SwapAuthors:         false,

		TitleTemplate: []TemplateItem{
			{Token: TokenTitle, Enabled: true},
		},
		SeriesTemplate: []TemplateItem{
			{Token: TokenSeries, Enabled: true},
		},
		PublisherTemplate: []TemplateItem{
			{Token: TokenPublisher, Enabled: true},
		},
		CommentBlocks: []TemplateItem{
			{Token: TokenDescription, Enabled: true},
			{Token: TokenSeries, Enabled: true},
			{Token: TokenAwards, Enabled: true},
			{Token: TokenContainedIn, Enabled: false},
			{Token: TokenNote, Enabled: false},
		},
		TagBlocks: []TemplateItem{
			{Token: TokenTags, Enabled: true},
			{Token: TokenCoverType, Enabled: false},
			{Token: TokenAwards, Enabled: false},
		},
		IdentifierExports: []TemplateItem{
			{Token: TokenOrigID, Enabled: true},
			{Token: TokenISBN, Enabled: true},
			{Token: TokenEAN, Enabled: true},
			{Token: TokenPubYear, Enabled: false},
			{Token: TokenRating, Enabled: false},
		},
		SeriesIndexToken: TokenSeriesIndex,

		PublisherMappings: map[string]string{},
		SeriesMappings:    map[string]string{},
		CategoryMappings:  map[string][]string{},
	}
}

// WantedLang resolves the effective wanted language, deferring to the issue
// preference when the explicit want is empty.
func (p Prefs) WantedLang() string {
	if p.WantedLanguage != "" {
		return p.WantedLanguage
	}
	switch p.IssuePreference {
	case IssueCzechNewest, IssueCzechOldest:
		return "cs"
	case IssueSlovakNewest, IssueSlovakOldest:
		return "sk"
	}
	return ""
}

// WantedPubYear resolves the effective wanted year and whether one applies.
// Newest preferences bias toward a far-future year, oldest toward zero.
func (p Prefs) WantedPubYear() (int, bool) {
	if p.WantedYear != 0 {
		return p.WantedYear, true
	}
	switch p.IssuePreference {
	case IssueCzechNewest, IssueSlovakNewest:
		return newestYearBias, true
	case IssueCzechOldest, IssueSlovakOldest:
		return 0, true
	}
	return 0, false
}

// MapPublisher runs a scraped publisher name through the mapping table,
// matching keys case- and accent-insensitively. Unmapped names pass through.
func (p Prefs) MapPublisher(name string) string {
	cleaned := textnorm.Clean(strings.TrimSpace(name))
	for from, to := range p.PublisherMappings {
		if textnorm.Clean(from) == cleaned {
			return to
		}
	}
	return name
}

// MapSeries is MapPublisher for series/edition names.
func (p Prefs) MapSeries(name string) string {
	cleaned := textnorm.Clean(strings.TrimSpace(name))
	for from, to := range p.SeriesMappings {
		if textnorm.Clean(from) == cleaned {
			return to
		}
	}
	return name
}

// MapCategory expands one scraped category into calibre tags. With the
// category filter on, unmapped categories are dropped; otherwise they pass
// through unchanged.
func (p Prefs) MapCategory(name string) []string {
	cleaned := textnorm.Clean(strings.TrimSpace(name))
	for from, to := range p.CategoryMappings {
		if textnorm.Clean(from) == cleaned {
			return to
		}
	}
	if p.CategoryFilter {
		return nil
	}
	return []string{name}
}

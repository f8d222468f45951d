package legie

import (
	"reflect"
	"testing"

	"github.com/seeder/legie-metadata/internal/prefs"
)

func sampleIssue() Issue {
	return Issue{
		ID:            "103",
		URL:           BaseURL + "/kniha/103",
		Title:         "Čaroprávnost",
		OrigTitle:     "Equal Rites",
		OrigYear:      1987,
		Authors:       []string{"Terry Pratchett"},
		Translators:   []string{"Jan Kantůrek"},
		Series:        "Úžasná Zeměplocha",
		SeriesIndex:   3,
		Publisher:     "Talpress",
		PubYear:       1996,
		ISBN:          "80-7197-113-8",
		Language:      "cs",
		RatingPercent: 85,
		Categories:    []string{"fantasy", "humor"},
		Description:   "<p>Eskarina se stane čarodějkou.</p>",
	}
}

func TestComposeDefaultTitle(t *testing.T) {
	r := newParserResolver(prefs.Default())
	record := r.Compose(sampleIssue())
	if record.Title != "Čaroprávnost" {
		t.Fatalf("unexpected title: %q", record.Title)
	}
}

func TestComposeDisabledTemplateYieldsEmptyField(t *testing.T) {
	p := prefs.Default()
	p.TitleTemplate = []prefs.TemplateItem{
		{Token: prefs.TokenTitle, Enabled: false},
		{Token: prefs.TokenOrigTitle, Enabled: false},
	}
	r := newParserResolver(p)
	if got := r.Compose(sampleIssue()).Title; got != "" {
		t.Fatalf("expected empty title, got %q", got)
	}
}

func TestComposeLiteralTokenAlwaysContributes(t *testing.T) {
	p := prefs.Default()
	p.TitleTemplate = []prefs.TemplateItem{
		{Token: prefs.TokenTitle, Enabled: true},
		{Token: prefs.TokenText, Enabled: true, Text: "(ukázka)"},
	}
	r := newParserResolver(p)
	if got := r.Compose(sampleIssue()).Title; got != "Čaroprávnost (ukázka)" {
		t.Fatalf("unexpected title: %q", got)
	}
}

func TestComposeTemplateOrderIsPreserved(t *testing.T) {
	p := prefs.Default()
	p.TitleTemplate = []prefs.TemplateItem{
		{Token: prefs.TokenOrigTitle, Enabled: true},
		{Token: prefs.TokenTitle, Enabled: true},
	}
	r := newParserResolver(p)
	if got := r.Compose(sampleIssue()).Title; got != "Equal Rites Čaroprávnost" {
		t.Fatalf("unexpected title: %q", got)
	}
}

func TestComposeAuthorsSwap(t *testing.T) {
	p := prefs.Default()
	p.SwapAuthors = true
	r := newParserResolver(p)
	record := r.Compose(sampleIssue())
	if len(record.Authors) != 1 || record.Authors[0] != "Pratchett Terry" {
		t.Fatalf("unexpected authors: %v", record.Authors)
	}
}

func TestComposeAuthorsSwapSkipsCollectives(t *testing.T) {
	p := prefs.Default()
	p.SwapAuthors = true
	r := newParserResolver(p)

	issue := sampleIssue()
	issue.Authors = []string{"Kolektiv autorů", "Terry Pratchett"}
	record := r.Compose(issue)
	want := []string{"Kolektiv autorů", "Pratchett Terry"}
	if !reflect.DeepEqual(record.Authors, want) {
		t.Fatalf("unexpected authors: %v", record.Authors)
	}
}

func TestComposeAuthorsRoleSuffix(t *testing.T) {
	p := prefs.Default()
	p.TranslatorsInclude = true
	p.AuthorRole = true
	r := newParserResolver(p)
	record := r.Compose(sampleIssue())
	want := []string{"Terry Pratchett", "Jan Kantůrek (překlad)"}
	if !reflect.DeepEqual(record.Authors, want) {
		t.Fatalf("unexpected authors: %v", record.Authors)
	}
}

func TestComposeAuthorsOneAuthorTruncates(t *testing.T) {
	p := prefs.Default()
	p.TranslatorsInclude = true
	p.OneAuthor = true
	r := newParserResolver(p)
	record := r.Compose(sampleIssue())
	if len(record.Authors) != 1 || record.Authors[0] != "Terry Pratchett" {
		t.Fatalf("unexpected authors: %v", record.Authors)
	}
}

func TestComposeIdentifiers(t *testing.T) {
	r := newParserResolver(prefs.Default())
	record := r.Compose(sampleIssue())
	if record.Identifiers["legie"] != "103#1996" {
		t.Fatalf("unexpected catalog id: %v", record.Identifiers)
	}
	if record.Identifiers["isbn"] != "80-7197-113-8" {
		t.Fatalf("unexpected isbn: %v", record.Identifiers)
	}
	if _, present := record.Identifiers["pubdate"]; present {
		t.Fatalf("pubdate export is disabled by default: %v", record.Identifiers)
	}
}

func TestComposeIdentifiersTaleKey(t *testing.T) {
	r := newParserResolver(prefs.Default())
	issue := sampleIssue()
	issue.ID = ""
	issue.TaleID = "14"
	issue.PubYear = 0
	record := r.Compose(issue)
	if record.Identifiers["legie_povidka"] != "14" {
		t.Fatalf("expected tale identifier, got %v", record.Identifiers)
	}
	if _, present := record.Identifiers["legie"]; present {
		t.Fatalf("book key must not export for tales: %v", record.Identifiers)
	}
}

func TestComposeCommentsSeriesParagraph(t *testing.T) {
	r := newParserResolver(prefs.Default())
	record := r.Compose(sampleIssue())
	want := "<p>Eskarina se stane čarodějkou.</p><p>Úžasná Zeměplocha (3. díl)</p>"
	if record.Comments != want {
		t.Fatalf("unexpected comments: %q", record.Comments)
	}
}

func TestComposeTagsMappedAndDeduped(t *testing.T) {
	p := prefs.Default()
	p.CategoryMappings = map[string][]string{
		"fantasy": {"Fantasy", "Humor"},
		"humor":   {"Humor"},
	}
	r := newParserResolver(p)
	record := r.Compose(sampleIssue())
	want := []string{"Fantasy", "Humor"}
	if !reflect.DeepEqual(record.Tags, want) {
		t.Fatalf("unexpected tags: %v", record.Tags)
	}
}

func TestComposeRatingScale(t *testing.T) {
	r := newParserResolver(prefs.Default())
	if got := r.Compose(sampleIssue()).Rating; got != 4.25 {
		t.Fatalf("unexpected rating: %v", got)
	}
}

func TestComposeFirstPublicationOverridesYear(t *testing.T) {
	p := prefs.Default()
	p.FirstPublication = true
	r := newParserResolver(p)
	record := r.Compose(sampleIssue())
	if record.PubYear != 1987 {
		t.Fatalf("expected first publication year, got %d", record.PubYear)
	}
	if record.PubDate.Year() != 1987 {
		t.Fatalf("expected pubdate rewritten, got %v", record.PubDate)
	}
}

func TestComposeMaxCoversCap(t *testing.T) {
	p := prefs.Default()
	p.MaxCovers = 1
	r := newParserResolver(p)
	issue := sampleIssue()
	issue.CoverURLs = []string{"a.jpg", "b.jpg", "c.jpg"}
	record := r.Compose(issue)
	if len(record.CoverURLs) != 1 || record.CoverURLs[0] != "a.jpg" {
		t.Fatalf("unexpected covers: %v", record.CoverURLs)
	}
	if !record.HasCover {
		t.Fatalf("expected HasCover")
	}
}

func TestComposeSeriesIndexFallback(t *testing.T) {
	p := prefs.Default()
	p.SeriesIndexToken = prefs.TokenEditionIndex
	r := newParserResolver(p)
	issue := sampleIssue()
	record := r.Compose(issue)
	// Edition index absent: fall back to the scraped series index.
	if record.SeriesIndex != 3 {
		t.Fatalf("unexpected series index: %v", record.SeriesIndex)
	}

	issue.EditionIndex = 7
	record = r.Compose(issue)
	if record.SeriesIndex != 7 {
		t.Fatalf("expected configured token to win, got %v", record.SeriesIndex)
	}
}

func TestComposePublisherFilterDropsUnmapped(t *testing.T) {
	p := prefs.Default()
	p.PublisherFilter = true
	p.PublisherMappings = map[string]string{"Mladá fronta": "MF"}
	r := newParserResolver(p)
	if got := r.Compose(sampleIssue()).Publisher; got != "" {
		t.Fatalf("expected unmapped publisher dropped, got %q", got)
	}

	issue := sampleIssue()
	issue.Publisher = "Mladá fronta"
	if got := r.Compose(issue).Publisher; got != "MF" {
		t.Fatalf("expected mapped publisher, got %q", got)
	}
}

func TestSwapName(t *testing.T) {
	cases := map[string]string{
		"Terry Pratchett":   "Pratchett Terry",
		"Ursula K. Le Guin": "Guin Ursula K. Le",
		"Anonym":            "Anonym",
	}
	for in, want := range cases {
		if got := swapName(in); got != want {
			t.Fatalf("swapName(%q) = %q, want %q", in, got, want)
		}
	}
}

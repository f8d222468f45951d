package legie

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/seeder/legie-metadata/internal/covercache"
	"github.com/seeder/legie-metadata/internal/prefs"
	"github.com/seeder/legie-metadata/internal/transport"
)

// ErrNoResults is returned when the whole cascade, backfill included, found
// nothing for the query.
var ErrNoResults = errors.New("no results found")

// Resolver runs the search cascade and the detail pipeline against one
// catalog host. The base URL is injectable so tests can point it at a
// fixture server.
type Resolver struct {
	base   string
	client *transport.Client
	prefs  prefs.Prefs
	logger *slog.Logger
	covers *covercache.Store
}

func NewResolver(base string, client *transport.Client, p prefs.Prefs, logger *slog.Logger) *Resolver {
	if base == "" {
		base = BaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{base: base, client: client, prefs: p, logger: logger}
}

// WithCoverCache attaches the opportunistic cover cache. The resolver works
// without one; cached covers only short-cut later lookups.
func (r *Resolver) WithCoverCache(store *covercache.Store) *Resolver {
	r.covers = store
	return r
}

// Search runs the strategy cascade and returns up to MaxResults candidate
// detail-page URLs. An identifier or redirect hit is exact and cuts the
// cascade short; otherwise cheaper strategies run before broader ones until
// the cap fills. Rejected URLs backfill remaining slots at the very end.
func (r *Resolver) Search(ctx context.Context, title string, authors []string, ids map[string]string) ([]Candidate, error) {
	col := newCollector(r.prefs.MaxResults)
	tales := ids["type"] == "p" || ids["legie_povidka"] != ""

	steps := []func(context.Context, string, []string, map[string]string, *collector){
		r.searchByIdentifier,
		r.searchByISBN,
		r.searchByTaleIdentifier,
	}
	if tales || r.prefs.TalesSearch {
		steps = append(steps,
			r.searchEngineTales,
			r.searchNativeTales,
		)
	}
	if !tales {
		steps = append(steps,
			r.searchEngineBooks,
			r.searchNativeBooks,
		)
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		step(ctx, title, authors, ids, col)
		if col.exact {
			return col.matches, nil
		}
		if col.full() {
			break
		}
	}

	col.backfill()
	if len(col.matches) == 0 {
		return nil, ErrNoResults
	}
	return col.matches, nil
}

func (r *Resolver) searchByIdentifier(ctx context.Context, _ string, _ []string, ids map[string]string, col *collector) {
	if !r.prefs.IdentifierSearch {
		return
	}
	id := ids["legie"]
	if id == "" {
		return
	}
	pageURL := IdentifierURL(r.base, id, false)
	_, finalURL, err := r.client.FetchDocument(ctx, pageURL)
	if err != nil {
		r.logger.Warn("identifier lookup failed", "url", pageURL, "error", err)
		return
	}
	// The site answers an unknown id with a redirect away from the detail
	// path; a final URL still carrying the id proves the match.
	if strings.Contains(finalURL, id) {
		col.addMatch(finalURL, StrategyIdentifier, true)
	}
}

func (r *Resolver) searchByTaleIdentifier(ctx context.Context, _ string, _ []string, ids map[string]string, col *collector) {
	if !r.prefs.IdentifierSearch {
		return
	}
	id := ids["legie_povidka"]
	if id == "" {
		return
	}
	pageURL := IdentifierURL(r.base, id, true)
	_, finalURL, err := r.client.FetchDocument(ctx, pageURL)
	if err != nil {
		r.logger.Warn("tale identifier lookup failed", "url", pageURL, "error", err)
		return
	}
	if strings.Contains(finalURL, id) {
		col.addMatch(finalURL, StrategyTaleIdentifier, true)
	}
}

// searchByISBN runs the catalog's ISBN form, first over the main ISBN field,
// then over the edition-note field where older records hide their codes. The
// EAN identifier gets the same treatment when it differs from the ISBN.
func (r *Resolver) searchByISBN(ctx context.Context, title string, authors []string, ids map[string]string, col *collector) {
	if !r.prefs.ISBNSearch {
		return
	}
	isbn := CheckISBN(ids["isbn"])
	ean := CheckISBN(ids["ean"])
	if ean == isbn {
		ean = ""
	}

	for _, lookup := range []struct {
		code     string
		strategy Strategy
	}{
		{isbn, StrategyISBN},
		{ean, StrategyEAN},
	} {
		if lookup.code == "" {
			continue
		}
		for _, notes := range []bool{false, true} {
			if col.exact || col.full() || ctx.Err() != nil {
				return
			}
			pageURL := ISBNSearchURL(r.base, lookup.code, notes)
			doc, finalURL, err := r.client.FetchDocument(ctx, pageURL)
			if err != nil {
				r.logger.Warn("isbn lookup failed", "url", pageURL, "error", err)
				continue
			}
			// A single hit redirects straight to the book page.
			if !strings.Contains(finalURL, lookup.code) && strings.Contains(finalURL, "/kniha/") {
				col.addMatch(finalURL, lookup.strategy, true)
				return
			}
			r.parseNativeResults(doc, title, authors, col, lookup.strategy)
		}
	}
}

func (r *Resolver) searchEngineBooks(ctx context.Context, title string, authors []string, ids map[string]string, col *collector) {
	r.searchEngines(ctx, title, authors, ids, col, false)
}

func (r *Resolver) searchEngineTales(ctx context.Context, title string, authors []string, ids map[string]string, col *collector) {
	r.searchEngines(ctx, title, authors, ids, col, true)
}

// searchEngines queries the external engines the preferences allow. A search
// override in the identifiers narrows the run to the named engine.
func (r *Resolver) searchEngines(ctx context.Context, title string, authors []string, ids map[string]string, col *collector, tales bool) {
	if title == "" {
		return
	}
	override := ids["search"]
	useGoogle := r.prefs.GoogleSearch || override == "g"
	useDuck := r.prefs.DuckDuckGoSearch || override == "d"
	if override == "g" {
		useDuck = false
	}
	if override == "d" {
		useGoogle = false
	}

	if useGoogle && !col.full() && ctx.Err() == nil {
		pageURL := GoogleSearchURL(r.base, title, authors, tales)
		doc, _, err := r.client.FetchDocument(ctx, pageURL)
		if err != nil {
			r.logger.Warn("google search failed", "url", pageURL, "error", err)
		} else {
			r.parseGoogleResults(doc, title, authors, col)
		}
	}
	if useDuck && !col.full() && ctx.Err() == nil {
		pageURL := DuckDuckGoSearchURL(r.base, title, authors, tales)
		doc, _, err := r.client.FetchDocument(ctx, pageURL)
		if err != nil {
			r.logger.Warn("duckduckgo search failed", "url", pageURL, "error", err)
		} else {
			r.parseDuckDuckGoResults(doc, title, authors, col)
		}
	}
}

// searchNativeTales degrades the tale search the same way as the book search:
// the full query, title alone, then single title words.
func (r *Resolver) searchNativeTales(ctx context.Context, title string, authors []string, _ map[string]string, col *collector) {
	type variant struct {
		title   string
		authors []string
	}
	variants := []variant{
		{title, authors},
		{title, nil},
	}
	for _, word := range longestWords(title) {
		variants = append(variants, variant{word, authors})
	}
	for _, v := range variants {
		if col.exact || col.full() || ctx.Err() != nil {
			return
		}
		if v.title == "" && len(v.authors) == 0 {
			continue
		}
		r.searchNativeOnce(ctx, v.title, v.authors, col, true)
	}
}

// searchNativeBooks walks the native search variants from most to least
// specific: the full query, title alone, single title words, then author-only
// forms down to single name fragments, surname first, for catalogs that file
// "First Last" as "Last First".
func (r *Resolver) searchNativeBooks(ctx context.Context, title string, authors []string, _ map[string]string, col *collector) {
	type variant struct {
		title   string
		authors []string
	}
	variants := []variant{
		{title, authors},
		{title, nil},
	}
	for _, word := range longestWords(title) {
		variants = append(variants, variant{word, authors})
	}
	variants = append(variants, variant{"", authors})
	if len(authors) > 1 {
		for _, author := range authors {
			variants = append(variants, variant{"", []string{author}})
		}
	}
	for _, author := range authors {
		for _, fragment := range nameFragments(author) {
			variants = append(variants, variant{"", []string{fragment}})
		}
	}

	for _, v := range variants {
		if col.exact || col.full() || ctx.Err() != nil {
			return
		}
		if v.title == "" && joinAuthors(v.authors) == "" {
			continue
		}
		r.searchNativeOnce(ctx, v.title, v.authors, col, false)
	}
}

func (r *Resolver) searchNativeOnce(ctx context.Context, title string, authors []string, col *collector, tales bool) {
	strategy := StrategyNative
	if tales {
		strategy = StrategyNativeTales
	}
	pageURL := NativeSearchURL(r.base, title, authors, tales)
	doc, finalURL, err := r.client.FetchDocument(ctx, pageURL)
	if err != nil {
		r.logger.Warn("native search failed", "url", pageURL, "error", err)
		return
	}
	// A single hit skips the result listing and lands on the detail page.
	if !strings.Contains(finalURL, "index.php?") {
		col.addMatch(finalURL, strategy, true)
		return
	}
	r.parseNativeResults(doc, title, authors, col, strategy)
}

// longestWords returns the title words as fallback single-word search terms,
// longest first, equal lengths lexically. Single-word titles yield nothing;
// the word would repeat the title-only variant.
func longestWords(title string) []string {
	words := strings.Fields(title)
	if len(words) < 2 {
		return nil
	}
	sort.SliceStable(words, func(i, j int) bool {
		li, lj := len([]rune(words[i])), len([]rune(words[j]))
		if li != lj {
			return li > lj
		}
		return words[i] < words[j]
	})
	return words
}

// nameFragments splits an author name into single search terms, parts in
// reverse order, so the usual "First Last" form queries the surname first.
// Single-token names yield nothing; the whole name was already queried.
func nameFragments(name string) []string {
	name = strings.ReplaceAll(name, ",", " ")
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return nil
	}
	fragments := make([]string, 0, len(fields))
	for i := len(fields) - 1; i >= 0; i-- {
		fragments = append(fragments, fields[i])
	}
	return fragments
}

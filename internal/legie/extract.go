package legie

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/seeder/legie-metadata/internal/textnorm"
)

// collector accumulates matched and rejected candidate URLs across cascade
// steps. A URL never enters the matched set twice and the matched set never
// grows past the cap; rejected URLs are kept in discovery order as backfill.
type collector struct {
	cap       int
	matches   []Candidate
	noMatches []string
	seen      map[string]struct{}
	seenNo    map[string]struct{}
	exact     bool
}

func newCollector(cap int) *collector {
	return &collector{
		cap:    cap,
		seen:   make(map[string]struct{}),
		seenNo: make(map[string]struct{}),
	}
}

func (c *collector) full() bool {
	return len(c.matches) >= c.cap
}

func (c *collector) addMatch(url string, strategy Strategy, exact bool) {
	if url == "" {
		return
	}
	if _, dup := c.seen[url]; dup {
		return
	}
	if c.full() {
		return
	}
	c.seen[url] = struct{}{}
	c.matches = append(c.matches, Candidate{URL: url, Strategy: strategy, Exact: exact})
	if exact {
		c.exact = true
	}
}

func (c *collector) addNoMatch(url string) {
	if url == "" {
		return
	}
	if _, dup := c.seenNo[url]; dup {
		return
	}
	c.seenNo[url] = struct{}{}
	c.noMatches = append(c.noMatches, url)
}

// backfill promotes rejected URLs into the matched set, in discovery order,
// until the cap is reached. Better a doubtful candidate than none.
func (c *collector) backfill() {
	for _, url := range c.noMatches {
		if c.full() {
			return
		}
		if _, dup := c.seen[url]; dup {
			continue
		}
		c.seen[url] = struct{}{}
		c.matches = append(c.matches, Candidate{URL: url, Strategy: StrategyBackfill})
	}
}

// parseNativeResults walks the catalog's search-result table. The accept gate
// is accent-insensitive title equality alone; the author overlap is computed
// and logged but deliberately not used to accept, matching the site's loose
// result ordering. Do not "fix" this without revisiting the cascade order.
func (r *Resolver) parseNativeResults(doc *goquery.Document, origTitle string, origAuthors []string, col *collector, strategy Strategy) {
	origTokens := textnorm.QueryTokens(origAuthors)
	cleanOrigTitle := textnorm.Clean(origTitle)

	rows := resultTableRows(doc)
	r.logger.Debug("native search results", "rows", rows.Length())

	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		link := row.Find(`td a[href*="kniha/"], td a[href*="povidka/"]`).First()
		if link.Length() == 0 {
			return true
		}
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if href == "" {
			return true
		}
		resultURL := r.base + "/" + strings.TrimPrefix(href, "/")

		firstAuthor := strings.TrimSpace(row.Find(`td a[href*="autor/"]`).First().Text())
		foundTokens := textnorm.SurnameTokens(firstAuthor)
		if len(origTokens) > 0 && textnorm.Intersects(origTokens, foundTokens) {
			r.logger.Debug("author tokens overlap", "candidate", title, "author", firstAuthor)
		}

		if origTitle != "" && title != "" && cleanOrigTitle == textnorm.Clean(title) {
			col.addMatch(resultURL, strategy, false)
		} else {
			col.addNoMatch(resultURL)
		}
		return !col.full()
	})
}

// resultTableRows selects the data rows of the bordered result table, which
// carries an "Autor/Autoři díla" or "Název" header on both the book and tale
// result pages.
func resultTableRows(doc *goquery.Document) *goquery.Selection {
	var rows *goquery.Selection
	doc.Find("table.tabulka-s-okraji").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		header := table.Find("th").Text()
		if !strings.Contains(header, "Autor/Autoři díla") && !strings.Contains(header, "Název") {
			return true
		}
		rows = table.Find("tr").FilterFunction(func(_ int, row *goquery.Selection) bool {
			return row.Find("th").Length() == 0
		})
		return false
	})
	if rows == nil {
		rows = doc.Find("table.nonexistent")
	}
	return rows
}

// parseGoogleResults extracts candidate URLs from a site-restricted Google
// result page.
func (r *Resolver) parseGoogleResults(doc *goquery.Document, origTitle string, origAuthors []string, col *collector) {
	results := doc.Find("div#main div").FilterFunction(func(_ int, block *goquery.Selection) bool {
		return block.ChildrenFiltered("div").Find("a h3").Length() > 0
	})
	r.logger.Debug("google search results", "count", results.Length())

	results.EachWithBreak(func(_ int, block *goquery.Selection) bool {
		link := block.Find("div a").First()
		foundTitle := strings.TrimSpace(link.Find("h3 div").Text())
		if foundTitle == "" {
			foundTitle = strings.TrimSpace(link.Find("h3").Text())
		}
		href, _ := link.Attr("href")
		resultURL := r.siteURLFrom(href)
		if resultURL == "" || foundTitle == "" {
			return true
		}
		r.classifyEngineResult(foundTitle, resultURL, origTitle, origAuthors, col, StrategyGoogle)
		return !col.full()
	})
}

// parseDuckDuckGoResults extracts candidate URLs from the DuckDuckGo HTML
// result list.
func (r *Resolver) parseDuckDuckGoResults(doc *goquery.Document, origTitle string, origAuthors []string, col *collector) {
	results := doc.Find("h2 a")
	r.logger.Debug("duckduckgo search results", "count", results.Length())

	results.EachWithBreak(func(_ int, link *goquery.Selection) bool {
		foundTitle := strings.TrimSpace(link.Text())
		if cut := strings.Index(foundTitle, " | "); cut >= 0 {
			foundTitle = foundTitle[:cut]
		}
		href, _ := link.Attr("href")
		resultURL := strings.SplitN(href, "?", 2)[0]
		if !strings.Contains(resultURL, r.base) || foundTitle == "" {
			return true
		}
		r.classifyEngineResult(foundTitle, resultURL, origTitle, origAuthors, col, StrategyDuckDuckGo)
		return !col.full()
	})
}

// siteURLFrom cuts the catalog URL out of an engine redirect href, dropping
// any trailing engine parameters.
func (r *Resolver) siteURLFrom(href string) string {
	idx := strings.Index(href, r.base)
	if idx < 0 {
		return ""
	}
	rest := href[idx:]
	if amp := strings.Index(rest, "&"); amp >= 0 {
		rest = rest[:amp]
	}
	return rest
}

// classifyEngineResult applies the external-engine accept gate: surname-token
// intersection first, title containment as the fallback when no author
// matched.
func (r *Resolver) classifyEngineResult(foundTitle string, resultURL string, origTitle string, origAuthors []string, col *collector, strategy Strategy) {
	titlePart := foundTitle
	authorPart := foundTitle
	if parts := strings.Split(foundTitle, "-"); len(parts) == 2 {
		titlePart, authorPart = parts[0], parts[1]
	}

	accepted := false
	if len(origAuthors) > 0 {
		origTokens := textnorm.QueryTokens(origAuthors)
		foundTokens := textnorm.SurnameTokens(authorPart)
		accepted = textnorm.Intersects(origTokens, foundTokens)
	}
	if !accepted && origTitle != "" &&
		strings.Contains(textnorm.CleanFlat(titlePart), textnorm.CleanFlat(origTitle)) {
		accepted = true
	}

	if accepted {
		col.addMatch(resultURL, strategy, false)
	} else {
		col.addNoMatch(resultURL)
	}
}

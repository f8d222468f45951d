package legie

import (
	"net/url"
	"strings"
)

// discardedAuthors are placeholder names the host uses for unknown authors;
// they would only poison the search terms.
var discardedAuthors = map[string]struct{}{
	"Unknown": {},
	"Neznámý": {},
}

// joinAuthors flattens the author list into one search term, dropping
// placeholder names.
func joinAuthors(authors []string) string {
	kept := make([]string, 0, len(authors))
	for _, author := range authors {
		if _, drop := discardedAuthors[author]; drop {
			continue
		}
		kept = append(kept, author)
	}
	return strings.Join(kept, " ")
}

// NativeSearchURL builds the catalog's own search form URL. The tales variant
// searches the short-works section.
func NativeSearchURL(base string, title string, authors []string, tales bool) string {
	section := "knihy"
	if tales {
		section = "povidky"
	}
	return base + "/index.php?cast=" + section +
		"&search_text=" + url.QueryEscape(title) +
		"&search_autor_kp=" + url.QueryEscape(joinAuthors(authors))
}

// GoogleSearchURL builds a site-restricted Google query over detail pages.
func GoogleSearchURL(base string, title string, authors []string, tales bool) string {
	return googleSearchURL + "site:" + base + detailPath(tales) + "+" +
		url.QueryEscape(title) + "+" + url.QueryEscape(joinAuthors(authors)) +
		"&num=50&udm=14"
}

// DuckDuckGoSearchURL builds a site-restricted DuckDuckGo HTML query.
func DuckDuckGoSearchURL(base string, title string, authors []string, tales bool) string {
	return duckduckgoSearchURL + "site:" + base + detailPath(tales) + "+" +
		url.QueryEscape(title) + "+" + url.QueryEscape(joinAuthors(authors))
}

func detailPath(tales bool) string {
	if tales {
		return "/povidka/"
	}
	return "/kniha/"
}

// IdentifierURL is the direct detail-page URL for a catalog identifier.
func IdentifierURL(base string, id string, tale bool) string {
	return base + detailPath(tale) + id
}

// ISBNSearchURL builds the catalog's ISBN lookup; with notes set it searches
// the edition-note field instead of the main ISBN field.
func ISBNSearchURL(base string, isbn string, notes bool) string {
	field := "search_isbn"
	if notes {
		field = "search_vydani_poznamka"
	}
	return base + "/index.php?search_ignorovat_casopisy=on&omezeni=ksp&" +
		field + "=" + url.QueryEscape(isbn)
}

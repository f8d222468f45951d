package legie

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	bookIDPattern      = regexp.MustCompile(`/kniha/(\d+)`)
	taleIDPattern      = regexp.MustCompile(`/povidka/(\d+)`)
	seriesIndexPattern = regexp.MustCompile(`díl v sérii: (\d+)`)
	isbnCodePattern    = regexp.MustCompile(`([0-9\-xX]+)`)
	approxDatePattern  = regexp.MustCompile(`\b(\d{2})\.(\d{2})\.(\d{4})\b`)
	origYearPattern    = regexp.MustCompile(`\b(\d{4})\b`)
)

// workDetail holds everything scraped from one main detail page: the
// work-level data shared by every edition.
type workDetail struct {
	ID     string
	TaleID string
	URL    string

	Title     string
	OrigTitle string
	OrigYear  int

	Authors []string

	RatingPercent int
	RatingCount   int
	Comments      string

	Series      string
	SeriesIndex float64
	Tags        []string

	CoverURL string

	AwardsURL string
	TalesURL  string
}

// edition is one row of the editions sub-page.
type edition struct {
	Year      int
	PubDate   time.Time
	CoverURL  string
	Publisher string
	ISBN      string
}

// BookID extracts the numeric catalog id from a book detail URL.
func BookID(url string) string {
	if m := bookIDPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// TaleID extracts the numeric catalog id from a tale detail URL.
func TaleID(url string) string {
	if m := taleIDPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// parseDetail scrapes the main detail page. Missing title, authors, or id is
// the one fatal case; every other field degrades to empty.
func (r *Resolver) parseDetail(doc *goquery.Document, pageURL string) (workDetail, error) {
	detail := workDetail{
		ID:     BookID(pageURL),
		TaleID: TaleID(pageURL),
		URL:    pageURL,
	}

	detail.Title = strings.TrimSpace(doc.Find("h2#nazev_knihy").First().Text())
	doc.Find("div#pro_obal").First().Parent().Find("h3 a").Each(func(_ int, link *goquery.Selection) {
		if author := strings.TrimSpace(link.Text()); author != "" {
			detail.Authors = append(detail.Authors, author)
		}
	})

	if detail.Title == "" || len(detail.Authors) == 0 || (detail.ID == "" && detail.TaleID == "") {
		return detail, fmt.Errorf("missing title/authors/id on %s", pageURL)
	}

	if pct := strings.TrimSpace(doc.Find("div#procenta span").First().Text()); pct != "" {
		if value, err := strconv.Atoi(pct); err == nil {
			detail.RatingPercent = value
		} else {
			r.logger.Debug("unparsable rating", "url", pageURL, "value", pct)
		}
	}

	detail.Comments = parseComments(doc)
	detail.Series, detail.SeriesIndex = parseSeries(doc)
	detail.Tags = parseDetailTags(doc)

	if src, ok := doc.Find("img#hlavni_obalka").First().Attr("src"); ok && src != "" {
		detail.CoverURL = r.base + "/" + strings.TrimPrefix(src, "/")
	}

	detail.OrigTitle, detail.OrigYear = parseOriginal(doc)

	// Sub-pages are fetched only when the main page links to them.
	doc.Find("a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		switch {
		case detail.AwardsURL == "" && strings.Contains(href, "/oceneni"):
			detail.AwardsURL = r.base + "/" + strings.TrimPrefix(href, "/")
		case detail.TalesURL == "" && strings.Contains(href, "/povidky"):
			detail.TalesURL = r.base + "/" + strings.TrimPrefix(href, "/")
		}
		return detail.AwardsURL == "" || detail.TalesURL == ""
	})

	return detail, nil
}

// parseComments joins the annotation paragraphs into simple <p> blocks. The
// site renders the annotation under div#anotace, or div#nic when none was
// submitted yet.
func parseComments(doc *goquery.Document) string {
	paragraphs := doc.Find("div#anotace strong ~ p")
	if paragraphs.Length() == 0 {
		paragraphs = doc.Find("div#nic strong ~ p")
	}
	var blocks []string
	paragraphs.Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			blocks = append(blocks, "<p>"+text+"</p>")
		}
	})
	return strings.Join(blocks, "")
}

func parseSeries(doc *goquery.Document) (string, float64) {
	var name string
	var index float64
	doc.Find("div#kniha_info div p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if !strings.HasPrefix(strings.TrimSpace(p.Text()), "série:") {
			return true
		}
		name = strings.TrimSpace(p.Find("a").First().Text())
		if m := seriesIndexPattern.FindStringSubmatch(p.Text()); m != nil {
			if value, err := strconv.Atoi(m[1]); err == nil {
				index = float64(value)
			}
		}
		return false
	})
	return name, index
}

func parseDetailTags(doc *goquery.Document) []string {
	var tags []string
	doc.Find("div#kniha_info div p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if !strings.HasPrefix(strings.TrimSpace(p.Text()), "Kategorie:") {
			return true
		}
		p.Find("a").Each(func(_ int, link *goquery.Selection) {
			if tag := strings.TrimSpace(link.Text()); tag != "" {
				tags = append(tags, tag)
			}
		})
		return false
	})
	return tags
}

// parseOriginal reads the original title and first-publication year out of
// the info block's free-text lines.
func parseOriginal(doc *goquery.Document) (string, int) {
	var origTitle string
	var origYear int
	doc.Find("div#kniha_info div p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		switch {
		case strings.HasPrefix(text, "originální název:"):
			origTitle = strings.TrimSpace(strings.TrimPrefix(text, "originální název:"))
		case strings.HasPrefix(text, "rok vydání originálu:"):
			if m := origYearPattern.FindString(text); m != "" {
				origYear, _ = strconv.Atoi(m)
			}
		}
	})
	return origTitle, origYear
}

// fetchEditions loads the /vydani sub-page and parses one edition per block.
// When pinnedYear is set and an edition matches it, only that edition is
// returned.
func (r *Resolver) fetchEditions(ctx context.Context, detailURL string, pinnedYear string) ([]edition, error) {
	baseURL := detailURL
	if cut := strings.Index(baseURL, "#"); cut >= 0 {
		if pinnedYear == "" {
			pinnedYear = baseURL[cut+1:]
		}
		baseURL = baseURL[:cut]
	}
	doc, _, err := r.client.FetchDocument(ctx, baseURL+"/vydani")
	if err != nil {
		return nil, fmt.Errorf("fetch editions: %w", err)
	}
	return r.parseEditions(doc, pinnedYear), nil
}

func (r *Resolver) parseEditions(doc *goquery.Document, pinnedYear string) []edition {
	var editions []edition
	var pinned *edition

	doc.Find("div#vycet_vydani div.vydani.cl").Each(func(_ int, node *goquery.Selection) {
		if pinned != nil {
			return
		}
		var ed edition

		yearText := strings.TrimSpace(node.Find("h3 a").First().Text())
		ed.Year, _ = strconv.Atoi(yearText)
		if ed.Year == 0 {
			r.logger.Debug("edition without a year", "text", yearText)
			return
		}
		ed.PubDate = time.Date(ed.Year, 1, 1, 0, 0, 0, 0, time.UTC)

		if src, ok := node.Find("div.ob img").First().Attr("src"); ok &&
			src != "" && src != "images/kniha-neni.jpg" {
			ed.CoverURL = r.base + "/" + strings.TrimPrefix(src, "/")
		}
		ed.Publisher = strings.TrimSpace(node.Find("div.data_vydani a.large").First().Text())
		ed.ISBN = parseEditionISBN(node)

		node.Find("div.data_vydani table td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
			if !strings.Contains(td.Text(), "přibližné") {
				return true
			}
			if m := approxDatePattern.FindStringSubmatch(td.Text()); m != nil {
				day, _ := strconv.Atoi(m[1])
				month, _ := strconv.Atoi(m[2])
				year, _ := strconv.Atoi(m[3])
				if day == 0 {
					day = 1
				}
				date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
				if date.Day() == day && int(date.Month()) == month {
					ed.PubDate = date
				}
			}
			return false
		})

		if pinnedYear != "" && yearText == pinnedYear {
			pinned = &ed
			return
		}
		editions = append(editions, ed)
	})

	if pinned != nil {
		return []edition{*pinned}
	}
	return editions
}

// parseEditionISBN reads the text node following the ISBN label span.
func parseEditionISBN(node *goquery.Selection) string {
	span := node.Find(`span[title^="ISBN"]`).First()
	if span.Length() == 0 {
		return ""
	}
	for sibling := span.Nodes[0].NextSibling; sibling != nil; sibling = sibling.NextSibling {
		if sibling.Type != html.TextNode {
			continue
		}
		if m := isbnCodePattern.FindString(sibling.Data); m != "" {
			return strings.ToUpper(m)
		}
	}
	return ""
}

// fetchAwards loads the awards sub-page and returns one string per award
// line, year-prefixed when the page groups by year.
func (r *Resolver) fetchAwards(ctx context.Context, awardsURL string) []string {
	doc, _, err := r.client.FetchDocument(ctx, awardsURL)
	if err != nil {
		r.logger.Warn("fetch awards failed", "url", awardsURL, "error", err)
		return nil
	}
	var awards []string
	doc.Find("div#oceneni li, div#zobrazit_info li").Each(func(_ int, item *goquery.Selection) {
		if text := strings.Join(strings.Fields(item.Text()), " "); text != "" {
			awards = append(awards, text)
		}
	})
	return awards
}

// fetchContainedTales loads the tales sub-page and returns the titles of the
// short works printed in this book.
func (r *Resolver) fetchContainedTales(ctx context.Context, talesURL string) []string {
	doc, _, err := r.client.FetchDocument(ctx, talesURL)
	if err != nil {
		r.logger.Warn("fetch contained tales failed", "url", talesURL, "error", err)
		return nil
	}
	var tales []string
	doc.Find(`a[href*="povidka/"]`).Each(func(_ int, link *goquery.Selection) {
		if title := strings.TrimSpace(link.Text()); title != "" {
			tales = append(tales, title)
		}
	})
	return tales
}

package legie

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"
)

// workerStagger spaces out worker start times so a burst of candidates does
// not hammer the origin all at once.
const workerStagger = 100 * time.Millisecond

// fetchCandidates spawns one worker per candidate URL and fans their issue
// groups into a single slice. Each group holds the editions of one catalog
// entry. Groups arrive in completion order; workers still in flight when the
// context fires are abandoned and their results discarded.
func (r *Resolver) fetchCandidates(ctx context.Context, candidates []Candidate, matchAuthors []string, pinnedYear string) [][]Issue {
	results := make(chan []Issue, len(candidates))
	var wg sync.WaitGroup

	for i, candidate := range candidates {
		wg.Add(1)
		go func(relevance int, candidate Candidate) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(relevance) * workerStagger):
			}
			issues := r.buildIssues(ctx, candidate, relevance, matchAuthors, pinnedYear)
			if len(issues) > 0 {
				results <- issues
			}
		}(i, candidate)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	var groups [][]Issue
	for {
		select {
		case group := <-results:
			groups = append(groups, group)
		case <-done:
			for {
				select {
				case group := <-results:
					groups = append(groups, group)
				default:
					return groups
				}
			}
		case <-ctx.Done():
			r.logger.Debug("abandoning workers", "pending", len(candidates)-len(groups))
			return groups
		}
	}
}

// buildIssues is the worker body: fetch the detail page, the editions
// sub-page, and the advertised awards/tales sub-pages, and emit one issue per
// edition. A tale has no editions and always yields exactly one issue. Any
// single page or field failing is logged and left empty; only a missing
// title/author/id kills the whole candidate.
func (r *Resolver) buildIssues(ctx context.Context, candidate Candidate, relevance int, matchAuthors []string, pinnedYear string) []Issue {
	pageURL := candidate.URL
	if cut := strings.Index(pageURL, "#"); cut >= 0 {
		if pinnedYear == "" {
			pinnedYear = pageURL[cut+1:]
		}
		pageURL = pageURL[:cut]
	}

	doc, _, err := r.client.FetchDocument(ctx, pageURL)
	if err != nil {
		r.logger.Warn("detail fetch failed", "url", pageURL, "error", err)
		return nil
	}
	detail, err := r.parseDetail(doc, pageURL)
	if err != nil {
		r.logger.Warn("detail parse failed", "url", pageURL, "error", err)
		return nil
	}
	if !authorsMatch(detail.Authors, matchAuthors) {
		r.logger.Debug("rejecting candidate, authors do not match",
			"url", pageURL, "authors", strings.Join(detail.Authors, ", "))
		return nil
	}

	var awards []string
	if detail.AwardsURL != "" {
		awards = r.fetchAwards(ctx, detail.AwardsURL)
	}

	if detail.TaleID != "" && detail.ID == "" {
		issue := r.issueFrom(detail, relevance)
		issue.Awards = awards
		if detail.CoverURL != "" {
			issue.CoverURLs = []string{detail.CoverURL}
		}
		r.cacheIssue(issue)
		return []Issue{issue}
	}

	var contained []string
	if detail.TalesURL != "" {
		contained = r.fetchContainedTales(ctx, detail.TalesURL)
	}

	editions, err := r.fetchEditions(ctx, candidate.URL, pinnedYear)
	if err != nil {
		r.logger.Warn("editions fetch failed", "url", candidate.URL, "error", err)
	}

	if len(editions) == 0 {
		issue := r.issueFrom(detail, relevance)
		issue.Awards = awards
		issue.ContainedIn = contained
		if detail.CoverURL != "" {
			issue.CoverURLs = []string{detail.CoverURL}
		}
		r.cacheIssue(issue)
		return []Issue{issue}
	}

	r.logger.Debug("editions found", "url", pageURL, "count", len(editions))
	issues := make([]Issue, 0, len(editions))
	for _, ed := range editions {
		issue := r.issueFrom(detail, relevance)
		issue.Awards = awards
		issue.ContainedIn = contained
		issue.Publisher = ed.Publisher
		issue.PubDate = ed.PubDate
		issue.PubYear = ed.Year
		issue.ISBN = ed.ISBN
		if ed.CoverURL != "" {
			issue.CoverURLs = []string{ed.CoverURL}
		}
		r.cacheIssue(issue)
		issues = append(issues, issue)
	}
	return issues
}

// issueFrom seeds an issue with the work-level fields every edition shares.
func (r *Resolver) issueFrom(detail workDetail, relevance int) Issue {
	return Issue{
		ID:              detail.ID,
		TaleID:          detail.TaleID,
		URL:             detail.URL,
		Title:           detail.Title,
		OrigTitle:       detail.OrigTitle,
		OrigYear:        detail.OrigYear,
		Authors:         detail.Authors,
		Series:          detail.Series,
		SeriesIndex:     detail.SeriesIndex,
		RatingPercent:   detail.RatingPercent,
		Categories:      detail.Tags,
		Description:     detail.Comments,
		Language:        "cs",
		SourceRelevance: relevance,
	}
}

// cacheIssue records the issue's cover and ISBN mapping opportunistically.
// Cache failures never affect the returned issues.
func (r *Resolver) cacheIssue(issue Issue) {
	if r.covers == nil {
		return
	}
	key := issueKey(issue)
	if key == "" {
		return
	}
	if len(issue.CoverURLs) > 0 {
		if err := r.covers.CacheCover(key, issue.CoverURLs); err != nil {
			r.logger.Debug("cover cache write failed", "key", key, "error", err)
		}
	}
	if issue.ISBN != "" {
		if err := r.covers.CacheISBN(issue.ISBN, key); err != nil {
			r.logger.Debug("isbn cache write failed", "isbn", issue.ISBN, "error", err)
		}
	}
}

// issueKey is the edition-scoped catalog identifier, "id#year" when the
// edition year is known.
func issueKey(issue Issue) string {
	id := issue.ID
	if id == "" {
		id = issue.TaleID
	}
	if id == "" {
		return ""
	}
	if issue.PubYear > 0 {
		return id + "#" + strconv.Itoa(issue.PubYear)
	}
	return id
}

// authorsMatch mirrors the loose author gate on detail pages: with no wanted
// authors everything passes, otherwise one case-insensitive containment hit
// suffices.
func authorsMatch(found []string, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	joined := strings.ToLower(strings.Join(found, " "))
	for _, author := range wanted {
		if strings.Contains(joined, strings.ToLower(author)) {
			return true
		}
	}
	return false
}

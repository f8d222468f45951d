package legie

import (
	"strings"

	"github.com/seeder/legie-metadata/internal/prefs"
	"github.com/seeder/legie-metadata/internal/textnorm"
)

// issueSignature keys deduplication: two scrapes of the same work under the
// same author set are the same issue group.
func issueSignature(issue Issue) string {
	return issue.Title + "\x00" + strings.Join(issue.Authors, "\x00")
}

// reconcile collapses one worker's issues into at most one pick per distinct
// title+authors signature. Singleton groups pass through untouched; larger
// groups go through best-issue selection.
func (r *Resolver) reconcile(group []Issue) []Issue {
	var order []string
	buckets := make(map[string][]Issue)
	for _, issue := range group {
		sig := issueSignature(issue)
		if _, seen := buckets[sig]; !seen {
			order = append(order, sig)
		}
		buckets[sig] = append(buckets[sig], issue)
	}

	finals := make([]Issue, 0, len(order))
	for _, sig := range order {
		bucket := buckets[sig]
		if len(bucket) == 1 {
			finals = append(finals, bucket[0])
			continue
		}
		finals = append(finals, r.selectBestIssue(bucket))
	}
	return finals
}

// hard penalty for an edition in the wrong language or from the wrong
// publisher; a big number rather than a filter, so a query where every
// edition is "wrong" still resolves.
const issueMismatchPenalty = 1000

// selectBestIssue scores every edition against the wanted language,
// publisher, and year, keeping the first strict minimum. With nothing wanted,
// a default preference, and at most one cover requested, scoring is skipped
// and the first edition wins as scraped.
func (r *Resolver) selectBestIssue(issues []Issue) Issue {
	wantedLang := r.prefs.WantedLang()
	wantedPublisher := r.prefs.WantedPublisher
	wantedYear, wantYear := r.prefs.WantedPubYear()

	if wantedLang == "" && wantedPublisher == "" && !wantYear &&
		r.prefs.IssuePreference == prefs.IssueDefault && r.prefs.MaxCovers <= 1 {
		return issues[0]
	}

	best := issues[0]
	bestScore := issueScore(issues[0], wantedLang, wantedPublisher, wantedYear, wantYear, r.prefs)
	for _, issue := range issues[1:] {
		score := issueScore(issue, wantedLang, wantedPublisher, wantedYear, wantYear, r.prefs)
		if score < bestScore {
			best = issue
			bestScore = score
		}
	}
	r.logger.Debug("selected issue",
		"title", best.Title, "publisher", best.Publisher, "year", best.PubYear, "score", bestScore)
	return best
}

func issueScore(issue Issue, wantedLang string, wantedPublisher string, wantedYear int, wantYear bool, p prefs.Prefs) int {
	score := 3
	if wantedLang != "" {
		if issue.Language == wantedLang {
			score--
		} else {
			score += issueMismatchPenalty
		}
	}
	if wantedPublisher != "" {
		if publisherMatches(issue.Publisher, wantedPublisher, p) {
			score -= 2
		} else {
			score += issueMismatchPenalty
		}
	}
	if wantYear && issue.PubYear != 0 {
		diff := wantedYear - issue.PubYear
		if diff < 0 {
			diff = -diff
		}
		score += diff
	}
	return score
}

// publisherMatches compares publishers loosely: equality, containment either
// way, both sides mapped and accent-folded first.
func publisherMatches(candidate string, wanted string, p prefs.Prefs) bool {
	got := textnorm.Clean(p.MapPublisher(candidate))
	want := textnorm.Clean(p.MapPublisher(wanted))
	if got == "" || want == "" {
		return false
	}
	return got == want || strings.Contains(got, want) || strings.Contains(want, got)
}

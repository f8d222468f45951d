package legie

import (
	"context"
	"net/http"
	"testing"

	"github.com/seeder/legie-metadata/internal/prefs"
)

func TestBuildIssuesOnePerEdition(t *testing.T) {
	server, r := newFixtureResolver(t, fixtureMux(), prefs.Default())

	issues := r.buildIssues(context.Background(),
		Candidate{URL: server.URL + "/kniha/103"}, 0, []string{"Terry Pratchett"}, "")
	if len(issues) != 2 {
		t.Fatalf("expected one issue per edition, got %d", len(issues))
	}
	if issues[0].PubYear != 1996 || issues[0].ISBN != "80-7197-113-8" {
		t.Fatalf("unexpected first edition: %+v", issues[0])
	}
	if issues[1].PubYear != 2005 || issues[1].ISBN != "" {
		t.Fatalf("unexpected second edition: %+v", issues[1])
	}
	// Work-level fields repeat on every edition.
	for _, issue := range issues {
		if issue.Title != "Čaroprávnost" || issue.ID != "103" {
			t.Fatalf("unexpected issue: %+v", issue)
		}
	}
}

func taleMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/povidka/14", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(taleDetailHTML))
	})
	return mux
}

func TestBuildIssuesTaleYieldsOne(t *testing.T) {
	server, r := newFixtureResolver(t, taleMux(), prefs.Default())

	issues := r.buildIssues(context.Background(),
		Candidate{URL: server.URL + "/povidka/14"}, 0, nil, "")
	if len(issues) != 1 {
		t.Fatalf("expected exactly one issue for a tale, got %d", len(issues))
	}
	if issues[0].TaleID != "14" || issues[0].ID != "" {
		t.Fatalf("unexpected tale ids: %+v", issues[0])
	}
}

func TestBuildIssuesRejectsAuthorMismatch(t *testing.T) {
	server, r := newFixtureResolver(t, fixtureMux(), prefs.Default())

	issues := r.buildIssues(context.Background(),
		Candidate{URL: server.URL + "/kniha/103"}, 0, []string{"Neil Gaiman"}, "")
	if len(issues) != 0 {
		t.Fatalf("expected author gate to reject, got %d issues", len(issues))
	}
}

func TestBuildIssuesPinnedFragment(t *testing.T) {
	server, r := newFixtureResolver(t, fixtureMux(), prefs.Default())

	issues := r.buildIssues(context.Background(),
		Candidate{URL: server.URL + "/kniha/103#2005"}, 0, nil, "")
	if len(issues) != 1 || issues[0].PubYear != 2005 {
		t.Fatalf("expected the pinned edition only, got %+v", issues)
	}
}

func TestFetchCandidatesCollectsAllGroups(t *testing.T) {
	server, r := newFixtureResolver(t, fixtureMux(), prefs.Default())

	groups := r.fetchCandidates(context.Background(), []Candidate{
		{URL: server.URL + "/kniha/103"},
		{URL: server.URL + "/kniha/103#1996"},
	}, nil, "")
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
}

func TestFetchCandidatesAbandonedOnCancel(t *testing.T) {
	server, r := newFixtureResolver(t, fixtureMux(), prefs.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	groups := r.fetchCandidates(ctx, []Candidate{{URL: server.URL + "/kniha/103"}}, nil, "")
	if len(groups) != 0 {
		t.Fatalf("expected no groups after cancellation, got %d", len(groups))
	}
}

func TestAuthorsMatch(t *testing.T) {
	found := []string{"Terry Pratchett", "Neil Gaiman"}
	if !authorsMatch(found, nil) {
		t.Fatalf("empty wanted set must pass")
	}
	if !authorsMatch(found, []string{"terry pratchett"}) {
		t.Fatalf("case-insensitive containment must pass")
	}
	if authorsMatch(found, []string{"Jana Rečková"}) {
		t.Fatalf("unrelated author must not pass")
	}
}

func TestIssueKey(t *testing.T) {
	if got := issueKey(Issue{ID: "103", PubYear: 1996}); got != "103#1996" {
		t.Fatalf("unexpected key: %q", got)
	}
	if got := issueKey(Issue{ID: "103"}); got != "103" {
		t.Fatalf("unexpected key: %q", got)
	}
	if got := issueKey(Issue{TaleID: "14"}); got != "14" {
		t.Fatalf("unexpected tale key: %q", got)
	}
	if got := issueKey(Issue{}); got != "" {
		t.Fatalf("expected empty key, got %q", got)
	}
}

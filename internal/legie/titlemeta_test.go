package legie

import "testing"

func TestParseTitleMetadataExtractsPairs(t *testing.T) {
	title, ids := ParseTitleMetadata("legie:123 pubdate:1996 Čaroprávnost", nil)
	if title != "Čaroprávnost" {
		t.Fatalf("unexpected cleaned title: %q", title)
	}
	if ids["legie"] != "123" {
		t.Fatalf("expected legie id 123, got %q", ids["legie"])
	}
	if ids["pubdate"] != "1996" {
		t.Fatalf("expected pubdate 1996, got %q", ids["pubdate"])
	}
}

func TestParseTitleMetadataAliases(t *testing.T) {
	_, ids := ParseTitleMetadata("dbk:55 xtr:77 lang:cs Mort", nil)
	if ids["databazeknih"] != "55" {
		t.Fatalf("expected dbk alias to map, got %v", ids)
	}
	if ids["xtrance"] != "77" {
		t.Fatalf("expected xtr alias to map, got %v", ids)
	}
	if ids["language"] != "cs" {
		t.Fatalf("expected lang alias to map, got %v", ids)
	}
}

func TestParseTitleMetadataNormalizesTypeAndSearch(t *testing.T) {
	_, ids := ParseTitleMetadata("type:povídka search:duckduckgo Tlouštík", nil)
	if ids["type"] != "p" {
		t.Fatalf("expected tale type p, got %q", ids["type"])
	}
	if ids["search"] != "d" {
		t.Fatalf("expected search d, got %q", ids["search"])
	}

	_, ids = ParseTitleMetadata("type:audiokniha search:google Mort", nil)
	if ids["type"] != "a" {
		t.Fatalf("expected audio type a, got %q", ids["type"])
	}
	if ids["search"] != "g" {
		t.Fatalf("expected search g, got %q", ids["search"])
	}
}

func TestParseTitleMetadataPublisherUnderscores(t *testing.T) {
	_, ids := ParseTitleMetadata("publisher:Mladá_fronta Mort", nil)
	if ids["publisher"] != "Mladá fronta" {
		t.Fatalf("expected publisher with spaces, got %q", ids["publisher"])
	}
}

func TestParseTitleMetadataBareISBN(t *testing.T) {
	title, ids := ParseTitleMetadata("Mort 80-7197-113-8", nil)
	if title != "Mort" {
		t.Fatalf("expected isbn removed from title, got %q", title)
	}
	if ids["isbn"] != "80-7197-113-8" {
		t.Fatalf("expected raw isbn kept, got %q", ids["isbn"])
	}
}

func TestParseTitleMetadataEditionYearFragment(t *testing.T) {
	_, ids := ParseTitleMetadata("", map[string]string{"legie": "103#1996"})
	if ids["legie"] != "103" {
		t.Fatalf("expected bare id, got %q", ids["legie"])
	}
	if ids["pubdate"] != "1996" {
		t.Fatalf("expected pinned year, got %q", ids["pubdate"])
	}
}

func TestParseTitleMetadataDoesNotMutateInput(t *testing.T) {
	original := map[string]string{"isbn": "whatever"}
	_, ids := ParseTitleMetadata("legie:1 Mort", original)
	if len(original) != 1 {
		t.Fatalf("input map mutated: %v", original)
	}
	if ids["legie"] != "1" {
		t.Fatalf("expected merged copy, got %v", ids)
	}
}

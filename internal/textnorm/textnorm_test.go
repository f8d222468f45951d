package textnorm

import "testing"

func TestStripAccents(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Čaroprávnost", "Caropravnost"},
		{"Úžasná Zeměplocha", "Uzasna-Zemeplocha"},
		{"příliš žluťoučký kůň", "prilis-zlutoucky-kun"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := StripAccents(tc.in); got != tc.want {
			t.Fatalf("StripAccents(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripAccentsIdempotent(t *testing.T) {
	inputs := []string{"Čaroprávnost", "Úžasná Zeměplocha", "mort & smrt (1. díl)", ""}
	for _, in := range inputs {
		once := StripAccents(in)
		if twice := StripAccents(once); twice != once {
			t.Fatalf("StripAccents not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestCleanVariants(t *testing.T) {
	if got := Clean("Čaroprávnost"); got != "caropravnost" {
		t.Fatalf("Clean = %q", got)
	}
	if got := CleanFlat("Úžasná Zeměplocha"); got != "uzasnazemeplocha" {
		t.Fatalf("CleanFlat = %q", got)
	}
	if got := CleanSpaced("Úžasná Zeměplocha"); got != "uzasna zemeplocha" {
		t.Fatalf("CleanSpaced = %q", got)
	}
}

func TestSurnameTokens(t *testing.T) {
	tokens := SurnameTokens("Terry Pratchett")
	if _, ok := tokens["pratchett"]; !ok {
		t.Fatalf("expected pratchett token, got %v", tokens)
	}
	if _, ok := tokens["pratchettová"]; !ok {
		t.Fatalf("expected feminine form token, got %v", tokens)
	}

	// Single-token names produce nothing; there is no surname to derive.
	if tokens := SurnameTokens("Homér"); len(tokens) != 0 {
		t.Fatalf("expected no tokens for single name, got %v", tokens)
	}

	// Short middle tokens are skipped.
	tokens = SurnameTokens("Ursula K. Le Guin")
	if _, ok := tokens["guin"]; !ok {
		t.Fatalf("expected guin token, got %v", tokens)
	}
	if _, ok := tokens["k."]; ok {
		t.Fatalf("did not expect short token, got %v", tokens)
	}
}

func TestSurnameTokensFeminineForms(t *testing.T) {
	tokens := SurnameTokens("Jana Rečková")
	if _, ok := tokens["rečk"]; !ok {
		t.Fatalf("expected trimmed base form, got %v", tokens)
	}
	if _, ok := tokens["rečková"]; !ok {
		t.Fatalf("expected re-suffixed form, got %v", tokens)
	}
}

func TestQueryTokensAndIntersects(t *testing.T) {
	query := QueryTokens([]string{"Pratchett, Terry"})
	found := SurnameTokens("Terry Pratchett")
	if !Intersects(query, found) {
		t.Fatalf("expected intersection between %v and %v", query, found)
	}
	other := SurnameTokens("Neil Gaiman")
	if Intersects(query, other) {
		t.Fatalf("did not expect intersection between %v and %v", query, other)
	}
}

func TestSharedCount(t *testing.T) {
	a := QueryTokens([]string{"Terry Pratchett", "Neil Gaiman"})
	b := QueryTokens([]string{"Terry Pratchett"})
	if got := SharedCount(a, b); got != 2 {
		t.Fatalf("SharedCount = %d, want 2", got)
	}
}

func TestSurname(t *testing.T) {
	if got := Surname("Jana Rečková"); got != "reckova" {
		t.Fatalf("Surname = %q", got)
	}
	if got := Surname(""); got != "" {
		t.Fatalf("Surname of empty = %q", got)
	}
}

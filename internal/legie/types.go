package legie

import "time"

const (
	// BaseURL is the catalog root. Detail pages live under /kniha/<id> for
	// books and /povidka/<id> for tales.
	BaseURL = "https://www.legie.info"

	googleSearchURL     = "https://www.google.com/search?q="
	duckduckgoSearchURL = "https://html.duckduckgo.com/html/?q="
)

// Strategy records which cascade step produced a candidate URL.
type Strategy string

const (
	StrategyIdentifier     Strategy = "identifier"
	StrategyISBN           Strategy = "isbn"
	StrategyEAN            Strategy = "ean"
	StrategyTaleIdentifier Strategy = "tale-identifier"
	StrategyGoogle         Strategy = "google"
	StrategyDuckDuckGo     Strategy = "duckduckgo"
	StrategyNative         Strategy = "native"
	StrategyNativeTales    Strategy = "native-tales"
	StrategyBackfill       Strategy = "backfill"
)

// Query is the caller's description of the wanted book. Identifiers may carry
// catalog ids (legie, legie_povidka), isbn/ean, and the inline overrides
// parsed out of the title (publisher, pubdate, language, type, search).
type Query struct {
	Title       string
	Authors     []string
	Identifiers map[string]string
}

// Candidate is one detail-page URL believed to correspond to the queried
// work. Exact means an identifier or redirect proved the match and the
// cascade stops collecting.
type Candidate struct {
	URL      string
	Strategy Strategy
	Exact    bool
}

// Issue holds everything scraped for one concrete edition of a work. Built
// once by a worker, immutable afterwards.
type Issue struct {
	ID     string
	TaleID string
	URL    string

	Title     string
	Subtitle  string
	OrigTitle string
	AltTitles []string

	Authors      []string
	Translators  []string
	Illustrators []string
	CoverAuthors []string

	Series       string
	SeriesIndex  float64
	Edition      string
	EditionIndex float64

	Publisher string
	PubDate   time.Time
	PubYear   int
	OrigYear  int
	Language  string

	RatingPercent int
	RatingCount   int
	Pages         int
	Dimensions    string
	PrintRun      int
	Price         string
	CoverType     string
	Note          string

	Categories  []string
	Awards      []string
	ContainedIn []string
	Separately  []string
	Description string

	ISBN      string
	EAN       string
	CoverURLs []string

	// SourceRelevance is the worker index, carried through to the final
	// record as the comparator's last tiebreak.
	SourceRelevance int
}

// Record is the composed output handed to the caller's result channel.
// Ownership passes to the caller on send.
type Record struct {
	Title       string
	Authors     []string
	Series      string
	SeriesIndex float64
	Publisher   string
	PubDate     time.Time
	PubYear     int
	Language    string
	Rating      float64
	Tags        []string
	Comments    string
	Identifiers map[string]string
	CoverURLs   []string
	HasCover    bool

	SourceRelevance int

	// AuthorMatchRelevance and TitleRelevance are optional host-supplied
	// ranking signals; zero means unranked and sorts as neutral.
	AuthorMatchRelevance int
	TitleRelevance       int
}

// ISBNValue returns the record's exported isbn identifier, empty when none.
func (r *Record) ISBNValue() string {
	if r == nil || r.Identifiers == nil {
		return ""
	}
	return r.Identifiers["isbn"]
}

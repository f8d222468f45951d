package prefs

// Token names one scraped attribute or a literal string inside a field
// template. The set is closed; Resolve in the composition engine switches over
// every variant.
type Token string

const (
	TokenTitle           Token = "title"
	TokenSubtitle        Token = "subtitle"
	TokenOrigTitle       Token = "orig_title"
	TokenPubYear         Token = "pub_year"
	TokenOrigYear        Token = "orig_year"
	TokenPublisher       Token = "publisher"
	TokenSeries          Token = "series"
	TokenSeriesIndex     Token = "series_index"
	TokenEdition         Token = "edition"
	TokenEditionIndex    Token = "edition_index"
	TokenPages           Token = "pages"
	TokenPrintRun        Token = "print_run"
	TokenRating          Token = "rating"
	TokenRating5         Token = "rating5"
	TokenRating10        Token = "rating10"
	TokenRatingCount     Token = "rating_count"
	TokenISBN            Token = "isbn"
	TokenEAN             Token = "ean"
	TokenLanguage        Token = "language"
	TokenCoverType       Token = "cover_type"
	TokenDimensions      Token = "dimensions"
	TokenPrice           Token = "price"
	TokenNote            Token = "note"
	TokenTags            Token = "tags"
	TokenAwards          Token = "awards"
	TokenContainedIn     Token = "contained_in"
	TokenSeparately      Token = "separately"
	TokenDescription     Token = "description"
	TokenOrigID          Token = "orig_id"
	TokenSourceRelevance Token = "source_relevance"
	TokenText            Token = "text"
)

// TemplateItem is one ordered entry of a field template. Text carries the
// literal for TokenText and is ignored for attribute tokens.
type TemplateItem struct {
	Token   Token  `yaml:"token"`
	Enabled bool   `yaml:"enabled"`
	Text    string `yaml:"text,omitempty"`
}

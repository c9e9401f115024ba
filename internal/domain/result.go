package domain

// ApplyOption is one outbound application link on a search result.
type ApplyOption struct {
	URL string
}

// SearchResult is one listing on a query's result page. Rank is the
// 1-based page position; the ApplyOptions order defines horizontal rank.
type SearchResult struct {
	Rank         int
	ApplyOptions []ApplyOption
}

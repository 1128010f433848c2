package types

// ResourceRecord represents a single article or resource collected from web search.
type ResourceRecord struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Snippet       string  `json:"snippet"`
	Score         float64 `json:"score,omitempty"`
	PublishedDate string  `json:"published_date,omitempty"`
	Source        string  `json:"source,omitempty"`
}

// RawData bundles everything collected during one pipeline run. It is the
// payload of the optional raw-data output file and the input to offline
// taxonomy regeneration.
type RawData struct {
	Keyword      string                      `json:"keyword"`
	Timestamp    string                      `json:"timestamp"`
	Repositories []RepositoryRecord          `json:"github_repositories"`
	WebResults   map[string][]ResourceRecord `json:"web_results"`
}

// TotalWebResults returns the number of web resources across all search categories.
func (r *RawData) TotalWebResults() int {
	total := 0
	for _, results := range r.WebResults {
		total += len(results)
	}
	return total
}

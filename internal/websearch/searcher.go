// Package websearch provides the web-search collector: it queries a search
// provider for articles and resources matching an ecosystem keyword and
// normalizes the hits into ResourceRecord values.
package websearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/ecosystem-mapper/internal/types"
)

// Search categories used by the combined search. The analyzer renders web
// results grouped by these keys.
const (
	CategoryGeneral   = "general"
	CategoryTools     = "tools"
	CategoryEcosystem = "ecosystem"
)

// technicalDomains are prioritized when searching for tools and projects.
var technicalDomains = []string{
	"github.com",
	"gitlab.com",
	"pypi.org",
	"npmjs.com",
	"arxiv.org",
	"huggingface.co",
}

// Options controls a single search request.
type Options struct {
	MaxResults     int
	IncludeDomains []string
	ExcludeDomains []string
}

// Searcher issues a single web search and maps hits to ResourceRecords.
type Searcher interface {
	Search(ctx context.Context, query string, opts Options) ([]types.ResourceRecord, error)
}

// Combine runs the three standard searches (general, tools/projects,
// ecosystem overview) and returns results keyed by category, deduplicated
// by URL across categories. A failure in one search degrades to an empty
// category rather than failing the whole collection, except when every
// search fails.
func Combine(ctx context.Context, s Searcher, keyword string, perCategory int) (map[string][]types.ResourceRecord, error) {
	if perCategory <= 0 {
		perCategory = 15
	}

	searches := []struct {
		category string
		query    string
		opts     Options
	}{
		{CategoryGeneral, keyword, Options{MaxResults: perCategory}},
		{CategoryTools, keyword + " tools libraries frameworks projects", Options{MaxResults: perCategory, IncludeDomains: technicalDomains}},
		{CategoryEcosystem, keyword + " ecosystem landscape market map overview", Options{MaxResults: min(perCategory, 10)}},
	}

	results := make(map[string][]types.ResourceRecord, len(searches))
	seen := make(map[string]bool)
	var firstErr error
	failures := 0

	for _, search := range searches {
		hits, err := s.Search(ctx, search.query, search.opts)
		if err != nil {
			failures++
			if firstErr == nil {
				firstErr = err
			}
			fmt.Printf("Warning: %s search failed: %v\n", search.category, err)
			results[search.category] = nil
			continue
		}

		deduped := make([]types.ResourceRecord, 0, len(hits))
		for _, hit := range hits {
			if hit.URL == "" || seen[hit.URL] {
				continue
			}
			seen[hit.URL] = true
			deduped = append(deduped, hit)
		}
		results[search.category] = deduped
	}

	if failures == len(searches) {
		return nil, fmt.Errorf("all web searches failed: %w", firstErr)
	}
	return results, nil
}

// sourceDomain extracts the bare host from a URL for ResourceRecord.Source.
func sourceDomain(rawURL string) string {
	u := strings.TrimPrefix(rawURL, "https://")
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "www.")
	if idx := strings.IndexAny(u, "/?#"); idx >= 0 {
		u = u[:idx]
	}
	return u
}

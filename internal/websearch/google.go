package websearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/jonathan/ecosystem-mapper/internal/types"
)

// googlePageSize is the maximum number of results per Custom Search call.
const googlePageSize = 10

// GoogleSearcher implements Searcher against the Google Custom Search API,
// selected with the google search provider setting.
type GoogleSearcher struct {
	svc *customsearch.Service
	cx  string
}

// NewGoogleSearcher creates a Google Custom Search client.
func NewGoogleSearcher(ctx context.Context, apiKey, cx string) (*GoogleSearcher, error) {
	if apiKey == "" || cx == "" {
		return nil, &AuthError{Message: "GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_CX must be set"}
	}
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &AuthError{Message: "failed to create customsearch service", Cause: err}
	}
	return &GoogleSearcher{svc: svc, cx: cx}, nil
}

// Search issues Custom Search requests until MaxResults hits are collected.
// Domain include/exclude filters are not supported by the engine per-request;
// the engine's own site restrictions apply instead.
func (g *GoogleSearcher) Search(ctx context.Context, query string, opts Options) ([]types.ResourceRecord, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = googlePageSize
	}

	var records []types.ResourceRecord
	for start := int64(1); len(records) < maxResults; start += googlePageSize {
		num := int64(min(maxResults-len(records), googlePageSize))
		resp, err := g.svc.Cse.List().Context(ctx).Cx(g.cx).Q(query).Num(num).Start(start).Do()
		if err != nil {
			return nil, mapGoogleError(err)
		}
		if len(resp.Items) == 0 {
			break
		}
		records = append(records, mapGoogleItems(resp.Items)...)
		if int64(len(resp.Items)) < num {
			break
		}
	}
	return records, nil
}

func mapGoogleItems(items []*customsearch.Result) []types.ResourceRecord {
	records := make([]types.ResourceRecord, 0, len(items))
	for _, item := range items {
		records = append(records, types.ResourceRecord{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
			Source:  sourceDomain(item.Link),
		})
	}
	return records
}

func mapGoogleError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("customsearch request failed: %w", err)
	}
	switch apiErr.Code {
	case http.StatusUnauthorized, http.StatusBadRequest:
		return &AuthError{Message: "API key rejected by Google", Cause: apiErr}
	case http.StatusForbidden, http.StatusTooManyRequests:
		return &QuotaExceededError{Message: apiErr.Message}
	default:
		return &APIError{StatusCode: apiErr.Code, Message: apiErr.Message}
	}
}

package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jonathan/ecosystem-mapper/internal/httputil"
	"github.com/jonathan/ecosystem-mapper/internal/types"
)

const tavilyBaseURL = "https://api.tavily.com"

// TavilyClient implements Searcher against the Tavily search API.
type TavilyClient struct {
	http    *http.Client
	apiKey  string
	baseURL string
}

// NewTavilyClient creates a Tavily searcher authenticated with the given key.
func NewTavilyClient(apiKey string) (*TavilyClient, error) {
	if apiKey == "" {
		return nil, &AuthError{Message: "TAVILY_API_KEY is not set"}
	}
	return &TavilyClient{
		http:    httputil.NewClient(0),
		apiKey:  apiKey,
		baseURL: tavilyBaseURL,
	}, nil
}

type tavilyRequest struct {
	Query          string   `json:"query"`
	MaxResults     int      `json:"max_results"`
	SearchDepth    string   `json:"search_depth"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	ExcludeDomains []string `json:"exclude_domains,omitempty"`
}

type tavilyResponse struct {
	Results []struct {
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		Content       string  `json:"content"`
		Score         float64 `json:"score"`
		PublishedDate string  `json:"published_date"`
	} `json:"results"`
}

// Search issues a single Tavily search with advanced depth.
func (c *TavilyClient) Search(ctx context.Context, query string, opts Options) ([]types.ResourceRecord, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	payload := tavilyRequest{
		Query:          query,
		MaxResults:     maxResults,
		SearchDepth:    "advanced",
		IncludeDomains: opts.IncludeDomains,
		ExcludeDomains: opts.ExcludeDomains,
	}

	var resp tavilyResponse
	err := httputil.RetryWithBackoff(ctx, func() error {
		return c.post(ctx, "/search", payload, &resp)
	})
	if err != nil {
		return nil, err
	}

	records := make([]types.ResourceRecord, 0, len(resp.Results))
	for _, hit := range resp.Results {
		records = append(records, types.ResourceRecord{
			Title:         hit.Title,
			URL:           hit.URL,
			Snippet:       hit.Content,
			Score:         hit.Score,
			PublishedDate: hit.PublishedDate,
			Source:        sourceDomain(hit.URL),
		})
	}
	return records, nil
}

func (c *TavilyClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal tavily request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: fmt.Errorf("tavily request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(out)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Message: "API key rejected by Tavily"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &QuotaExceededError{Message: readErrorBody(resp)}
	case resp.StatusCode >= 500:
		return &httputil.RetryableError{Err: &APIError{StatusCode: resp.StatusCode, Message: readErrorBody(resp)}}
	default:
		// Tavily reports exhausted plan credits with 432.
		if resp.StatusCode == 432 {
			return &QuotaExceededError{Message: readErrorBody(resp)}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: readErrorBody(resp)}
	}
}

func readErrorBody(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return string(body)
}

// Package github provides the code-host collector: it searches GitHub for
// repositories matching an ecosystem keyword within a recency window and
// normalizes the results into RepositoryRecord values.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonathan/ecosystem-mapper/internal/httputil"
	"github.com/jonathan/ecosystem-mapper/internal/types"
)

const defaultBaseURL = "https://api.github.com"

// searchPageSize is the maximum page size accepted by the search API.
const searchPageSize = 100

// Collector searches GitHub repositories for a keyword.
type Collector struct {
	http    *http.Client
	token   string
	baseURL string
}

// NewCollector creates a Collector authenticated with the given token.
func NewCollector(token string) (*Collector, error) {
	if token == "" {
		return nil, &AuthError{Message: "GITHUB_PAT is not set"}
	}
	return &Collector{
		http:    httputil.NewClient(0),
		token:   token,
		baseURL: defaultBaseURL,
	}, nil
}

// SearchOptions controls a repository search.
type SearchOptions struct {
	Keyword    string
	MonthsBack int // creation-date lower bound = now - MonthsBack*30 days
	MaxResults int
	MinStars   int
}

// buildQuery assembles the search query string: keyword, creation-date
// lower bound, and an optional minimum star count.
func buildQuery(opts SearchOptions, now time.Time) string {
	months := opts.MonthsBack
	if months <= 0 {
		months = 3
	}
	since := now.AddDate(0, 0, -months*30)
	query := fmt.Sprintf("%s created:>=%s", opts.Keyword, since.Format("2006-01-02"))
	if opts.MinStars > 0 {
		query += fmt.Sprintf(" stars:>=%d", opts.MinStars)
	}
	return query
}

// Search retrieves up to MaxResults repositories matching the keyword,
// sorted by stars descending. An empty result set is not an error.
func (c *Collector) Search(ctx context.Context, opts SearchOptions) ([]types.RepositoryRecord, error) {
	if opts.Keyword == "" {
		return nil, fmt.Errorf("keyword is required")
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	query := buildQuery(opts, time.Now())
	fmt.Printf("Searching GitHub for: %s\n", query)

	// page/per_page address absolute windows into the ranked result set, so
	// per_page must stay constant across pages; the final page is truncated
	// client-side instead.
	var records []types.RepositoryRecord
	for page := 1; len(records) < maxResults; page++ {
		var resp searchResponse
		if err := c.searchPage(ctx, query, page, searchPageSize, &resp); err != nil {
			return nil, err
		}
		if len(resp.Items) == 0 {
			break
		}

		for _, item := range resp.Items {
			records = append(records, item.toRecord())
			if len(records) >= maxResults {
				break
			}
		}

		// Last page: fewer items than requested.
		if len(resp.Items) < searchPageSize {
			break
		}
	}

	fmt.Printf("Total repositories collected: %d\n", len(records))
	return records, nil
}

func (c *Collector) searchPage(ctx context.Context, query string, page, perPage int, out *searchResponse) error {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))

	endpoint := fmt.Sprintf("%s/search/repositories?%s", c.baseURL, params.Encode())
	return httputil.RetryWithBackoff(ctx, func() error {
		return c.get(ctx, endpoint, out)
	})
}

// RateLimit reports the core API quota as (remaining, limit).
func (c *Collector) RateLimit(ctx context.Context) (remaining, limit int, err error) {
	var resp rateLimitResponse
	if err := c.get(ctx, c.baseURL+"/rate_limit", &resp); err != nil {
		return 0, 0, err
	}
	return resp.Resources.Core.Remaining, resp.Resources.Core.Limit, nil
}

func (c *Collector) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: fmt.Errorf("github request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode github response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return &AuthError{Message: "token rejected by GitHub"}
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		if remaining := header(resp, "X-Ratelimit-Remaining"); remaining == "0" || resp.StatusCode == http.StatusTooManyRequests {
			return &RateLimitError{
				Remaining: headerInt(resp, "X-Ratelimit-Remaining"),
				Limit:     headerInt(resp, "X-Ratelimit-Limit"),
			}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: readBody(resp)}
	case resp.StatusCode >= 500:
		return &httputil.RetryableError{Err: &APIError{StatusCode: resp.StatusCode, Message: readBody(resp)}}
	default:
		return &APIError{StatusCode: resp.StatusCode, Message: readBody(resp)}
	}
}

func header(resp *http.Response, key string) string {
	return resp.Header.Get(key)
}

func headerInt(resp *http.Response, key string) int {
	n, _ := strconv.Atoi(resp.Header.Get(key))
	return n
}

func readBody(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return string(body)
}

type searchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []searchItem `json:"items"`
}

type searchItem struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	Language    string    `json:"language"`
	Topics      []string  `json:"topics"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Homepage    string    `json:"homepage"`
	License     *struct {
		Name string `json:"name"`
	} `json:"license"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
}

func (i searchItem) toRecord() types.RepositoryRecord {
	record := types.RepositoryRecord{
		Name:        i.Name,
		FullName:    i.FullName,
		Description: i.Description,
		URL:         i.HTMLURL,
		Stars:       i.Stars,
		Forks:       i.Forks,
		Language:    i.Language,
		Topics:      i.Topics,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
		Homepage:    i.Homepage,
		Owner:       i.Owner.Login,
	}
	if i.License != nil {
		record.License = i.License.Name
	}
	return record
}

type rateLimitResponse struct {
	Resources struct {
		Core struct {
			Limit     int `json:"limit"`
			Remaining int `json:"remaining"`
		} `json:"core"`
	} `json:"resources"`
}

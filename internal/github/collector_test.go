package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ecosystem-mapper/internal/types"
)

func newTestCollector(t *testing.T, handler http.Handler) *Collector {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	collector, err := NewCollector("test-token")
	require.NoError(t, err)
	collector.baseURL = server.URL
	return collector
}

func TestNewCollectorRequiresToken(t *testing.T) {
	_, err := NewCollector("")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Error(), "GITHUB_PAT")
}

func TestBuildQuery(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		opts SearchOptions
		want string
	}{
		{
			name: "default window",
			opts: SearchOptions{Keyword: "agentic AI", MonthsBack: 3},
			want: "agentic AI created:>=2026-05-25",
		},
		{
			name: "zero months falls back to three",
			opts: SearchOptions{Keyword: "rag"},
			want: "rag created:>=2026-05-25",
		},
		{
			name: "min stars appended",
			opts: SearchOptions{Keyword: "rag", MonthsBack: 1, MinStars: 10},
			want: "rag created:>=2026-07-24 stars:>=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildQuery(tt.opts, now))
		})
	}
}

func TestSearchMapsRepositories(t *testing.T) {
	created := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	collector := newTestCollector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/repositories", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "stars", r.URL.Query().Get("sort"))
		assert.Equal(t, "desc", r.URL.Query().Get("order"))
		assert.Contains(t, r.URL.Query().Get("q"), "created:>=")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"total_count": 1,
			"items": []map[string]any{
				{
					"name":             "agent-kit",
					"full_name":        "acme/agent-kit",
					"description":      "A toolkit for building agents",
					"html_url":         "https://github.com/acme/agent-kit",
					"stargazers_count": 1200,
					"forks_count":      34,
					"language":         "Go",
					"topics":           []string{"ai", "agents"},
					"created_at":       created.Format(time.RFC3339),
					"updated_at":       created.Format(time.RFC3339),
					"license":          map[string]any{"name": "MIT License"},
					"owner":            map[string]any{"login": "acme"},
				},
			},
		})
	}))

	records, err := collector.Search(context.Background(), SearchOptions{Keyword: "agentic AI", MaxResults: 10})
	require.NoError(t, err)
	require.Len(t, records, 1)

	repo := records[0]
	assert.Equal(t, "agent-kit", repo.Name)
	assert.Equal(t, "acme/agent-kit", repo.FullName)
	assert.Equal(t, "https://github.com/acme/agent-kit", repo.URL)
	assert.Equal(t, 1200, repo.Stars)
	assert.Equal(t, "Go", repo.Language)
	assert.Equal(t, "MIT License", repo.License)
	assert.Equal(t, "acme", repo.Owner)
	assert.True(t, repo.CreatedAt.Equal(created))
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	collector := newTestCollector(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"total_count": 0, "items": []any{}})
	}))

	records, err := collector.Search(context.Background(), SearchOptions{Keyword: "nonexistent"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearchPaginatesUpToMaxResults(t *testing.T) {
	const total = 300
	pages := 0
	collector := newTestCollector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		perPage, err := strconv.Atoi(r.URL.Query().Get("per_page"))
		require.NoError(t, err)
		assert.Equal(t, 100, perPage)
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		require.NoError(t, err)

		// page/per_page address absolute windows into the ranked set
		start := (page - 1) * perPage
		items := make([]map[string]any, 0, perPage)
		for i := start; i < start+perPage && i < total; i++ {
			items = append(items, map[string]any{
				"name":      fmt.Sprintf("repo-%03d", i),
				"full_name": fmt.Sprintf("acme/repo-%03d", i),
				"html_url":  "https://github.com/acme/repo",
				"owner":     map[string]any{"login": "acme"},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"total_count": total, "items": items})
	}))

	records, err := collector.Search(context.Background(), SearchOptions{Keyword: "ai", MaxResults: 150})
	require.NoError(t, err)
	require.Len(t, records, 150)
	assert.Equal(t, 2, pages)

	// Rank order is preserved across pages with no window overlap.
	for i, repo := range records {
		assert.Equal(t, fmt.Sprintf("repo-%03d", i), repo.Name)
	}
}

func TestSearchAuthError(t *testing.T) {
	collector := newTestCollector(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := collector.Search(context.Background(), SearchOptions{Keyword: "ai"})

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestSearchRateLimitError(t *testing.T) {
	collector := newTestCollector(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Ratelimit-Remaining", "0")
		w.Header().Set("X-Ratelimit-Limit", "30")
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := collector.Search(context.Background(), SearchOptions{Keyword: "ai"})

	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 0, rateErr.Remaining)
	assert.Equal(t, 30, rateErr.Limit)
}

func TestSearchRetriesServerErrors(t *testing.T) {
	attempts := 0
	collector := newTestCollector(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"total_count": 0, "items": []any{}})
	}))

	_, err := collector.Search(context.Background(), SearchOptions{Keyword: "ai"})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRateLimit(t *testing.T) {
	collector := newTestCollector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rate_limit", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"resources": map[string]any{
				"core": map[string]any{"limit": 5000, "remaining": 4321},
			},
		})
	}))

	remaining, limit, err := collector.RateLimit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4321, remaining)
	assert.Equal(t, 5000, limit)
}

func TestCountTopics(t *testing.T) {
	repos := []types.RepositoryRecord{
		{Topics: []string{"ai", "agents", "llm"}},
		{Topics: []string{"ai", "agents"}},
		{Topics: []string{"ai"}},
		{Topics: nil},
	}

	topics := CountTopics(repos)
	require.Len(t, topics, 3)
	assert.Equal(t, TopicCount{Topic: "ai", Count: 3}, topics[0])
	assert.Equal(t, TopicCount{Topic: "agents", Count: 2}, topics[1])
	assert.Equal(t, TopicCount{Topic: "llm", Count: 1}, topics[2])
}

func TestSearchRequiresKeyword(t *testing.T) {
	collector, err := NewCollector("token")
	require.NoError(t, err)

	_, err = collector.Search(context.Background(), SearchOptions{})
	assert.Error(t, err)
	assert.False(t, errors.As(err, new(*AuthError)))
}

package websearch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ecosystem-mapper/internal/types"
)

// fakeSearcher returns canned results for the first matching rule.
type fakeRule struct {
	substr  string
	results []types.ResourceRecord
	err     error
}

type fakeSearcher struct {
	rules   []fakeRule
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ Options) ([]types.ResourceRecord, error) {
	f.queries = append(f.queries, query)
	for _, rule := range f.rules {
		if strings.Contains(query, rule.substr) {
			return rule.results, rule.err
		}
	}
	return nil, nil
}

func TestCombineRunsThreeSearches(t *testing.T) {
	fake := &fakeSearcher{
		rules: []fakeRule{
			{substr: "tools", results: []types.ResourceRecord{{Title: "tool", URL: "https://github.com/a/b"}}},
			{substr: "ecosystem", results: []types.ResourceRecord{{Title: "map", URL: "https://example.com/map"}}},
		},
	}

	results, err := Combine(context.Background(), fake, "agentic AI", 15)
	require.NoError(t, err)

	require.Len(t, fake.queries, 3)
	assert.Equal(t, "agentic AI", fake.queries[0])
	assert.Contains(t, fake.queries[1], "tools libraries frameworks projects")
	assert.Contains(t, fake.queries[2], "ecosystem landscape market map overview")

	assert.Empty(t, results[CategoryGeneral])
	assert.Len(t, results[CategoryTools], 1)
	assert.Len(t, results[CategoryEcosystem], 1)
}

func TestCombineDeduplicatesAcrossCategories(t *testing.T) {
	shared := types.ResourceRecord{Title: "dup", URL: "https://example.com/dup"}
	fake := &fakeSearcher{
		rules: []fakeRule{
			{substr: "tools", results: []types.ResourceRecord{shared}},
			{substr: "agentic", results: []types.ResourceRecord{shared, {Title: "only", URL: "https://example.com/only"}}},
		},
	}

	results, err := Combine(context.Background(), fake, "agentic AI", 15)
	require.NoError(t, err)

	assert.Len(t, results[CategoryGeneral], 2)
	assert.Empty(t, results[CategoryTools], "URL already seen in general results")
}

func TestCombineDegradesOnPartialFailure(t *testing.T) {
	fake := &fakeSearcher{
		rules: []fakeRule{
			{substr: "tools", err: &QuotaExceededError{Message: "plan exhausted"}},
			{substr: "agentic", results: []types.ResourceRecord{{Title: "hit", URL: "https://example.com/hit"}}},
		},
	}

	results, err := Combine(context.Background(), fake, "agentic AI", 15)
	require.NoError(t, err)
	assert.Len(t, results[CategoryGeneral], 1)
	assert.Empty(t, results[CategoryTools])
}

func TestCombineFailsWhenAllSearchesFail(t *testing.T) {
	authErr := &AuthError{Message: "bad key"}
	fake := &fakeSearcher{rules: []fakeRule{{substr: "", err: authErr}}}

	_, err := Combine(context.Background(), fake, "agentic AI", 15)
	require.Error(t, err)
	assert.ErrorIs(t, err, authErr)
}

func TestCombineSkipsRecordsWithoutURL(t *testing.T) {
	fake := &fakeSearcher{
		rules: []fakeRule{
			{substr: "agentic", results: []types.ResourceRecord{{Title: "no url"}, {Title: "ok", URL: "https://example.com/ok"}}},
		},
	}

	results, err := Combine(context.Background(), fake, "agentic AI", 15)
	require.NoError(t, err)
	require.Len(t, results[CategoryGeneral], 1)
	assert.Equal(t, "ok", results[CategoryGeneral][0].Title)
}

func TestCombineFailsAllWithWrappedFirstError(t *testing.T) {
	fake := &fakeSearcher{rules: []fakeRule{{substr: "", err: errors.New("network down")}}}

	_, err := Combine(context.Background(), fake, "kw", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all web searches failed")
}

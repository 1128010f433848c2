package taxonomy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ecosystem-mapper/internal/types"
)

// fakeClient returns canned responses and records the prompts it receives.
type fakeClient struct {
	responses []string
	err       error

	calls     int
	systems   []string
	prompts   []string
	maxTokens []int
	modelName string
}

func (f *fakeClient) GenerateJSON(_ context.Context, system, prompt string, maxTokens int) (string, error) {
	f.systems = append(f.systems, system)
	f.prompts = append(f.prompts, prompt)
	f.maxTokens = append(f.maxTokens, maxTokens)
	call := f.calls
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if call < len(f.responses) {
		return f.responses[call], nil
	}
	return "", errors.New("no response configured")
}

func (f *fakeClient) Model() string {
	if f.modelName != "" {
		return f.modelName
	}
	return "fake/model"
}

func (f *fakeClient) Close() error { return nil }

const validTaxonomyJSON = `{
	"ecosystem_name": "agentic AI",
	"overview": "Agents everywhere.",
	"categories": [
		{
			"name": "Frameworks",
			"description": "Agent orchestration frameworks",
			"examples": [
				{"name": "langchain", "description": "chains", "url": "https://github.com/langchain-ai/langchain", "type": "open-source"}
			]
		}
	],
	"key_trends": ["multi-agent systems"]
}`

func sampleRawData() *types.RawData {
	return &types.RawData{
		Keyword: "agentic AI",
		Repositories: []types.RepositoryRecord{
			{FullName: "langchain-ai/langchain", URL: "https://github.com/langchain-ai/langchain", Stars: 90000, Description: "LLM app framework"},
		},
		WebResults: map[string][]types.ResourceRecord{
			"general": {{Title: "State of agents", URL: "https://example.com/agents", Snippet: "overview"}},
		},
	}
}

func TestCreateTaxonomy(t *testing.T) {
	client := &fakeClient{responses: []string{validTaxonomyJSON}}
	analyzer := NewAnalyzer(client)

	tax, err := analyzer.CreateTaxonomy(context.Background(), "agentic AI", sampleRawData())

	require.NoError(t, err)
	assert.Equal(t, "agentic AI", tax.EcosystemName)
	require.Len(t, tax.Categories, 1)
	assert.Equal(t, "Frameworks", tax.Categories[0].Name)
	assert.Nil(t, tax.Insights)

	require.Equal(t, 1, client.calls)
	assert.Equal(t, createMaxTokens, client.maxTokens[0])
	assert.Contains(t, client.prompts[0], "agentic AI")
	assert.Contains(t, client.prompts[0], "langchain-ai/langchain")
}

func TestCreateTaxonomyStripsMarkdownFences(t *testing.T) {
	client := &fakeClient{responses: []string{"```json\n" + validTaxonomyJSON + "\n```"}}
	analyzer := NewAnalyzer(client)

	tax, err := analyzer.CreateTaxonomy(context.Background(), "agentic AI", sampleRawData())

	require.NoError(t, err)
	assert.Equal(t, "agentic AI", tax.EcosystemName)
}

func TestCreateTaxonomyAPIError(t *testing.T) {
	client := &fakeClient{err: errors.New("upstream timeout")}
	analyzer := NewAnalyzer(client)

	_, err := analyzer.CreateTaxonomy(context.Background(), "agentic AI", sampleRawData())

	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
}

func TestCreateTaxonomyInvalidResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "sorry, I cannot help with that"},
		{"empty", "   "},
		{"missing categories", `{"ecosystem_name": "x"}`},
		{"empty categories", `{"ecosystem_name": "x", "categories": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{responses: []string{tt.response}}
			analyzer := NewAnalyzer(client)

			_, err := analyzer.CreateTaxonomy(context.Background(), "x", sampleRawData())

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestEnrich(t *testing.T) {
	insightsJSON := `{
		"maturity_level": "growing",
		"maturity_analysis": "Funding and adoption both rising.",
		"ecosystem_gaps": ["evaluation"],
		"integration_opportunities": ["shared protocols"]
	}`
	client := &fakeClient{responses: []string{insightsJSON}}
	analyzer := NewAnalyzer(client)

	base := &types.Taxonomy{
		EcosystemName: "agentic AI",
		Categories:    []types.TaxonomyCategory{{Name: "Frameworks", Description: "d"}},
	}

	enriched, err := analyzer.Enrich(context.Background(), base)

	require.NoError(t, err)
	require.NotNil(t, enriched.Insights)
	assert.Equal(t, "growing", enriched.Insights.MaturityLevel)
	assert.Equal(t, []string{"evaluation"}, enriched.Insights.EcosystemGaps)

	// the original taxonomy is untouched
	assert.Nil(t, base.Insights)

	assert.Equal(t, enrichMaxTokens, client.maxTokens[0])
	assert.Contains(t, client.prompts[0], `"ecosystem_name": "agentic AI"`)
}

func TestEnrichInvalidResponse(t *testing.T) {
	client := &fakeClient{responses: []string{`{"ecosystem_gaps": []}`}}
	analyzer := NewAnalyzer(client)

	base := &types.Taxonomy{
		EcosystemName: "x",
		Categories:    []types.TaxonomyCategory{{Name: "c", Description: "d"}},
	}

	_, err := analyzer.Enrich(context.Background(), base)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Nil(t, base.Insights)
}

func TestGroundedExampleCount(t *testing.T) {
	data := sampleRawData()
	tax := &types.Taxonomy{
		Categories: []types.TaxonomyCategory{
			{
				Name: "Frameworks",
				Examples: []types.ExampleEntry{
					{Name: "langchain", URL: "https://github.com/langchain-ai/langchain/"},
					{Name: "unknown", URL: "https://example.org/elsewhere"},
					{Name: "no-url"},
				},
			},
		},
	}

	assert.Equal(t, 1, GroundedExampleCount(tax, data))
}

func TestAnalyzerModel(t *testing.T) {
	analyzer := NewAnalyzer(&fakeClient{modelName: "google/gemini-3-flash-preview"})
	assert.Equal(t, "google/gemini-3-flash-preview", analyzer.Model())
}

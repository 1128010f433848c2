// Package taxonomy turns collected ecosystem data into a structured taxonomy
// using an LLM, with schema validation on every model response.
package taxonomy

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/ecosystem-mapper/internal/llm"
	"github.com/jonathan/ecosystem-mapper/internal/prompts"
	"github.com/jonathan/ecosystem-mapper/internal/schemas"
	"github.com/jonathan/ecosystem-mapper/internal/types"
)

const (
	promptFile = "taxonomy.json"

	createMaxTokens = 4000
	enrichMaxTokens = 2000
)

// Analyzer produces ecosystem taxonomies from collected raw data.
type Analyzer struct {
	client llm.Client
}

// NewAnalyzer creates an analyzer backed by the given model client.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Model returns the identifier of the underlying model.
func (a *Analyzer) Model() string {
	return a.client.Model()
}

// CreateTaxonomy asks the model to categorize the ecosystem described by the
// collected data. The response is validated against the taxonomy schema
// before being returned; an invalid or unparseable response is a ParseError.
func (a *Analyzer) CreateTaxonomy(ctx context.Context, keyword string, data *types.RawData) (*types.Taxonomy, error) {
	system, err := prompts.Get(promptFile, "system-analyst")
	if err != nil {
		return nil, err
	}
	template, err := prompts.Get(promptFile, "create-taxonomy")
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(template, map[string]string{
		"Keyword":     keyword,
		"DataSummary": BuildDigest(data),
	})

	response, err := a.client.GenerateJSON(ctx, system, prompt, createMaxTokens)
	if err != nil {
		return nil, &APICallError{Message: "taxonomy generation request failed", Cause: err}
	}

	cleaned := llm.CleanJSONBlock(response)
	if strings.TrimSpace(cleaned) == "" {
		return nil, &ParseError{Message: "model returned an empty response"}
	}

	if err := schemas.ValidateTaxonomy(cleaned); err != nil {
		return nil, &ParseError{Message: "response does not match the taxonomy structure", Cause: err}
	}

	var tax types.Taxonomy
	if err := json.Unmarshal([]byte(cleaned), &tax); err != nil {
		return nil, &ParseError{Message: "response is not valid JSON", Cause: err}
	}

	return &tax, nil
}

// GroundedExampleCount reports how many taxonomy examples reference a URL
// that also appears in the collected data. Used for run reporting only.
func GroundedExampleCount(tax *types.Taxonomy, data *types.RawData) int {
	known := make(map[string]bool)
	for _, repo := range data.Repositories {
		known[normalizeURL(repo.URL)] = true
	}
	for _, results := range data.WebResults {
		for _, res := range results {
			known[normalizeURL(res.URL)] = true
		}
	}

	count := 0
	for _, category := range tax.Categories {
		for _, example := range category.Examples {
			if example.URL != "" && known[normalizeURL(example.URL)] {
				count++
			}
		}
	}
	return count
}

func normalizeURL(u string) string {
	u = strings.TrimSuffix(strings.TrimSpace(u), "/")
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	return strings.ToLower(u)
}

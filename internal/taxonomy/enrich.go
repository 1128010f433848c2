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

// Enrich asks the model for a second pass over an existing taxonomy and
// returns a copy with the Insights field populated. The input taxonomy is
// never modified, so callers can fall back to it when enrichment fails.
func (a *Analyzer) Enrich(ctx context.Context, tax *types.Taxonomy) (*types.Taxonomy, error) {
	system, err := prompts.Get(promptFile, "system-enrichment")
	if err != nil {
		return nil, err
	}
	template, err := prompts.Get(promptFile, "enrich-taxonomy")
	if err != nil {
		return nil, err
	}

	base, err := json.MarshalIndent(tax, "", "  ")
	if err != nil {
		return nil, &ParseError{Message: "failed to serialize taxonomy for enrichment", Cause: err}
	}

	prompt := prompts.Format(template, map[string]string{
		"TaxonomyJSON": string(base),
	})

	response, err := a.client.GenerateJSON(ctx, system, prompt, enrichMaxTokens)
	if err != nil {
		return nil, &APICallError{Message: "enrichment request failed", Cause: err}
	}

	cleaned := llm.CleanJSONBlock(response)
	if strings.TrimSpace(cleaned) == "" {
		return nil, &ParseError{Message: "model returned an empty response"}
	}

	if err := schemas.ValidateInsights(cleaned); err != nil {
		return nil, &ParseError{Message: "response does not match the insights structure", Cause: err}
	}

	var insights types.Insights
	if err := json.Unmarshal([]byte(cleaned), &insights); err != nil {
		return nil, &ParseError{Message: "response is not valid JSON", Cause: err}
	}

	enriched := *tax
	enriched.Insights = &insights
	return &enriched, nil
}

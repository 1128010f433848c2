package taxonomy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/ecosystem-mapper/internal/types"
	"github.com/jonathan/ecosystem-mapper/internal/websearch"
)

// Digest size caps. The digest must fit comfortably inside the model's
// context window alongside the prompt template, so collected data is
// truncated before prompting.
const (
	maxDigestRepos      = 30
	maxDigestPerSearch  = 15
	maxSnippetRunes     = 200
	maxTopicsPerRepo    = 5
	maxDigestTotalRunes = 24000
)

// BuildDigest renders collected raw data into a compact plain-text summary
// for the analysis prompt. Repositories are ordered by stars descending and
// capped; web results are capped per search category; long descriptions and
// snippets are truncated.
func BuildDigest(data *types.RawData) string {
	var sb strings.Builder

	sb.WriteString("GITHUB REPOSITORIES:\n")
	repos := make([]types.RepositoryRecord, len(data.Repositories))
	copy(repos, data.Repositories)
	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].Stars > repos[j].Stars
	})
	if len(repos) > maxDigestRepos {
		repos = repos[:maxDigestRepos]
	}
	for _, repo := range repos {
		sb.WriteString(fmt.Sprintf("- %s (%d stars): %s\n", repo.FullName, repo.Stars, truncate(repo.Description, maxSnippetRunes)))
		if repo.Language != "" {
			sb.WriteString(fmt.Sprintf("  Language: %s\n", repo.Language))
		}
		if len(repo.Topics) > 0 {
			topics := repo.Topics
			if len(topics) > maxTopicsPerRepo {
				topics = topics[:maxTopicsPerRepo]
			}
			sb.WriteString(fmt.Sprintf("  Topics: %s\n", strings.Join(topics, ", ")))
		}
	}

	sb.WriteString("\nWEB SEARCH RESULTS:\n")
	for _, category := range digestCategoryOrder(data.WebResults) {
		results := data.WebResults[category]
		if len(results) == 0 {
			continue
		}
		if len(results) > maxDigestPerSearch {
			results = results[:maxDigestPerSearch]
		}
		sb.WriteString(fmt.Sprintf("\n[%s]\n", category))
		for _, res := range results {
			sb.WriteString(fmt.Sprintf("- %s\n  %s\n", res.Title, truncate(res.Snippet, maxSnippetRunes)))
		}
	}

	digest := sb.String()
	if runes := []rune(digest); len(runes) > maxDigestTotalRunes {
		digest = string(runes[:maxDigestTotalRunes])
	}
	return digest
}

// digestCategoryOrder returns categories in deterministic order: the three
// standard search categories first, then any others alphabetically.
func digestCategoryOrder(results map[string][]types.ResourceRecord) []string {
	standard := []string{websearch.CategoryGeneral, websearch.CategoryTools, websearch.CategoryEcosystem}
	order := make([]string, 0, len(results))
	seen := make(map[string]bool, len(results))
	for _, category := range standard {
		if _, ok := results[category]; ok {
			order = append(order, category)
			seen[category] = true
		}
	}
	extras := make([]string, 0)
	for category := range results {
		if !seen[category] {
			extras = append(extras, category)
		}
	}
	sort.Strings(extras)
	return append(order, extras...)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

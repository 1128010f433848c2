// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/ecosystem-mapper/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRepositories outputs a summary of the collected repositories.
func (p *Printer) PrintRepositories(repos []types.RepositoryRecord) {
	if len(repos) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Collected %d repositories:\n\n", len(repos)))

	count := min(len(repos), maxItemsToShow)
	for i := 0; i < count; i++ {
		repo := repos[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, repo.FullName))
		sb.WriteString(fmt.Sprintf("    Stars: %d", repo.Stars))
		if repo.Language != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", repo.Language))
		}
		sb.WriteString("\n")
		if len(repo.Topics) > 0 {
			topics := strings.Join(repo.Topics, ", ")
			if len(topics) > 40 {
				topics = topics[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Topics: %s\n", topics))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(repos) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more repositories", len(repos)-maxItemsToShow))
	}

	p.printBox("COLLECTED REPOSITORIES", sb.String())
}

// PrintWebResults outputs a per-category summary of web search results.
func (p *Printer) PrintWebResults(results map[string][]types.ResourceRecord) {
	total := 0
	for _, res := range results {
		total += len(res)
	}
	if total == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Collected %d web results:\n\n", total))

	for _, category := range []string{"general", "tools", "ecosystem"} {
		res, ok := results[category]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: %d results\n", category, len(res)))
		count := min(len(res), 3)
		for i := 0; i < count; i++ {
			title := res[i].Title
			if len(title) > 48 {
				title = title[:45] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", title))
		}
	}

	p.printBox("WEB SEARCH RESULTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTaxonomy outputs the generated taxonomy structure.
func (p *Printer) PrintTaxonomy(tax *types.Taxonomy) {
	if tax == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Ecosystem: %s\n", tax.EcosystemName))
	sb.WriteString(fmt.Sprintf("Categories: %d  Examples: %d\n\n", len(tax.Categories), tax.ExampleCount()))

	count := min(len(tax.Categories), maxItemsToShow)
	for i := 0; i < count; i++ {
		cat := tax.Categories[i]
		sb.WriteString(fmt.Sprintf("• %s (%d examples)\n", cat.Name, len(cat.Examples)))
	}
	if len(tax.Categories) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more categories\n", len(tax.Categories)-maxItemsToShow))
	}

	if len(tax.KeyTrends) > 0 {
		sb.WriteString("\nKey Trends:\n")
		trendCount := min(len(tax.KeyTrends), 3)
		for i := 0; i < trendCount; i++ {
			trend := tax.KeyTrends[i]
			if len(trend) > 50 {
				trend = trend[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", trend))
		}
	}

	p.printBox("ECOSYSTEM TAXONOMY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintInsights outputs the enrichment insights when present.
func (p *Printer) PrintInsights(insights *types.Insights) {
	if insights == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Maturity: %s\n", insights.MaturityLevel))

	if len(insights.EcosystemGaps) > 0 {
		sb.WriteString("\nGaps:\n")
		count := min(len(insights.EcosystemGaps), 3)
		for i := 0; i < count; i++ {
			gap := insights.EcosystemGaps[i]
			if len(gap) > 50 {
				gap = gap[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", gap))
		}
	}

	if len(insights.IntegrationOpportunities) > 0 {
		sb.WriteString("\nIntegration Opportunities:\n")
		count := min(len(insights.IntegrationOpportunities), 3)
		for i := 0; i < count; i++ {
			opp := insights.IntegrationOpportunities[i]
			if len(opp) > 50 {
				opp = opp[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", opp))
		}
	}

	p.printBox("ECOSYSTEM INSIGHTS", strings.TrimSuffix(sb.String(), "\n"))
}

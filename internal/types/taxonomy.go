package types

// Example type tags produced by the analysis model. The enum is open: the
// model may emit values outside this list and they are preserved as-is.
const (
	ExampleOpenSource = "open-source"
	ExampleCommercial = "commercial"
	ExampleFramework  = "framework"
	ExampleLibrary    = "library"
	ExamplePlatform   = "platform"
)

// ExampleEntry is a representative project, tool, or company within a category.
type ExampleEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	Type        string `json:"type,omitempty"`
}

// TaxonomyCategory is one category of the ecosystem taxonomy.
type TaxonomyCategory struct {
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Subcategories []string       `json:"subcategories,omitempty"`
	Examples      []ExampleEntry `json:"examples,omitempty"`
	Relationships []string       `json:"relationships,omitempty"`
}

// Insights holds the enrichment output: maturity assessment, gaps, and
// integration opportunities. Present only when the enrichment call succeeds.
type Insights struct {
	MaturityLevel            string            `json:"maturity_level"`
	MaturityAnalysis         string            `json:"maturity_analysis,omitempty"`
	CategoryDifferentiators  map[string]string `json:"category_differentiators,omitempty"`
	EcosystemGaps            []string          `json:"ecosystem_gaps,omitempty"`
	IntegrationOpportunities []string          `json:"integration_opportunities,omitempty"`
}

// Taxonomy is the structured categorization of a technology ecosystem,
// produced once per pipeline run.
type Taxonomy struct {
	EcosystemName string             `json:"ecosystem_name"`
	Overview      string             `json:"overview"`
	Categories    []TaxonomyCategory `json:"categories"`
	KeyTrends     []string           `json:"key_trends,omitempty"`
	EmergingAreas []string           `json:"emerging_areas,omitempty"`
	Insights      *Insights          `json:"insights,omitempty"`
}

// ExampleCount returns the total number of examples across all categories.
func (t *Taxonomy) ExampleCount() int {
	count := 0
	for _, c := range t.Categories {
		count += len(c.Examples)
	}
	return count
}

// CategoryNames returns the category names in taxonomy order.
func (t *Taxonomy) CategoryNames() []string {
	names := make([]string, 0, len(t.Categories))
	for _, c := range t.Categories {
		names = append(names, c.Name)
	}
	return names
}

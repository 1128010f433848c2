// Package pipeline provides the high-level orchestration for mapping an
// ecosystem: concurrent data collection, taxonomy generation, optional
// enrichment, and output persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ecosystem-mapper/internal/db"
	"github.com/jonathan/ecosystem-mapper/internal/github"
	"github.com/jonathan/ecosystem-mapper/internal/observability"
	"github.com/jonathan/ecosystem-mapper/internal/storage"
	"github.com/jonathan/ecosystem-mapper/internal/taxonomy"
	"github.com/jonathan/ecosystem-mapper/internal/types"
	"github.com/jonathan/ecosystem-mapper/internal/websearch"
)

// RepositoryCollector collects repositories matching a keyword.
type RepositoryCollector interface {
	Search(ctx context.Context, opts github.SearchOptions) ([]types.RepositoryRecord, error)
}

// TaxonomyAnalyzer turns collected raw data into a taxonomy and optionally
// enriches it with insights.
type TaxonomyAnalyzer interface {
	CreateTaxonomy(ctx context.Context, keyword string, data *types.RawData) (*types.Taxonomy, error)
	Enrich(ctx context.Context, tax *types.Taxonomy) (*types.Taxonomy, error)
	Model() string
}

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	Keyword    string
	MaxRepos   int
	MonthsBack int
	MinStars   int
	WebResults int
	Enrich     bool
	SaveRaw    bool
	Verbose    bool
	OutputDir  string

	DatabaseURL string

	Collector RepositoryCollector
	Searcher  websearch.Searcher
	Analyzer  TaxonomyAnalyzer

	// Now overrides the run timestamp, for tests.
	Now func() time.Time
}

// RunResult summarizes a completed pipeline run.
type RunResult struct {
	Keyword          string
	Timestamp        string
	RepositoryCount  int
	WebResultCount   int
	Taxonomy         *types.Taxonomy
	Degraded         bool
	Enriched         bool
	GroundedExamples int

	RawDataPath  string
	SnapshotPath string
	LatestPath   string
}

// Run executes the full mapping pipeline for a keyword. Collection sources
// degrade independently: a rate-limited or quota-exhausted source yields a
// warning and a partial run, and only the loss of every source is fatal.
// Authentication failures and unusable model responses abort the run.
func Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if opts.Keyword == "" {
		return nil, fmt.Errorf("keyword is required")
	}
	if opts.Collector == nil || opts.Searcher == nil || opts.Analyzer == nil {
		return nil, fmt.Errorf("pipeline requires a collector, a searcher, and an analyzer")
	}

	now := time.Now()
	if opts.Now != nil {
		now = opts.Now()
	}
	ts := storage.Timestamp(now)

	writer, err := storage.NewWriter(opts.OutputDir)
	if err != nil {
		return nil, err
	}

	// Optional database persistence. A connection failure is a warning, not
	// a run failure.
	var database *db.DB
	var runID uuid.UUID
	if opts.DatabaseURL != "" {
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
			database = nil
		} else {
			defer database.Close()
			if err := database.EnsureSchema(ctx); err != nil {
				fmt.Printf("Warning: Failed to ensure database schema: %v\n", err)
				database = nil
			}
		}
	}
	if database != nil {
		runID, err = database.CreateRun(ctx, opts.Keyword)
		if err != nil {
			fmt.Printf("Warning: Failed to create database run: %v\n", err)
			database = nil
		} else if opts.Verbose {
			fmt.Printf("[VERBOSE] Created database run: %s\n", runID)
		}
	}

	fmt.Printf("Step 1/4: Collecting data for %q (repositories + web search)...\n", opts.Keyword)

	var (
		repos      []types.RepositoryRecord
		repoErr    error
		webResults map[string][]types.ResourceRecord
		webErr     error
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		repos, repoErr = opts.Collector.Search(gCtx, github.SearchOptions{
			Keyword:    opts.Keyword,
			MonthsBack: opts.MonthsBack,
			MaxResults: opts.MaxRepos,
			MinStars:   opts.MinStars,
		})
		if isFatalCollectionError(repoErr) {
			return repoErr
		}
		return nil
	})
	g.Go(func() error {
		webResults, webErr = websearch.Combine(gCtx, opts.Searcher, opts.Keyword, opts.WebResults)
		if isFatalCollectionError(webErr) {
			return webErr
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		failRun(ctx, database, runID)
		return nil, err
	}

	degraded := false
	if repoErr != nil {
		fmt.Printf("Warning: repository collection failed: %v\n", repoErr)
		fmt.Printf("Continuing with web search results only...\n")
		repos = nil
		degraded = true
	}
	if webErr != nil {
		fmt.Printf("Warning: web search failed: %v\n", webErr)
		fmt.Printf("Continuing with repository data only...\n")
		webResults = nil
		degraded = true
	}

	data := &types.RawData{
		Keyword:      opts.Keyword,
		Timestamp:    ts,
		Repositories: repos,
		WebResults:   webResults,
	}

	if len(data.Repositories) == 0 && data.TotalWebResults() == 0 {
		failRun(ctx, database, runID)
		return nil, fmt.Errorf("no data collected for %q from any source", opts.Keyword)
	}

	fmt.Printf("Collected %d repositories and %d web results\n", len(data.Repositories), data.TotalWebResults())

	var printer *observability.Printer
	if opts.Verbose {
		printer = observability.NewPrinter(os.Stdout)
		printer.PrintRepositories(data.Repositories)
		printer.PrintWebResults(data.WebResults)
	}

	result := &RunResult{
		Keyword:         opts.Keyword,
		Timestamp:       ts,
		RepositoryCount: len(data.Repositories),
		WebResultCount:  data.TotalWebResults(),
		Degraded:        degraded,
	}

	// Raw data is written before analysis so a failed model call never
	// loses the collected data.
	if opts.SaveRaw {
		fmt.Printf("Step 2/4: Saving raw data snapshot...\n")
		result.RawDataPath, err = writer.WriteRawData(data, ts)
		if err != nil {
			failRun(ctx, database, runID)
			return nil, err
		}
	}
	if database != nil {
		_ = database.SaveArtifact(ctx, runID, db.StepRawGitHub, "collection", data.Repositories)
		_ = database.SaveArtifact(ctx, runID, db.StepRawWeb, "collection", data.WebResults)
	}

	fmt.Printf("Step 3/4: Generating taxonomy with %s...\n", opts.Analyzer.Model())
	tax, err := opts.Analyzer.CreateTaxonomy(ctx, opts.Keyword, data)
	if err != nil {
		failRun(ctx, database, runID)
		return nil, err
	}
	if database != nil {
		_ = database.SaveArtifact(ctx, runID, db.StepTaxonomyBase, "analysis", tax)
	}

	// Enrichment is best-effort: a failed second pass keeps the base taxonomy.
	if opts.Enrich {
		enriched, enrichErr := opts.Analyzer.Enrich(ctx, tax)
		if enrichErr != nil {
			fmt.Printf("Warning: enrichment failed, keeping base taxonomy: %v\n", enrichErr)
		} else {
			tax = enriched
			result.Enriched = true
		}
	}

	result.Taxonomy = tax
	result.GroundedExamples = taxonomy.GroundedExampleCount(tax, data)

	if opts.Verbose {
		printer.PrintTaxonomy(tax)
		printer.PrintInsights(tax.Insights)
	}

	fmt.Printf("Step 4/4: Writing taxonomy files...\n")
	result.SnapshotPath, result.LatestPath, err = writer.WriteTaxonomy(opts.Keyword, tax, ts)
	if err != nil {
		failRun(ctx, database, runID)
		return nil, err
	}

	if database != nil {
		_ = database.SaveArtifact(ctx, runID, db.StepTaxonomy, "analysis", tax)
		status := db.StatusCompleted
		if degraded {
			status = db.StatusDegraded
		}
		if err := database.CompleteRun(ctx, runID, status); err != nil {
			fmt.Printf("Warning: Failed to complete database run: %v\n", err)
		}
	}

	return result, nil
}

// isFatalCollectionError reports whether a collection error should abort the
// run instead of degrading it. Credential problems are fatal; rate limits,
// quota exhaustion, and transient upstream failures are not.
func isFatalCollectionError(err error) bool {
	if err == nil {
		return false
	}
	var ghAuth *github.AuthError
	var wsAuth *websearch.AuthError
	return errors.As(err, &ghAuth) || errors.As(err, &wsAuth)
}

func failRun(ctx context.Context, database *db.DB, runID uuid.UUID) {
	if database == nil {
		return
	}
	if err := database.CompleteRun(ctx, runID, db.StatusFailed); err != nil {
		fmt.Printf("Warning: Failed to mark database run failed: %v\n", err)
	}
}

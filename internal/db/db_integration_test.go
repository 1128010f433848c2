//go:build integration

package db

import (
	"context"
	"os"
	"testing"

	"github.com/jonathan/ecosystem-mapper/internal/types"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	db, err := Connect(context.Background(), url)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := db.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	return db
}

func TestIntegration_RunLifecycle(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	runID, err := db.CreateRun(ctx, "agentic AI")
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	data := &types.RawData{Keyword: "agentic AI", Timestamp: "20260823_140509"}
	if err := db.SaveArtifact(ctx, runID, StepRawGitHub, "collection", data); err != nil {
		t.Fatalf("SaveArtifact failed: %v", err)
	}

	content, err := db.GetArtifact(ctx, runID, StepRawGitHub)
	if err != nil {
		t.Fatalf("GetArtifact failed: %v", err)
	}
	if content == nil {
		t.Fatal("GetArtifact returned nil for saved artifact")
	}

	missing, err := db.GetArtifact(ctx, runID, StepTaxonomy)
	if err != nil {
		t.Fatalf("GetArtifact (missing) failed: %v", err)
	}
	if missing != nil {
		t.Error("GetArtifact returned content for unsaved step")
	}

	if err := db.CompleteRun(ctx, runID, StatusCompleted); err != nil {
		t.Fatalf("CompleteRun failed: %v", err)
	}

	run, err := db.GetRun(ctx, runID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run == nil || run.Status != StatusCompleted {
		t.Errorf("run status = %+v, want completed", run)
	}
	if run.CompletedAt == nil {
		t.Error("CompletedAt not set after CompleteRun")
	}

	runs, err := db.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) == 0 {
		t.Error("ListRuns returned no runs")
	}
}

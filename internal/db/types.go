package db

import (
	"time"

	"github.com/google/uuid"
)

// Artifact step identifiers. One row per step per run.
const (
	StepRawGitHub    = "raw_github"
	StepRawWeb       = "raw_web"
	StepTaxonomyBase = "taxonomy_base"
	StepTaxonomy     = "taxonomy"
)

// Run status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusDegraded  = "degraded"
	StatusFailed    = "failed"
)

// Run is a recorded pipeline execution.
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Keyword     string     `json:"keyword"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Package types provides type definitions for structured data used throughout the ecosystem-mapper system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// RepositoryRecord represents a single repository collected from the code host.
// Records are immutable once created and live for a single pipeline run.
type RepositoryRecord struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Language    string    `json:"language,omitempty"`
	Topics      []string  `json:"topics,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Homepage    string    `json:"homepage,omitempty"`
	License     string    `json:"license,omitempty"`
	Owner       string    `json:"owner"`
}

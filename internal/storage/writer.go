// Package storage writes pipeline outputs to the local filesystem as
// timestamped JSON snapshots plus a stable "latest" file per keyword.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/ecosystem-mapper/internal/types"
)

// TimestampLayout is the snapshot filename timestamp format.
const TimestampLayout = "20060102_150405"

// Writer persists run outputs under a single output directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir, creating the directory if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the output directory path.
func (w *Writer) Dir() string {
	return w.dir
}

// SafeKeyword converts a keyword into a filename-safe form: spaces become
// underscores and path separators become hyphens.
func SafeKeyword(keyword string) string {
	safe := strings.ReplaceAll(keyword, " ", "_")
	safe = strings.ReplaceAll(safe, "/", "-")
	return safe
}

// Timestamp formats t for use in snapshot filenames.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// WriteRawData writes the collected raw data snapshot and returns its path.
func (w *Writer) WriteRawData(data *types.RawData, ts string) (string, error) {
	name := fmt.Sprintf("%s_raw_data_%s.json", SafeKeyword(data.Keyword), ts)
	path := filepath.Join(w.dir, name)
	if err := writeJSON(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteTaxonomy writes the taxonomy twice: a timestamped snapshot that is
// never overwritten by later runs, and a latest file that always reflects
// the most recent run for the keyword. Returns both paths.
func (w *Writer) WriteTaxonomy(keyword string, tax *types.Taxonomy, ts string) (snapshot, latest string, err error) {
	safe := SafeKeyword(keyword)

	snapshot = filepath.Join(w.dir, fmt.Sprintf("%s_taxonomy_%s.json", safe, ts))
	if err = writeJSON(snapshot, tax); err != nil {
		return "", "", err
	}

	latest = filepath.Join(w.dir, fmt.Sprintf("%s_taxonomy_latest.json", safe))
	if err = writeJSON(latest, tax); err != nil {
		return "", "", err
	}

	return snapshot, latest, nil
}

// ReadRawData loads a previously written raw data snapshot, for offline
// taxonomy regeneration.
func ReadRawData(path string) (*types.RawData, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw data file %s: %w", path, err)
	}
	var data types.RawData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("failed to parse raw data file %s: %w", path, err)
	}
	return &data, nil
}

func writeJSON(path string, v any) error {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

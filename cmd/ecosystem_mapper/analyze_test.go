package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ecosystem-mapper/internal/config"
)

func TestAnalyzeCommandRequiresFile(t *testing.T) {
	err := runAnalyzeCmd(analyzeCommand, []string{filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}

func TestAnalyzeCommandRejectsRawDataWithoutKeyword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"keyword": "", "github_repositories": []}`), 0o644))

	err := runAnalyzeCmd(analyzeCommand, []string{path})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no keyword")
}

func TestAnalyzeCommandRequiresModelCredentials(t *testing.T) {
	t.Setenv(config.EnvOpenRouterAPIKey, "")

	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"keyword": "agentic AI", "github_repositories": []}`), 0o644))

	err := runAnalyzeCmd(analyzeCommand, []string{path})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENROUTER_API_KEY")
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jonathan/ecosystem-mapper/internal/httputil"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// completionTemperature keeps structured output consistent between calls.
const completionTemperature = 0.3

// OpenRouterClient implements Client against the OpenRouter chat completions
// API (OpenAI-compatible).
type OpenRouterClient struct {
	http    *http.Client
	apiKey  string
	model   string
	baseURL string
}

// NewOpenRouterClient creates a new OpenRouter client.
func NewOpenRouterClient(config *Config, apiKey string) (*OpenRouterClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	model := config.Model
	if model == "" {
		model = DefaultResearchModel
	}
	return &OpenRouterClient{
		http:    httputil.NewClient(0),
		apiKey:  apiKey,
		model:   model,
		baseURL: openRouterBaseURL,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// GenerateJSON requests a JSON-formatted completion from the configured model.
func (c *OpenRouterClient) GenerateJSON(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	payload := chatRequest{
		Model:       c.model,
		Temperature: completionTemperature,
		MaxTokens:   maxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}

	var resp chatResponse
	err := httputil.RetryWithBackoff(ctx, func() error {
		return c.post(ctx, "/chat/completions", payload, &resp)
	})
	if err != nil {
		return "", err
	}

	if resp.Error != nil {
		return "", fmt.Errorf("openrouter error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in openrouter response")
	}
	return CleanJSONBlock(resp.Choices[0].Message.Content), nil
}

// Model returns the configured model identifier.
func (c *OpenRouterClient) Model() string {
	return c.model
}

// Close is a no-op; the client holds no persistent connections.
func (c *OpenRouterClient) Close() error {
	return nil
}

func (c *OpenRouterClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: fmt.Errorf("openrouter request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(out)
	case resp.StatusCode >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("openrouter status %d", resp.StatusCode)}
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("openrouter status %d: %s", resp.StatusCode, string(msg))
	}
}

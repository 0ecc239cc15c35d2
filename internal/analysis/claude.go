// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/pdiddy/case-analyzer/internal/httputil"
)

// DefaultClaudeModel is used when no model is configured.
const DefaultClaudeModel = "claude-sonnet-4-5"

// claudeAPIURL is the Claude Messages endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeProvider calls the Claude Messages API. The API has no schema
// parameter, so the schema is appended to the prompt.
type ClaudeProvider struct {
	APIKey      string
	Model       string
	BaseURL     string
	UserAgent   string
	Temperature float32
	Client      *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float32         `json:"temperature"`
	Messages    []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Request sends the prompt, with the schema appended, as one user message and
// returns the first text block.
func (c *ClaudeProvider) Request(ctx context.Context, prompt string, schema *Schema) (string, error) {
	if schema != nil {
		b, err := json.Marshal(schema)
		if err != nil {
			return "", fmt.Errorf("marshaling schema: %w", err)
		}
		prompt = fmt.Sprintf("%s\nJSON Schema:\n%s\n\nRespond with the JSON object only, with no text before or after it.", prompt, b)
	}

	model := c.Model
	if model == "" {
		model = DefaultClaudeModel
	}

	url := claudeAPIURL
	if c.BaseURL != "" {
		url = strings.TrimSuffix(c.BaseURL, "/") + "/v1/messages"
	}

	headers := http.Header{}
	headers.Set("x-api-key", c.APIKey)
	headers.Set("anthropic-version", "2023-06-01")
	if c.UserAgent != "" {
		headers.Set("User-Agent", c.UserAgent)
	}

	var resp claudeResponse
	err := httputil.PostJSON(ctx, c.Client, url, headers, claudeRequest{
		Model:       model,
		MaxTokens:   8192,
		Temperature: c.Temperature,
		Messages:    []claudeMessage{{Role: "user", Content: prompt}},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, nil
		}
	}
	return "", errors.New("no text content in Claude API response")
}

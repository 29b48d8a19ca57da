package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/cirrusops/conversation-miner/pkg/config"
)

const (
	anthropicVersion = "2023-06-01"
	defaultModel     = "claude-sonnet-4-5"

	// retryAttempts bounds how many times a single request may hit the API,
	// counting the first try.
	retryAttempts = 6
)

// ErrRateLimited is returned once 429 responses have exhausted the retry budget.
var ErrRateLimited = errors.New("anthropic rate limit retries exhausted")

// ErrEmptyOutput is returned when the model reply carries no text content.
var ErrEmptyOutput = errors.New("anthropic returned no text content")

// AnthropicClient is a minimal client for the Anthropic Messages API.
type AnthropicClient struct {
	apiKey       string
	baseURL      string
	model        string
	client       *http.Client
	retryInitial time.Duration
	retryMax     time.Duration
}

// NewAnthropicClient creates a client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewAnthropicClient(cfg *config.AnthropicConfig) *AnthropicClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = "https://api.anthropic.com"
	}

	model := defaultModel
	if cfg != nil && cfg.Model != "" {
		model = cfg.Model
	}

	return &AnthropicClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		// Long-form generation with large max_tokens can run for minutes.
		client:       &http.Client{Timeout: 5 * time.Minute},
		retryInitial: 2 * time.Second,
		retryMax:     60 * time.Second,
	}
}

// Model reports the model name requests are sent with.
func (a *AnthropicClient) Model() string {
	return a.model
}

// Tool describes a function-call schema offered to the model.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// ChatMessage is a single conversation turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolChoice forces the model to answer through a specific tool.
type ToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// MessagesRequest is the shape for Messages API requests.
type MessagesRequest struct {
	Model      string        `json:"model"`
	MaxTokens  int           `json:"max_tokens"`
	System     string        `json:"system,omitempty"`
	Messages   []ChatMessage `json:"messages"`
	Tools      []Tool        `json:"tools,omitempty"`
	ToolChoice *ToolChoice   `json:"tool_choice,omitempty"`
}

// ContentBlock is one element of the reply content array.
type ContentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

// MessagesResponse is a minimal response shape.
type MessagesResponse struct {
	Content    []ContentBlock `json:"content"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
}

// ExtractWithTool sends a prompt with a forced tool choice and returns the
// tool input payload. ok is false when the reply carried no tool invocation,
// which callers treat as an empty result rather than a failure.
func (a *AnthropicClient) ExtractWithTool(ctx context.Context, system, user string, tool Tool, maxTokens int) (json.RawMessage, bool, error) {
	req := &MessagesRequest{
		Model:      a.model,
		MaxTokens:  maxTokens,
		System:     system,
		Messages:   []ChatMessage{{Role: "user", Content: user}},
		Tools:      []Tool{tool},
		ToolChoice: &ToolChoice{Type: "tool", Name: tool.Name},
	}

	resp, err := a.send(ctx, req)
	if err != nil {
		return nil, false, err
	}

	for _, block := range resp.Content {
		if block.Type == "tool_use" && block.Name == tool.Name {
			return block.Input, true, nil
		}
	}
	return nil, false, nil
}

// GenerateText sends a plain prompt and returns the concatenated text blocks
// of the reply.
func (a *AnthropicClient) GenerateText(ctx context.Context, system, user string, maxTokens int) (string, error) {
	req := &MessagesRequest{
		Model:     a.model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  []ChatMessage{{Role: "user", Content: user}},
	}

	resp, err := a.send(ctx, req)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", ErrEmptyOutput
	}
	return text.String(), nil
}

// send posts to the Messages endpoint, retrying only on 429 with exponential
// backoff. Any other non-2xx status fails immediately.
func (a *AnthropicClient) send(ctx context.Context, body *MessagesRequest) (*MessagesResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	endpoint := a.baseURL + "/v1/messages"

	var out MessagesResponse
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("x-api-key", a.apiKey)
		req.Header.Set("anthropic-version", anthropicVersion)
		req.Header.Set("Content-Type", "application/json")

		resp, err := a.client.Do(req)
		if err != nil {
			return backoff.Permanent(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("anthropic returned status 429: %w", ErrRateLimited)
		}
		if resp.StatusCode >= 300 {
			raw, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("anthropic returned status %d: %s", resp.StatusCode, summarize(raw)))
		}

		out = MessagesResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode anthropic response: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = a.retryInitial
	bo.MaxInterval = a.retryMax
	bo.MaxElapsedTime = 0

	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, retryAttempts-1), ctx)); err != nil {
		return nil, err
	}
	return &out, nil
}

// summarize truncates an error body so log lines stay readable.
func summarize(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

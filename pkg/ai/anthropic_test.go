package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cirrusops/conversation-miner/pkg/config"
)

func newTestClient(t *testing.T, handler http.Handler) *AnthropicClient {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c := NewAnthropicClient(&config.AnthropicConfig{
		APIKey:  "test-key",
		BaseURL: ts.URL,
		Model:   "claude-test",
	})
	c.retryInitial = time.Millisecond
	c.retryMax = 5 * time.Millisecond
	return c
}

func TestExtractWithToolReturnsInput(t *testing.T) {
	var gotBody map[string]interface{}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("unexpected version header %q", r.Header.Get("anthropic-version"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"content": [{"type": "tool_use", "name": "extract_stories", "input": {"stories": [{"title": "Onboarding win"}]}}],
			"model": "claude-test",
			"stop_reason": "tool_use"
		}`))
	}))

	tool := Tool{Name: "extract_stories", InputSchema: map[string]interface{}{"type": "object"}}
	payload, ok, err := c.ExtractWithTool(context.Background(), "system", "user", tool, 16384)
	if err != nil {
		t.Fatalf("ExtractWithTool: %v", err)
	}
	if !ok {
		t.Fatalf("expected a tool invocation")
	}

	var parsed struct {
		Stories []struct {
			Title string `json:"title"`
		} `json:"stories"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if len(parsed.Stories) != 1 || parsed.Stories[0].Title != "Onboarding win" {
		t.Fatalf("unexpected payload %s", payload)
	}

	choice, _ := gotBody["tool_choice"].(map[string]interface{})
	if choice["type"] != "tool" || choice["name"] != "extract_stories" {
		t.Fatalf("tool choice not forced: %v", gotBody["tool_choice"])
	}
	if gotBody["model"] != "claude-test" {
		t.Fatalf("unexpected model %v", gotBody["model"])
	}
	if gotBody["max_tokens"] != float64(16384) {
		t.Fatalf("unexpected max_tokens %v", gotBody["max_tokens"])
	}
}

func TestExtractWithToolNoInvocation(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": [{"type": "text", "text": "I could not find any stories."}]}`))
	}))

	tool := Tool{Name: "extract_stories", InputSchema: map[string]interface{}{"type": "object"}}
	payload, ok, err := c.ExtractWithTool(context.Background(), "system", "user", tool, 1024)
	if err != nil {
		t.Fatalf("ExtractWithTool: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false without a tool_use block")
	}
	if payload != nil {
		t.Fatalf("expected nil payload, got %s", payload)
	}
}

func TestGenerateTextConcatenatesBlocks(t *testing.T) {
	var gotBody map[string]interface{}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": [{"type": "text", "text": "First half. "}, {"type": "text", "text": "Second half."}]}`))
	}))

	text, err := c.GenerateText(context.Background(), "system", "user", 4096)
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if text != "First half. Second half." {
		t.Fatalf("unexpected text %q", text)
	}
	if _, hasTools := gotBody["tools"]; hasTools {
		t.Fatalf("plain generation must not send tools")
	}
}

func TestGenerateTextEmptyOutput(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": []}`))
	}))

	_, err := c.GenerateText(context.Background(), "system", "user", 4096)
	if !errors.Is(err, ErrEmptyOutput) {
		t.Fatalf("expected ErrEmptyOutput, got %v", err)
	}
}

func TestSendRetriesRateLimit(t *testing.T) {
	attempts := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 5 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": [{"type": "text", "text": "ok"}]}`))
	}))

	text, err := c.GenerateText(context.Background(), "system", "user", 256)
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if text != "ok" {
		t.Fatalf("unexpected text %q", text)
	}
	if attempts != 6 {
		t.Fatalf("expected 6 attempts, got %d", attempts)
	}
}

func TestSendRateLimitBudgetExhausted(t *testing.T) {
	attempts := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.GenerateText(context.Background(), "system", "user", 256)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if attempts != retryAttempts {
		t.Fatalf("expected %d attempts, got %d", retryAttempts, attempts)
	}
}

func TestSendDoesNotRetryOtherErrors(t *testing.T) {
	attempts := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"type": "api_error"}}`))
	}))

	_, err := c.GenerateText(context.Background(), "system", "user", 256)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("unexpected error %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

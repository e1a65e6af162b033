package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type capturedRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

func newBackend(t *testing.T, status int, body string, seen *capturedRequest, title *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if seen != nil {
			if err := json.NewDecoder(r.Body).Decode(seen); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		if title != nil {
			*title = r.Header.Get("X-Title")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClient_Generate(t *testing.T) {
	var seen capturedRequest
	var title string
	srv := newBackend(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "llama3.2:1b",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello! How can I help?"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 5, "completion_tokens": 7, "total_tokens": 12}
	}`, &seen, &title)

	c := NewOpenAI("ollama", srv.URL+"/v1", "llama3.2:1b", "AI Chat")
	history := []Message{
		{Role: RoleUser, Content: "Hi"},
		{Role: RoleAssistant, Content: "Hello"},
		{Role: RoleUser, Content: "How are you?"},
	}
	resp, err := c.Generate(context.Background(), history)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Content != "Hello! How can I help?" {
		t.Fatalf("unexpected content: %q", resp.Content)
	}
	if resp.TotalTokens != 12 || resp.PromptTokens != 5 || resp.CompletionTokens != 7 {
		t.Fatalf("unexpected usage: %+v", resp)
	}
	if seen.Model != "llama3.2:1b" {
		t.Fatalf("unexpected model sent: %q", seen.Model)
	}
	if seen.MaxTokens != MaxTokens {
		t.Fatalf("unexpected max_tokens: %d", seen.MaxTokens)
	}
	if seen.Temperature < 0.69 || seen.Temperature > 0.71 {
		t.Fatalf("unexpected temperature: %v", seen.Temperature)
	}
	if len(seen.Messages) != 3 || seen.Messages[2].Content != "How are you?" {
		t.Fatalf("full history not sent: %+v", seen.Messages)
	}
	if title != "AI Chat" {
		t.Fatalf("X-Title header not sent, got %q", title)
	}
}

func TestOpenAIClient_EmptyContent(t *testing.T) {
	srv := newBackend(t, http.StatusOK, `{"choices": [{"index": 0, "message": {"role": "assistant", "content": ""}}]}`, nil, nil)
	c := NewOpenAI("ollama", srv.URL+"/v1", "m", "")
	resp, err := c.Generate(context.Background(), []Message{{Role: RoleUser, Content: "Hi"}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Content != "" {
		t.Fatalf("want empty content, got %q", resp.Content)
	}
	if resp.Model != "m" {
		t.Fatalf("model should fall back to configured one, got %q", resp.Model)
	}
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	srv := newBackend(t, http.StatusOK, `{"choices": []}`, nil, nil)
	c := NewOpenAI("ollama", srv.URL+"/v1", "m", "")
	_, err := c.Generate(context.Background(), []Message{{Role: RoleUser, Content: "Hi"}})
	if !errors.Is(err, ErrNoChoices) {
		t.Fatalf("want ErrNoChoices, got %v", err)
	}
}

func TestOpenAIClient_BackendError(t *testing.T) {
	srv := newBackend(t, http.StatusInternalServerError, `{"error": {"message": "model not found", "type": "server_error"}}`, nil, nil)
	c := NewOpenAI("ollama", srv.URL+"/v1", "m", "")
	_, err := c.Generate(context.Background(), []Message{{Role: RoleUser, Content: "Hi"}})
	if err == nil {
		t.Fatal("expected error from failing backend")
	}
}

func TestOpenAIClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewOpenAI("ollama", url+"/v1", "m", "")
	if _, err := c.Generate(context.Background(), []Message{{Role: RoleUser, Content: "Hi"}}); err == nil {
		t.Fatal("expected connection error")
	}
}

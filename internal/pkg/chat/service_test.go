// internal/pkg/chat/service_test.go
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tduong196/bookstore/internal/config"
)

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.External.Chat.APIKey = "test-key"
	cfg.External.Chat.BaseURL = baseURL
	cfg.External.Chat.Model = "llama-3.3-70b-versatile"
	cfg.External.Chat.Temperature = 0.7
	cfg.External.Chat.MaxTokens = 800
	cfg.External.Chat.Timeout = 5 * time.Second
	return cfg
}

func TestCompleteSuccess(t *testing.T) {
	var captured completionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Try Dune."}},
			},
		})
	}))
	defer server.Close()

	s := NewService(testConfig(server.URL))

	history := []Message{
		{Role: "user", Content: "Any sci-fi?"},
		{Role: "assistant", Content: "Plenty."},
	}
	reply, err := s.Complete(context.Background(), "system prompt", history, "Which one?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Try Dune." {
		t.Errorf("unexpected reply: %q", reply)
	}

	// system prompt first, history in order, user message last
	if len(captured.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" {
		t.Errorf("first message should be system, got %s", captured.Messages[0].Role)
	}
	if captured.Messages[3].Role != "user" || captured.Messages[3].Content != "Which one?" {
		t.Errorf("last message should be the user turn, got %+v", captured.Messages[3])
	}
}

func TestCompleteMissingKey(t *testing.T) {
	cfg := testConfig("http://localhost:0")
	cfg.External.Chat.APIKey = ""
	s := NewService(cfg)

	if _, err := s.Complete(context.Background(), "p", nil, "hi"); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestCompleteEmptyMessage(t *testing.T) {
	s := NewService(testConfig("http://localhost:0"))

	if _, err := s.Complete(context.Background(), "p", nil, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestCompleteStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrInvalidAPIKey},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			s := NewService(testConfig(server.URL))
			if _, err := s.Complete(context.Background(), "p", nil, "hi"); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCompleteUnexpectedStatusTruncatesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(strings.Repeat("x", 500)))
	}))
	defer server.Close()

	s := NewService(testConfig(server.URL))
	_, err := s.Complete(context.Background(), "p", nil, "hi")
	if err == nil {
		t.Fatal("expected an error")
	}
	if strings.Contains(err.Error(), strings.Repeat("x", 101)) {
		t.Error("error message should not contain more than 100 body bytes")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should mention the status code: %v", err)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	s := NewService(testConfig(server.URL))
	if _, err := s.Complete(context.Background(), "p", nil, "hi"); err == nil {
		t.Error("expected an error for empty choices")
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	books := []BookSummary{
		{Title: "Dune", Author: "Frank Herbert", Category: "Sci-Fi", PriceCents: 1999, Rating: 4.5, InStock: true},
		{Title: "Neuromancer", Author: "William Gibson", PriceCents: 1499, InStock: false},
	}

	prompt := BuildSystemPrompt(books)

	for _, want := range []string{`"Dune" by Frank Herbert`, "(Sci-Fi)", "$19.99", "rated 4.5/5", "in stock", `"Neuromancer" by William Gibson`, "out of stock"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildSystemPromptEmptyCatalog(t *testing.T) {
	prompt := BuildSystemPrompt(nil)
	if !strings.Contains(prompt, "catalog is currently empty") {
		t.Errorf("prompt should note the empty catalog:\n%s", prompt)
	}
}

// internal/pkg/chat/service.go
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tduong196/bookstore/internal/config"
)

// Chat errors
var (
	ErrNoAPIKey      = errors.New("chat API key is not configured")
	ErrInvalidAPIKey = errors.New("chat API key is invalid")
	ErrRateLimited   = errors.New("chat API rate limit exceeded")
	ErrEmptyMessage  = errors.New("message cannot be empty")
)

// Service calls an OpenAI-compatible chat completion API to power
// the storefront assistant.
type Service struct {
	config *config.Config
	client *http.Client
}

// NewService creates a new chat service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.External.Chat.Timeout,
		},
	}
}

// BuildSystemPrompt renders the catalog into the assistant's system
// prompt so answers stay grounded in what the store actually sells.
func BuildSystemPrompt(books []BookSummary) string {
	var sb strings.Builder
	sb.WriteString("You are a helpful assistant for an online bookstore. ")
	sb.WriteString("Answer questions about the catalog, recommend books, and help customers decide. ")
	sb.WriteString("Only discuss books from the catalog below. If asked about anything else, politely steer the conversation back to books.\n\n")
	sb.WriteString("Current catalog:\n")

	for _, b := range books {
		stock := "in stock"
		if !b.InStock {
			stock = "out of stock"
		}
		fmt.Fprintf(&sb, "- %q by %s", b.Title, b.Author)
		if b.Category != "" {
			fmt.Fprintf(&sb, " (%s)", b.Category)
		}
		fmt.Fprintf(&sb, ", $%.2f", float64(b.PriceCents)/100)
		if b.Rating > 0 {
			fmt.Fprintf(&sb, ", rated %.1f/5", b.Rating)
		}
		fmt.Fprintf(&sb, ", %s\n", stock)
	}

	if len(books) == 0 {
		sb.WriteString("(the catalog is currently empty)\n")
	}

	return sb.String()
}

// Complete sends the conversation to the completion API and returns
// the assistant's reply.
func (s *Service) Complete(ctx context.Context, systemPrompt string, history []Message, userMessage string) (string, error) {
	if s.config.External.Chat.APIKey == "" {
		return "", ErrNoAPIKey
	}
	if strings.TrimSpace(userMessage) == "" {
		return "", ErrEmptyMessage
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: userMessage})

	reqBody := completionRequest{
		Model:       s.config.External.Chat.Model,
		Messages:    messages,
		Temperature: s.config.External.Chat.Temperature,
		MaxTokens:   s.config.External.Chat.MaxTokens,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	url := strings.TrimRight(s.config.External.Chat.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.External.Chat.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return "", ErrInvalidAPIKey
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	default:
		return "", fmt.Errorf("chat API returned status %d: %s", resp.StatusCode, truncate(string(body), 100))
	}

	var completion completionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %w", err)
	}
	if completion.Error != nil {
		return "", fmt.Errorf("chat API error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

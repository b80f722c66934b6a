// internal/pkg/chat/types.go
package chat

// Message is one turn in a chat conversation
type Message struct {
	Role    string `json:"role"` // system, user or assistant
	Content string `json:"content"`
}

// completionRequest is the wire format of a completion call
type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// completionResponse is the wire format of a completion response
type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// BookSummary is the slice of catalog data exposed to the assistant
type BookSummary struct {
	Title      string
	Author     string
	Category   string
	PriceCents int64
	Rating     float64
	InStock    bool
}

package generate

import (
	"context"
)

// Request carries a prompt and the token budget allocated for it.
type Request struct {
	Prompt    string
	MaxTokens int
}

// Usage reports token consumption as returned by the completion API.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a completed generation.
type Response struct {
	Content string
	Model   string
	Usage   Usage
}

// Generator produces article markdown from a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

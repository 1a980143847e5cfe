// Package llm implements translation and table-of-contents generation on
// top of any chat-completion backend. Backends live in packages openai and
// gemini and only need to satisfy Completer.
package llm

import "context"

// Request is a single-turn chat completion.
type Request struct {
	System      string
	User        string
	Temperature float32
	// MaxTokens limits the reply length. Zero leaves it to the backend.
	MaxTokens int
}

// Completer sends a Request to a chat model and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Package openai provides an llm.Completer backed by the OpenAI chat API.
package openai

import (
	"context"
	"strings"

	"github.com/fwojciec/dagkrant"
	"github.com/fwojciec/dagkrant/llm"
	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the chat model used for translation and TOC entries.
const DefaultModel = "gpt-4o-mini"

// Ensure Completer implements llm.Completer at compile time.
var _ llm.Completer = (*Completer)(nil)

// ChatClient is the part of *goopenai.Client used by Completer.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// Completer sends requests to an OpenAI-compatible chat endpoint.
type Completer struct {
	client ChatClient
	model  string
}

// Option configures a Completer.
type Option func(*Completer)

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(c *Completer) {
		c.model = model
	}
}

// NewCompleter creates a Completer over client.
func NewCompleter(client ChatClient, opts ...Option) *Completer {
	c := &Completer{client: client, model: DefaultModel}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// New creates a Completer that authenticates with apiKey.
func New(apiKey string, opts ...Option) *Completer {
	return NewCompleter(goopenai.NewClient(apiKey), opts...)
}

// Complete sends req as a system and a user message and returns the first
// choice.
func (c *Completer) Complete(ctx context.Context, req llm.Request) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.System},
			{Role: goopenai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", dagkrant.Errorf(dagkrant.EUNAVAILABLE, "openai: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "", dagkrant.Errorf(dagkrant.EINTERNAL, "openai returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

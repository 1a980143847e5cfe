// Package gemini provides an llm.Completer backed by Google Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/dagkrant"
	"github.com/fwojciec/dagkrant/llm"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for translation and TOC entries.
const DefaultModel = "gemini-2.5-flash"

// Ensure Completer implements llm.Completer at compile time.
var _ llm.Completer = (*Completer)(nil)

// ContentGenerator is the part of *genai.Models used by Completer.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Completer sends requests to the Gemini API.
type Completer struct {
	models ContentGenerator
	model  string
}

// NewCompleter creates a Completer. Pass client.Models of a *genai.Client.
func NewCompleter(models ContentGenerator) *Completer {
	return &Completer{models: models, model: DefaultModel}
}

// New creates a Gemini API client authenticated with apiKey.
func New(ctx context.Context, apiKey string) (*Completer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, dagkrant.Errorf(dagkrant.EUNAVAILABLE, "gemini: %v", err)
	}
	return NewCompleter(client.Models), nil
}

// Complete sends req.User with req.System as the system instruction.
func (c *Completer) Complete(ctx context.Context, req llm.Request) (string, error) {
	result, err := c.models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(req.User, genai.RoleUser)},
		BuildConfig(req),
	)
	if err != nil {
		return "", dagkrant.Errorf(dagkrant.EUNAVAILABLE, "gemini: %v", err)
	}
	if result == nil {
		return "", dagkrant.Errorf(dagkrant.EINTERNAL, "gemini returned nil result")
	}
	return strings.TrimSpace(result.Text()), nil
}

// BuildConfig returns the GenerateContentConfig for req.
func BuildConfig(req llm.Request) *genai.GenerateContentConfig {
	temp := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	return config
}

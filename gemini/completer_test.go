package gemini_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/dagkrant"
	"github.com/fwojciec/dagkrant/gemini"
	"github.com/fwojciec/dagkrant/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type generator struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	resp     *genai.GenerateContentResponse
	err      error
}

func (g *generator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	g.model, g.contents, g.config = model, contents, config
	return g.resp, g.err
}

func reply(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("sets system instruction and temperature", func(t *testing.T) {
		t.Parallel()

		config := gemini.BuildConfig(llm.Request{System: "Je bent een vertaler.", Temperature: 0.3})

		require.NotNil(t, config.SystemInstruction)
		require.Len(t, config.SystemInstruction.Parts, 1)
		assert.Equal(t, "Je bent een vertaler.", config.SystemInstruction.Parts[0].Text)
		require.NotNil(t, config.Temperature)
		assert.InDelta(t, 0.3, *config.Temperature, 0.001)
		assert.Zero(t, config.MaxOutputTokens)
	})

	t.Run("limits output tokens when requested", func(t *testing.T) {
		t.Parallel()

		config := gemini.BuildConfig(llm.Request{MaxTokens: 80})

		assert.Nil(t, config.SystemInstruction)
		assert.Equal(t, int32(80), config.MaxOutputTokens)
	})
}

func TestCompleter_Complete(t *testing.T) {
	t.Parallel()

	t.Run("sends the user text and returns the reply", func(t *testing.T) {
		t.Parallel()

		g := &generator{resp: reply("TITEL: Markten\n")}

		got, err := gemini.NewCompleter(g).Complete(context.Background(), llm.Request{User: "Onderwerp: Markets"})

		require.NoError(t, err)
		assert.Equal(t, "TITEL: Markten", got)
		assert.Equal(t, gemini.DefaultModel, g.model)
		require.Len(t, g.contents, 1)
		assert.Equal(t, "Onderwerp: Markets", g.contents[0].Parts[0].Text)
	})

	t.Run("reports API errors as unavailable", func(t *testing.T) {
		t.Parallel()

		g := &generator{err: errors.New("quota exceeded")}

		_, err := gemini.NewCompleter(g).Complete(context.Background(), llm.Request{User: "x"})

		assert.Equal(t, dagkrant.EUNAVAILABLE, dagkrant.ErrorCode(err))
	})

	t.Run("rejects a nil result", func(t *testing.T) {
		t.Parallel()

		g := &generator{}

		_, err := gemini.NewCompleter(g).Complete(context.Background(), llm.Request{User: "x"})

		assert.Equal(t, dagkrant.EINTERNAL, dagkrant.ErrorCode(err))
	})
}

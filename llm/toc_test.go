package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/dagkrant/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTOCReply(t *testing.T) {
	t.Parallel()

	t.Run("reads both labels", func(t *testing.T) {
		t.Parallel()

		title, desc := llm.ParseTOCReply("TITEL: Rente daalt weer\nBESCHRIJVING: De ECB verlaagt de rente voor de derde keer.")

		assert.Equal(t, "Rente daalt weer", title)
		assert.Equal(t, "De ECB verlaagt de rente voor de derde keer.", desc)
	})

	t.Run("ignores case and surrounding noise", func(t *testing.T) {
		t.Parallel()

		title, desc := llm.ParseTOCReply("Hier is het resultaat:\n  titel:  AI in de zorg \nBeschrijving: Nieuwe toepassingen.\n")

		assert.Equal(t, "AI in de zorg", title)
		assert.Equal(t, "Nieuwe toepassingen.", desc)
	})

	t.Run("keeps colons inside values", func(t *testing.T) {
		t.Parallel()

		title, _ := llm.ParseTOCReply("TITEL: Update: markten herstellen")

		assert.Equal(t, "Update: markten herstellen", title)
	})

	t.Run("returns empty values when labels are missing", func(t *testing.T) {
		t.Parallel()

		title, desc := llm.ParseTOCReply("Geen idee")

		assert.Empty(t, title)
		assert.Empty(t, desc)
	})
}

func TestTOCGenerator_GenerateTOCEntry(t *testing.T) {
	t.Parallel()

	t.Run("builds an entry from the reply", func(t *testing.T) {
		t.Parallel()

		var got llm.Request
		c := llm.CompleterFunc(func(_ context.Context, req llm.Request) (string, error) {
			got = req
			return "TITEL: Markten in beweging\nBESCHRIJVING: Beurzen stijgen na rentebesluit.", nil
		})

		entry, err := llm.NewTOCGenerator(c).GenerateTOCEntry(context.Background(), "Morning Brew: stocks rally", "Morning Brew")

		require.NoError(t, err)
		assert.Equal(t, "Morning Brew: stocks rally", entry.Subject)
		assert.Equal(t, "Morning Brew", entry.Sender)
		assert.Equal(t, "Markten in beweging", entry.ShortTitle)
		assert.Equal(t, "Beurzen stijgen na rentebesluit.", entry.Description)
		assert.Equal(t, "Onderwerp: Morning Brew: stocks rally\nAfzender: Morning Brew", got.User)
		assert.Equal(t, 80, got.MaxTokens)
		assert.InDelta(t, 0.5, got.Temperature, 1e-6)
	})

	t.Run("falls back to the subject without a title line", func(t *testing.T) {
		t.Parallel()

		c := llm.CompleterFunc(func(context.Context, llm.Request) (string, error) {
			return "BESCHRIJVING: Iets", nil
		})

		entry, err := llm.NewTOCGenerator(c).GenerateTOCEntry(context.Background(), "Weekoverzicht", "NRC")

		require.NoError(t, err)
		assert.Equal(t, "Weekoverzicht", entry.ShortTitle)
	})

	t.Run("returns completion errors", func(t *testing.T) {
		t.Parallel()

		c := llm.CompleterFunc(func(context.Context, llm.Request) (string, error) {
			return "", errors.New("timeout")
		})

		_, err := llm.NewTOCGenerator(c).GenerateTOCEntry(context.Background(), "Weekoverzicht", "NRC")

		assert.EqualError(t, err, "timeout")
	})
}

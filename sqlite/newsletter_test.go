package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/dagkrant"
	"github.com/fwojciec/dagkrant/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

func newsletter(messageID, subject string, receivedAt time.Time) *dagkrant.Newsletter {
	return &dagkrant.Newsletter{
		MessageID:  messageID,
		Subject:    subject,
		Sender:     "Morning Brew",
		ReceivedAt: receivedAt,
		HTML:       "<p>" + subject + "</p>",
		Language:   dagkrant.LanguageEnglish,
	}
}

func TestNewsletterService_CreateNewsletter(t *testing.T) {
	t.Parallel()

	t.Run("assigns an ID and content hash", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewNewsletterService(setupTestDB(t))
		n := newsletter("a@x", "Markets", monday)

		err := svc.CreateNewsletter(context.Background(), n)

		require.NoError(t, err)
		assert.NotEmpty(t, n.ID)
		assert.Len(t, n.ContentHash, 16)
	})

	t.Run("hashes identical content identically", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewNewsletterService(setupTestDB(t))
		a := newsletter("a@x", "Markets", monday)
		b := newsletter("b@x", "Markets", monday)

		require.NoError(t, svc.CreateNewsletter(context.Background(), a))
		require.NoError(t, svc.CreateNewsletter(context.Background(), b))

		assert.Equal(t, a.ContentHash, b.ContentHash)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("rejects a Message-ID that was already archived", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewNewsletterService(setupTestDB(t))
		require.NoError(t, svc.CreateNewsletter(context.Background(), newsletter("a@x", "Markets", monday)))

		err := svc.CreateNewsletter(context.Background(), newsletter("a@x", "Markets again", monday))

		assert.Equal(t, dagkrant.ECONFLICT, dagkrant.ErrorCode(err))
	})

	t.Run("archives messages without a Message-ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewNewsletterService(setupTestDB(t))

		require.NoError(t, svc.CreateNewsletter(context.Background(), newsletter("", "Een", monday)))
		require.NoError(t, svc.CreateNewsletter(context.Background(), newsletter("", "Twee", monday)))
	})

	t.Run("returns error for invalid newsletter", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewNewsletterService(setupTestDB(t))

		err := svc.CreateNewsletter(context.Background(), &dagkrant.Newsletter{})

		assert.Equal(t, dagkrant.EINVALID, dagkrant.ErrorCode(err))
	})
}

func TestNewsletterService_FindNewsletters(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) *sqlite.NewsletterService {
		t.Helper()
		svc := sqlite.NewNewsletterService(setupTestDB(t))
		for _, n := range []*dagkrant.Newsletter{
			newsletter("1@x", "Maandag", monday),
			newsletter("2@x", "Dinsdag", monday.Add(24*time.Hour)),
			newsletter("3@x", "Woensdag", monday.Add(48*time.Hour)),
		} {
			require.NoError(t, svc.CreateNewsletter(context.Background(), n))
		}
		return svc
	}

	subjects := func(items []*dagkrant.Newsletter) []string {
		out := make([]string, len(items))
		for i, n := range items {
			out[i] = n.Subject
		}
		return out
	}

	t.Run("returns the newest first", func(t *testing.T) {
		t.Parallel()

		got, err := seed(t).FindNewsletters(context.Background(), dagkrant.NewsletterFilter{})

		require.NoError(t, err)
		assert.Equal(t, []string{"Woensdag", "Dinsdag", "Maandag"}, subjects(got))
		assert.Equal(t, monday.Add(48*time.Hour), got[0].ReceivedAt)
		assert.Equal(t, dagkrant.LanguageEnglish, got[0].Language)
		assert.Equal(t, "<p>Woensdag</p>", got[0].HTML)
	})

	t.Run("filters by Message-ID", func(t *testing.T) {
		t.Parallel()

		id := "2@x"
		got, err := seed(t).FindNewsletters(context.Background(), dagkrant.NewsletterFilter{MessageID: &id})

		require.NoError(t, err)
		assert.Equal(t, []string{"Dinsdag"}, subjects(got))
	})

	t.Run("filters by time", func(t *testing.T) {
		t.Parallel()

		since := monday.Add(24 * time.Hour)
		got, err := seed(t).FindNewsletters(context.Background(), dagkrant.NewsletterFilter{Since: &since})

		require.NoError(t, err)
		assert.Equal(t, []string{"Woensdag", "Dinsdag"}, subjects(got))
	})

	t.Run("filters by sender", func(t *testing.T) {
		t.Parallel()

		sender := "Het Parool"
		got, err := seed(t).FindNewsletters(context.Background(), dagkrant.NewsletterFilter{Sender: &sender})

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		got, err := seed(t).FindNewsletters(context.Background(), dagkrant.NewsletterFilter{Limit: 1, Offset: 1})

		require.NoError(t, err)
		assert.Equal(t, []string{"Dinsdag"}, subjects(got))
	})
}

func TestNewsletterService_DeleteNewslettersBefore(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewNewsletterService(setupTestDB(t))
	ctx := context.Background()
	require.NoError(t, svc.CreateNewsletter(ctx, newsletter("1@x", "Oud", monday.AddDate(0, -2, 0))))
	require.NoError(t, svc.CreateNewsletter(ctx, newsletter("2@x", "Nieuw", monday)))

	n, err := svc.DeleteNewslettersBefore(ctx, monday.AddDate(0, -1, 0))

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err := svc.FindNewsletters(ctx, dagkrant.NewsletterFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Nieuw", got[0].Subject)
}

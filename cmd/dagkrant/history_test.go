package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/dagkrant"
	main "github.com/fwojciec/dagkrant/cmd/dagkrant"
	"github.com/fwojciec/dagkrant/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists archived newsletters matching the filter", func(t *testing.T) {
		t.Parallel()

		svc := &mock.NewsletterService{
			FindNewslettersFn: func(ctx context.Context, filter dagkrant.NewsletterFilter) ([]*dagkrant.Newsletter, error) {
				require.NotNil(t, filter.Sender)
				assert.Equal(t, "Morning Brew", *filter.Sender)
				require.NotNil(t, filter.Since)
				assert.WithinDuration(t, time.Now().Add(-48*time.Hour), *filter.Since, time.Minute)
				assert.Equal(t, 5, filter.Limit)
				return []*dagkrant.Newsletter{{
					Subject:    "Markets today",
					Sender:     "Morning Brew",
					Language:   dagkrant.LanguageEnglish,
					ReceivedAt: time.Date(2026, 2, 4, 12, 0, 0, 0, time.UTC),
				}}, nil
			},
		}
		stdout := &bytes.Buffer{}

		cmd := &main.HistoryCmd{Sender: "Morning Brew", Since: 48 * time.Hour, Limit: 5}
		err := cmd.Run(&main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Newsletters: svc})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Markets today")
		assert.Contains(t, stdout.String(), "Morning Brew")
	})

	t.Run("explains an empty archive", func(t *testing.T) {
		t.Parallel()

		svc := &mock.NewsletterService{
			FindNewslettersFn: func(ctx context.Context, filter dagkrant.NewsletterFilter) ([]*dagkrant.Newsletter, error) {
				assert.Nil(t, filter.Sender)
				assert.Nil(t, filter.Since)
				return nil, nil
			},
		}
		stdout := &bytes.Buffer{}

		cmd := &main.HistoryCmd{Limit: 20}
		err := cmd.Run(&main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Newsletters: svc})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No archived newsletters")
	})

	t.Run("reports archive errors", func(t *testing.T) {
		t.Parallel()

		svc := &mock.NewsletterService{
			FindNewslettersFn: func(ctx context.Context, filter dagkrant.NewsletterFilter) ([]*dagkrant.Newsletter, error) {
				return nil, dagkrant.Errorf(dagkrant.EINTERNAL, "database locked")
			},
		}
		stderr := &bytes.Buffer{}

		cmd := &main.HistoryCmd{}
		err := cmd.Run(&main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Newsletters: svc})

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "database locked")
	})
}

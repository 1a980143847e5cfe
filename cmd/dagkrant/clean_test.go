package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/dagkrant"
	main "github.com/fwojciec/dagkrant/cmd/dagkrant"
	"github.com/fwojciec/dagkrant/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHTML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nieuwsbrief.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCleanCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("sanitizes, deduplicates the title and truncates in order", func(t *testing.T) {
		t.Parallel()

		var calls []string
		sanitizer := &mock.Sanitizer{
			SanitizeFn: func(html string) string {
				calls = append(calls, "sanitize")
				return html + "|s"
			},
			DeduplicateTitleFn: func(html, subject string) string {
				calls = append(calls, "title")
				assert.Equal(t, "Ochtendnieuws", subject)
				return html + "|t"
			},
			TruncateFn: func(html string, maxWords int) string {
				calls = append(calls, "truncate")
				assert.Equal(t, 100, maxWords)
				return html + "|w"
			},
			HasContentFn: func(string) bool { return true },
		}
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		cmd := &main.CleanCmd{File: writeHTML(t, "<p>x</p>"), Subject: "Ochtendnieuws", MaxWords: 100}
		err := cmd.Run(&main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Sanitizer: sanitizer})

		require.NoError(t, err)
		assert.Equal(t, []string{"sanitize", "title", "truncate"}, calls)
		assert.Equal(t, "<p>x</p>|s|t|w\n", stdout.String())
		assert.Empty(t, stderr.String())
	})

	t.Run("warns when little content remains", func(t *testing.T) {
		t.Parallel()

		sanitizer := &mock.Sanitizer{
			SanitizeFn:   func(html string) string { return "" },
			HasContentFn: func(string) bool { return false },
		}
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		cmd := &main.CleanCmd{File: writeHTML(t, "<nav>menu</nav>")}
		err := cmd.Run(&main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Sanitizer: sanitizer})

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "nearly empty")
	})

	t.Run("prints markdown when asked", func(t *testing.T) {
		t.Parallel()

		sanitizer := &mock.Sanitizer{
			SanitizeFn:   func(html string) string { return html },
			HasContentFn: func(string) bool { return true },
		}
		converter := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				return "# Kop", nil
			},
		}
		stdout := &bytes.Buffer{}

		cmd := &main.CleanCmd{File: writeHTML(t, "<h1>Kop</h1>"), Markdown: true}
		err := cmd.Run(&main.Dependencies{
			Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{},
			Sanitizer: sanitizer, Converter: converter,
		})

		require.NoError(t, err)
		assert.Equal(t, "# Kop\n", stdout.String())
	})

	t.Run("reports conversion errors", func(t *testing.T) {
		t.Parallel()

		sanitizer := &mock.Sanitizer{
			SanitizeFn:   func(html string) string { return html },
			HasContentFn: func(string) bool { return true },
		}
		converter := &mock.Converter{
			ConvertFn: func(string) (string, error) {
				return "", dagkrant.Errorf(dagkrant.EINTERNAL, "conversion failed")
			},
		}
		stderr := &bytes.Buffer{}

		cmd := &main.CleanCmd{File: writeHTML(t, "<p>x</p>"), Markdown: true}
		err := cmd.Run(&main.Dependencies{
			Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr,
			Sanitizer: sanitizer, Converter: converter,
		})

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "conversion failed")
	})
}

func TestMain_Run_Clean(t *testing.T) {
	t.Parallel()

	page := `<html><body>
<nav><a href="/">Home</a> | <a href="/archief">Archief</a></nav>
<h1>Ochtendnieuws</h1>
<p>Het kabinet presenteert vandaag de plannen voor de woningmarkt, met extra geld voor starters en strengere regels voor beleggers.</p>
<p><a href="https://example.nl/unsubscribe">Afmelden</a></p>
<img src="https://example.nl/open.gif" width="1" height="1">
</body></html>`

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "unused.db")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"clean", writeHTML(t, page), "--subject", "Ochtendnieuws"}, stdout, stderr)

	require.NoError(t, err)
	out := stdout.String()
	assert.Contains(t, out, "Het kabinet presenteert vandaag")
	assert.NotContains(t, out, "open.gif")
	assert.False(t, strings.Contains(out, "Afmelden"), "unsubscribe footer should be removed")
	assert.Nil(t, m.DB, "clean should not open the archive")
}

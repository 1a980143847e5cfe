package clean_test

import (
	"testing"

	"github.com/fwojciec/dagkrant/clean"
	"github.com/stretchr/testify/assert"
)

func TestPrefilterSteps(t *testing.T) {
	t.Parallel()

	steps := clean.DefaultRules().PrefilterSteps()

	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"ghost-text", "ai-artifacts", "mso-conditionals"}, names)
}

func TestRules_StripGhostText(t *testing.T) {
	t.Parallel()

	rules := clean.DefaultRules()

	t.Run("removes the enclosing tag pair", func(t *testing.T) {
		t.Parallel()

		got := rules.StripGhostText(`<div><p>Welkom bij onze website!</p><p>Echte inhoud</p></div>`)

		assert.Equal(t, `<div><p>Echte inhoud</p></div>`, got)
	})

	t.Run("removes bare phrases", func(t *testing.T) {
		t.Parallel()

		got := rules.StripGhostText(`Neem contact met ons op voor meer.`)

		assert.Equal(t, ` voor meer.`, got)
	})

	t.Run("removes placeholder copyright lines", func(t *testing.T) {
		t.Parallel()

		got := rules.StripGhostText(`<small>© 2024 Voorbeeldbedrijf. Alle rechten voorbehouden</small>`)

		assert.Equal(t, `<small></small>`, got)
	})

	t.Run("leaves unrelated markup alone", func(t *testing.T) {
		t.Parallel()

		in := `<p>Onze website is vernieuwd.</p>`

		assert.Equal(t, in, rules.StripGhostText(in))
	})
}

func TestStripAIArtifacts(t *testing.T) {
	t.Parallel()

	t.Run("removes a single fence pair", func(t *testing.T) {
		t.Parallel()

		got := clean.StripAIArtifacts("```html\n<p>Hoi</p>\n```")

		assert.Equal(t, "<p>Hoi</p>\n", got)
	})

	t.Run("removes repeated fences", func(t *testing.T) {
		t.Parallel()

		got := clean.StripAIArtifacts("```html ```HTML\n<p>x</p>")

		assert.Equal(t, "<p>x</p>", got)
	})

	t.Run("removes a line holding only html", func(t *testing.T) {
		t.Parallel()

		got := clean.StripAIArtifacts("<p>a</p>\nhtml\n<p>b</p>")

		assert.Equal(t, "<p>a</p>\n\n<p>b</p>", got)
	})

	t.Run("keeps the word html inside text", func(t *testing.T) {
		t.Parallel()

		in := "<p>Leer html in een dag</p>"

		assert.Equal(t, in, clean.StripAIArtifacts(in))
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		once := clean.StripAIArtifacts("```html\n```html\n<p>x</p>\n```\n")

		assert.Equal(t, once, clean.StripAIArtifacts(once))
	})
}

func TestResolveConditionalComments(t *testing.T) {
	t.Parallel()

	t.Run("drops outlook-only blocks", func(t *testing.T) {
		t.Parallel()

		got := clean.ResolveConditionalComments(
			`<p>a</p><!--[if mso]><table><tr><td>Alleen Outlook</td></tr></table><![endif]--><p>b</p>`)

		assert.Equal(t, `<p>a</p><p>b</p>`, got)
		assert.NotContains(t, got, "Alleen Outlook")
	})

	t.Run("unwraps non-outlook blocks", func(t *testing.T) {
		t.Parallel()

		got := clean.ResolveConditionalComments(`<!--[if !mso]><!--><p>Iedereen</p><!--<![endif]-->`)

		assert.Equal(t, `<p>Iedereen</p>`, got)
	})

	t.Run("handles both kinds in one document", func(t *testing.T) {
		t.Parallel()

		got := clean.ResolveConditionalComments(
			`<!--[if gte mso 9]><xml>o:OfficeDocumentSettings</xml><![endif]-->` +
				`<!--[if !mso]><!--><p>Iedereen</p><!--<![endif]-->`)

		assert.Equal(t, `<p>Iedereen</p>`, got)
	})

	t.Run("removes dangling markers", func(t *testing.T) {
		t.Parallel()

		got := clean.ResolveConditionalComments(`<p>x</p><![endif]--><![endif]>`)

		assert.Equal(t, `<p>x</p>`, got)
	})
}

func TestRules_Prefilter(t *testing.T) {
	t.Parallel()

	got := clean.DefaultRules().Prefilter(
		"```html\n<div><p>Welkom op onze website</p><p>Nieuws</p></div>\n```<!--[if mso]><p>Outlook</p><![endif]-->")

	assert.Equal(t, "<div><p>Nieuws</p></div>\n", got)
}

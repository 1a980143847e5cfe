package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/dagkrant/goquery"
	"github.com/stretchr/testify/assert"
)

const envelope = "Jan Jansen <jan@example.nl>"

func TestSenderResolver_ResolveSender(t *testing.T) {
	t.Parallel()

	t.Run("extracts the sender of a forwarded message", func(t *testing.T) {
		t.Parallel()

		plain := "Leuk!\n\n---------- Forwarded message ---------\nFrom: Morning Brew <crew@morningbrew.com>\nDate: Mon, 2 Jun 2025\nSubject: Markets\n"

		got := goquery.NewSenderResolver().ResolveSender(plain, "", envelope)

		assert.Equal(t, "Morning Brew", got)
	})

	t.Run("extracts a Dutch forwarding header", func(t *testing.T) {
		t.Parallel()

		plain := "Oorspronkelijk van: De Correspondent <post@decorrespondent.nl>\nDatum: maandag\n"

		got := goquery.NewSenderResolver().ResolveSender(plain, "", envelope)

		assert.Equal(t, "De Correspondent", got)
	})

	t.Run("falls back to the HTML body", func(t *testing.T) {
		t.Parallel()

		html := "<div>---------- Doorgestuurd bericht ---------\nVan: NRC Vandaag &lt;nieuwsbrief@nrc.nl&gt;\nDatum: dinsdag\n</div>"

		got := goquery.NewSenderResolver().ResolveSender("", html, envelope)

		assert.Equal(t, "NRC Vandaag", got)
	})

	t.Run("prefers the plain-text body", func(t *testing.T) {
		t.Parallel()

		plain := "---------- Forwarded message ---------\nFrom: Plain Sender\n"
		html := "<div>---------- Forwarded message ---------\nFrom: HTML Sender\n</div>"

		got := goquery.NewSenderResolver().ResolveSender(plain, html, envelope)

		assert.Equal(t, "Plain Sender", got)
	})

	t.Run("keeps the envelope for messages that were not forwarded", func(t *testing.T) {
		t.Parallel()

		got := goquery.NewSenderResolver().ResolveSender("From: Someone Else\nHallo!\n", "", envelope)

		assert.Equal(t, envelope, got)
	})

	t.Run("rejects bare e-mail addresses", func(t *testing.T) {
		t.Parallel()

		plain := "---------- Forwarded message ---------\nFrom: crew@morningbrew.com\n"

		got := goquery.NewSenderResolver().ResolveSender(plain, "", envelope)

		assert.Equal(t, envelope, got)
	})

	t.Run("rejects implausibly long names", func(t *testing.T) {
		t.Parallel()

		plain := "---------- Forwarded message ---------\nFrom: " + strings.Repeat("x", 120) + "\n"

		got := goquery.NewSenderResolver().ResolveSender(plain, "", envelope)

		assert.Equal(t, envelope, got)
	})

	t.Run("only looks near the forwarding marker", func(t *testing.T) {
		t.Parallel()

		plain := "---------- Forwarded message ---------\n" + strings.Repeat("bla ", 200) + "\nFrom: Too Far\n"

		got := goquery.NewSenderResolver().ResolveSender(plain, "", envelope)

		assert.Equal(t, envelope, got)
	})
}

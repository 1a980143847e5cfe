package digest_test

import (
	"testing"
	"time"

	"github.com/fwojciec/dagkrant/digest"
	"github.com/stretchr/testify/assert"
)

func TestHoursBack(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 72, digest.HoursBack(time.Monday))
	assert.Equal(t, 24, digest.HoursBack(time.Tuesday))
	assert.Equal(t, 48, digest.HoursBack(time.Wednesday))
	assert.Equal(t, 24, digest.HoursBack(time.Thursday))
	assert.Equal(t, 24, digest.HoursBack(time.Friday))
	assert.Equal(t, 24, digest.HoursBack(time.Saturday))
	assert.Equal(t, 24, digest.HoursBack(time.Sunday))
}

func TestWindowStart(t *testing.T) {
	t.Parallel()

	t.Run("monday reaches back to friday afternoon", func(t *testing.T) {
		t.Parallel()

		monday := time.Date(2026, 2, 2, 15, 0, 0, 0, time.UTC)

		assert.Equal(t, time.Date(2026, 1, 30, 15, 0, 0, 0, time.UTC), digest.WindowStart(monday))
	})

	t.Run("uses the weekday in UTC", func(t *testing.T) {
		t.Parallel()

		// Monday 00:30 in Amsterdam is still Sunday in UTC.
		ams := time.FixedZone("CET", 3600)
		now := time.Date(2026, 2, 2, 0, 30, 0, 0, ams)

		assert.Equal(t, now.Add(-24*time.Hour).UTC(), digest.WindowStart(now))
	})
}

func TestEditionNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, digest.EditionNumber(time.Date(2025, 1, 1, 16, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, digest.EditionNumber(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 401, digest.EditionNumber(time.Date(2026, 2, 5, 15, 0, 0, 0, time.UTC)))
}

func TestDutchDate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "donderdag 05 februari 2026", digest.DutchDate(time.Date(2026, 2, 5, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, "zondag 31 mei 2026", digest.DutchDate(time.Date(2026, 5, 31, 9, 0, 0, 0, time.UTC)))
}

func TestEditionMessageText(t *testing.T) {
	t.Parallel()

	date := time.Date(2026, 2, 5, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "De Dagkrant - Editie #401 - donderdag 05 februari 2026", digest.Subject(401, date))
	assert.Equal(t, "Dagkrant_Editie_401_20260205.pdf", digest.Filename(401, date))
	assert.Equal(t, "Goedemiddag!\n\nHierbij de Dagkrant van vandaag (Editie #401).\nVeel leesplezier!\n\nMet vriendelijke groet,\nDe Dagkrant", digest.Body(401))
}

package digest

import (
	"fmt"
	"time"
)

// hoursBack maps the weekday of a run to the length of its window. The
// paper appears on Monday, Wednesday, Thursday and Friday; Monday covers
// the weekend and Wednesday covers Tuesday.
var hoursBack = map[time.Weekday]int{
	time.Monday:    72,
	time.Wednesday: 48,
	time.Thursday:  24,
	time.Friday:    24,
}

// defaultHoursBack applies to runs on other days.
const defaultHoursBack = 24

// HoursBack returns how many hours of mail a run on day covers.
func HoursBack(day time.Weekday) int {
	if h, ok := hoursBack[day]; ok {
		return h
	}
	return defaultHoursBack
}

// WindowStart returns the start of the window for a run at now. The
// weekday is taken in UTC.
func WindowStart(now time.Time) time.Time {
	now = now.UTC()
	return now.Add(-time.Duration(HoursBack(now.Weekday())) * time.Hour)
}

// firstEdition is the day edition #1 appeared.
var firstEdition = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// EditionNumber returns the edition number for a run at now: the number of
// whole days since 1 January 2025, plus one.
func EditionNumber(now time.Time) int {
	return int(now.UTC().Sub(firstEdition)/(24*time.Hour)) + 1
}

var (
	dutchDays = [...]string{"zondag", "maandag", "dinsdag", "woensdag", "donderdag", "vrijdag", "zaterdag"}

	dutchMonths = [...]string{"januari", "februari", "maart", "april", "mei", "juni",
		"juli", "augustus", "september", "oktober", "november", "december"}
)

// DutchDate formats t as "donderdag 05 februari 2026".
func DutchDate(t time.Time) string {
	return fmt.Sprintf("%s %02d %s %d", dutchDays[t.Weekday()], t.Day(), dutchMonths[t.Month()-1], t.Year())
}

// Subject returns the e-mail subject of an edition.
func Subject(number int, date time.Time) string {
	return fmt.Sprintf("De Dagkrant - Editie #%d - %s", number, DutchDate(date))
}

// Filename returns the name of the PDF attachment of an edition.
func Filename(number int, date time.Time) string {
	return fmt.Sprintf("Dagkrant_Editie_%d_%s.pdf", number, date.Format("20060102"))
}

// Body returns the text of the e-mail that carries an edition.
func Body(number int) string {
	return fmt.Sprintf("Goedemiddag!\n\nHierbij de Dagkrant van vandaag (Editie #%d).\nVeel leesplezier!\n\nMet vriendelijke groet,\nDe Dagkrant", number)
}

package goquery

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dagkrant"
)

// Ensure SenderResolver implements dagkrant.SenderResolver at compile time.
var _ dagkrant.SenderResolver = (*SenderResolver)(nil)

var (
	forwardedRE = regexp.MustCompile(`(?i)(-{3,}\s*(forwarded|doorgestuurd|begin forwarded)\s*(message|bericht)?\s*-{3,}|` +
		`oorspronkelijk\s+(van|bericht)\s*:|` +
		`begin\s+forwarded\s+message)`)

	forwardMarkerRE = regexp.MustCompile(`(?i)-{3,}\s*(forwarded|doorgestuurd|begin forwarded).*?-{3,}|` +
		`oorspronkelijk\s+(van|bericht)\s*:|` +
		`begin\s+forwarded\s+message`)

	// Tried in order against the text that follows the forwarding marker.
	senderREs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)oorspronkelijk\s+van\s*:\s*([^\n<\r]+?)(?:\s*<[^>]+>)?\s*[\r\n]`),
		regexp.MustCompile(`(?i)from\s*:\s*([^\n<\r]+?)(?:\s*<[^>]+>)?\s*[\r\n]`),
		regexp.MustCompile(`(?im)^van\s*:\s*([^\n<\r]+?)(?:\s*<[^>]+>)?\s*[\r\n]`),
	}
)

const (
	// senderWindow bounds how far past the forwarding marker a sender
	// line is looked for.
	senderWindow = 500

	maxSenderChars = 100
)

// SenderResolver recovers the original author of a forwarded newsletter
// from the forwarding header in its body.
type SenderResolver struct{}

// NewSenderResolver creates a new SenderResolver.
func NewSenderResolver() *SenderResolver {
	return &SenderResolver{}
}

// ResolveSender searches the plain-text body first and the text of the HTML
// body second. It returns envelope when neither carries a usable sender.
func (r *SenderResolver) ResolveSender(plain, raw, envelope string) string {
	var texts []string
	if plain != "" {
		texts = append(texts, plain)
	}
	if raw != "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
			texts = append(texts, doc.Text())
		}
	}

	for _, text := range texts {
		if sender, ok := forwardedSender(text); ok {
			return sender
		}
	}
	return envelope
}

func forwardedSender(text string) (string, bool) {
	if !forwardedRE.MatchString(text) {
		return "", false
	}
	loc := forwardMarkerRE.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	window := text[loc[0]:]
	var n int
	for i := range window {
		if n == senderWindow {
			window = window[:i]
			break
		}
		n++
	}

	for _, re := range senderREs {
		m := re.FindStringSubmatch(window)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if name != "" && utf8.RuneCountInString(name) < maxSenderChars && !strings.Contains(name, "@") {
			return name, true
		}
	}
	return "", false
}

package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dagkrant"
	"golang.org/x/net/html"
)

// Ensure LanguageDetector implements dagkrant.LanguageDetector at compile time.
var _ dagkrant.LanguageDetector = (*LanguageDetector)(nil)

// dutchMarkers and englishMarkers are frequent function words. "is" and
// "in" are only counted as Dutch: they are common in both languages and
// would otherwise inflate the English score of Dutch text.
var dutchMarkers = wordSet(
	"de", "het", "een", "van", "in", "is", "dat", "op", "voor", "met",
	"zijn", "aan", "niet", "ook", "maar", "door", "nog", "dan", "wel",
	"naar", "uit", "bij", "om", "tot", "over", "deze", "wordt", "meer",
	"heeft", "worden", "kan", "dit", "alle", "hun", "veel", "waar",
	"als", "ze", "hij", "wij", "zij", "wat", "geen", "zo", "al",
	"ons", "per", "werd", "die",
)

var englishMarkers = wordSet(
	"the", "a", "an", "of", "to", "and", "for",
	"that", "with", "on", "are", "was", "this", "have", "from", "or",
	"be", "by", "not", "but", "what", "all", "were", "we", "when",
	"your", "can", "has", "more", "will", "been", "would", "who",
	"their", "they", "which", "its", "our", "you", "at", "as",
	"if", "up", "about", "out", "just", "do",
)

var wordRE = regexp.MustCompile(`\b[a-z]+\b`)

// Sampling parameters for long documents. A Dutch forwarding header at the
// top of an English newsletter must not decide the outcome.
const (
	sampleThreshold = 900
	sampleHead      = 400
	sampleMiddle    = 150
	sampleTail      = 300
)

// dutchDominance is how much more frequent Dutch markers must be before a
// document counts as Dutch. Anything less clear is translated.
const dutchDominance = 1.3

// LanguageDetector guesses whether newsletter HTML is Dutch or English by
// counting marker words.
type LanguageDetector struct{}

// NewLanguageDetector creates a new LanguageDetector.
func NewLanguageDetector() *LanguageDetector {
	return &LanguageDetector{}
}

// DetectLanguage returns LanguageDutch unless English markers are at least
// comparably frequent. Documents without words are Dutch.
func (d *LanguageDetector) DetectLanguage(raw string) dagkrant.Language {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return dagkrant.LanguageDutch
	}

	words := wordRE.FindAllString(strings.ToLower(visibleText(doc)), -1)
	if len(words) == 0 {
		return dagkrant.LanguageDutch
	}

	sample := words
	if n := len(words); n > sampleThreshold {
		sample = make([]string, 0, sampleHead+2*sampleMiddle+sampleTail)
		sample = append(sample, words[:sampleHead]...)
		sample = append(sample, words[n/2-sampleMiddle:n/2+sampleMiddle]...)
		sample = append(sample, words[n-sampleTail:]...)
	}

	var nl, en int
	for _, w := range sample {
		if dutchMarkers[w] {
			nl++
		}
		if englishMarkers[w] {
			en++
		}
	}

	ratioNL := float64(nl) / float64(len(sample))
	ratioEN := float64(en) / float64(len(sample))
	if ratioNL >= ratioEN*dutchDominance {
		return dagkrant.LanguageDutch
	}
	return dagkrant.LanguageEnglish
}

// visibleText joins the trimmed text nodes of doc with single spaces,
// skipping script and style content.
func visibleText(doc *goquery.Document) string {
	doc.Find("script, style, noscript").Remove()

	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

func wordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

package clean

import (
	"regexp"
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/unicode/norm"
)

// Group is an immutable set of case-insensitive patterns unioned into a
// single matcher. Text is NFKC-normalized before matching so that
// non-breaking and other compatibility spaces match \s.
type Group struct {
	name     string
	union    *regexp.Regexp
	patterns []*regexp.Regexp
}

// NewGroup compiles patterns into a Group.
func NewGroup(name string, patterns ...string) (*Group, error) {
	g := &Group{name: name}
	alts := make([]string, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, err
		}
		g.patterns = append(g.patterns, re)
		alts = append(alts, "(?:"+p+")")
	}
	union, err := regexp.Compile("(?i)" + strings.Join(alts, "|"))
	if err != nil {
		return nil, err
	}
	g.union = union
	return g, nil
}

// MustGroup is like NewGroup but panics if a pattern does not compile.
func MustGroup(name string, patterns ...string) *Group {
	g, err := NewGroup(name, patterns...)
	if err != nil {
		panic("clean: group " + name + ": " + err.Error())
	}
	return g
}

// Name returns the name of the group.
func (g *Group) Name() string { return g.name }

// Match reports whether any pattern of the group matches text.
func (g *Group) Match(text string) bool {
	if text == "" || len(g.patterns) == 0 {
		return false
	}
	return g.union.MatchString(norm.NFKC.String(text))
}

// Count returns how many distinct patterns of the group match text.
func (g *Group) Count(text string) int {
	text = norm.NFKC.String(text)
	var n int
	for _, re := range g.patterns {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}

// PhraseSet matches literal phrases anywhere in a text, ignoring case.
// It is safe for concurrent use.
type PhraseSet struct {
	mu      sync.Mutex
	matcher *ahocorasick.Matcher
	phrases []string
}

// NewPhraseSet builds a PhraseSet from phrases.
func NewPhraseSet(phrases ...string) *PhraseSet {
	s := &PhraseSet{}
	for _, p := range phrases {
		if p = strings.ToLower(p); p != "" {
			s.phrases = append(s.phrases, p)
		}
	}
	if len(s.phrases) > 0 {
		s.matcher = ahocorasick.NewStringMatcher(s.phrases)
	}
	return s
}

// Contains reports whether text contains any phrase of the set.
func (s *PhraseSet) Contains(text string) bool {
	if s.matcher == nil || text == "" {
		return false
	}
	in := []byte(strings.ToLower(norm.NFKC.String(text)))

	// The automaton keeps per-match scratch state.
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matcher.Match(in)) > 0
}

// Rules holds every pattern table used by the sanitizer. A Rules value is
// never modified after construction and may be shared between goroutines.
type Rules struct {
	Footer           *Group
	Kill             *Group
	Signature        *Group
	Forward          *Group
	Ad               *Group
	BoilerplateIntro *Group
	Promo            *Group
	TemplateSignals  *Group

	// Buttons lists link labels that are removed when they make up the
	// whole text of an anchor.
	Buttons map[string]bool

	// Ghost lists placeholder phrases left behind by failed content
	// extraction.
	Ghost *PhraseSet

	// GhostMarkup is applied in order to the raw document before parsing.
	// Element-wrapped patterns come first so the enclosing tag pair goes
	// with the phrase.
	GhostMarkup []*regexp.Regexp
}

// DefaultRules returns the process-wide rule tables, compiled on first use.
var DefaultRules = sync.OnceValue(newDefaultRules)

func newDefaultRules() *Rules {
	return &Rules{
		Footer: MustGroup("footer",
			`uitschrijven`,
			`afmelden`,
			`unsubscribe`,
			`opt[\s-]?out`,
			`manage\s+(your\s+)?preferences`,
			`email\s+preferences`,
			`e-?mailvoorkeuren`,
			`wijzig\s+je\s+`,
			`update\s+(your\s+)?preferences`,
			`sent\s+(by|to)\s+`,
			`verzonden\s+(door|naar)`,
			`you\s+received\s+this`,
			`je\s+ontvangt\s+dit`,
			`mailing\s+address`,
			`no\s+longer\s+wish\s+to\s+receive`,
			`this\s+email\s+was\s+sent\s+to`,
			`add\s+us\s+to\s+your\s+address\s+book`,
			`forward\s+this\s+email`,
			`powered\s+by\s+(mailchimp|substack|convertkit|beehiiv|revue)`,
			`©\s*\d{4}`,
			`all\s+rights\s+reserved`,
			`alle\s+rechten\s+voorbehouden`,
			`privacy\s+policy`,
			`privacybeleid`,
			`terms\s+of\s+(service|use)`,
			`suite\s+\d+`,
			`\d+\s+\w+\s+(drive|dr|street|st|avenue|ave|boulevard|blvd|road|rd)\b`,
			`powered\s+by\b`,
			`sent\s+by\b`,
			`\bicegram\b`,
		),
		Kill: MustGroup("kill",
			// browser view and app prompts
			`bekijk\s+(in|deze\s+e-?mail\s+in)\s+(je\s+|uw\s+)?browser`,
			`view\s+(in|this\s+email\s+in)\s+(your\s+)?browser`,
			`lees\s+in\s+de\s+app`,
			`read\s+in\s+(the\s+)?app`,
			`open\s+in\s+(the\s+)?app`,
			`bekijk\s+de\s+webversie`,
			`view\s+online`,
			// social
			`^share$`,
			`^restack$`,
			`^liken$`,
			`^like$`,
			// subscription and action buttons
			`^start\s+writing$`,
			`^subscribe$`,
			`^abonneren$`,
			`^download\s+de\s+app$`,
			`^download\s+the\s+app$`,
			`^get\s+the\s+app$`,
			`klik\s+hier\s+om\s+over\s+te\s+schakelen`,
			`switch\s+to\s+the\s+.*?web\s*app`,
			`update\(?s?\)?\s+in\s+deze\s+e-?mail`,
			// placeholder and spam
			`welkom\s+bij\s+onze\s+website`,
			`onze\s+diensten:\s+webontwikkeling`,
			`webontwikkeling`,
			`web\s*design`,
			`zoekmachine\s*optimalisatie`,
			`seo\s+diensten`,
			`bekijk\s+deze\s+e-?mail\s+in\s+uw\s+browser`,
			`can.?t\s+see\s+this\s+email`,
			`trouble\s+viewing`,
			`email\s+not\s+displaying`,
			`view\s+this\s+email`,
			`images\s+not\s+showing`,
			`afbeeldingen\s+worden\s+niet\s+getoond`,
			`click\s+here\s+to\s+view`,
			`klik\s+hier\s+om\s+te\s+bekijken`,
			// generated website templates
			`welkom\s+op\s+onze\s+website`,
			`neem\s+contact\s+met\s+ons\s+op\s+via\s+ons\s+e-?mailadres`,
			`onze\s+missie.*wij\s+streven`,
			`voorbeeldbedrijf\.\s*alle\s+rechten`,
			// reader and platform chrome
			`favorite\s*/\s*discard\s*/\s*tag\s+or\s+share`,
			`op\s+de\s+blog\s+of\s+reader\s+lezen`,
			`lees\s+verder`,
			`read\s+full\s+story`,
			`^reactie$`,
			`deze\s+e-?mail\s+doorgestuurd\??\s+abonneer`,
			`forwarded\s+this\s+email\??\s+subscribe`,
			`change\s+your\s+email\s+preferences\s*\|?\s*unsubscribe`,
			`voor\s+alle\s+plus-abonnees`,
			`^webversie$`,
			`listen\s+now`,
			`preview\s+0:00`,
			`upgrade\s+to\s+paid`,
			`claim\s+my\s+free\s+post`,
			`nrc>`,
		),
		Signature: MustGroup("signature",
			`docent\s+maatschappijleer`,
			`decaan\s+vwo`,
			`digicoach`,
			`mijn\s+werkdagen\s+zijn\s+maandag`,
			`fioretti\s+college`,
			`www\.fioretti\.nl`,
			`dit\s+e-?mailbericht\s+is\s+uitsluitend\s+bestemd\s+voor\s+de\s+geadresseerde`,
		),
		Forward: MustGroup("forward",
			`-{3,}\s*forwarded\s+message\s*-{3,}`,
			`-{3,}\s*doorgestuurd\s+bericht\s*-{3,}`,
			`oorspronkelijk\s+(van|bericht)\s*:`,
			`(?s)^van\s*:.*datum\s*:.*onderwerp\s*:`,
			`(?s)^from\s*:.*date\s*:.*subject\s*:.*to\s*:`,
			`dit\s+e-?mailbericht\s+is\s+uitsluitend\s+bestemd\s+voor`,
			`dit\s+bericht\s+is\s+uitsluitend\s+bestemd`,
			`this\s+e-?mail\s+is\s+(solely\s+)?intended\s+for`,
			`begin\s+forwarded\s+message`,
			`begin\s+doorgestuurd\s+bericht`,
		),
		Ad: MustGroup("ad",
			`^\s*(advertentie|advertisement|gesponsord|sponsored)(\s*\d+)?\s*$`,
		),
		BoilerplateIntro: MustGroup("boilerplate-intro",
			`de\s+ai[-\s]wereld\s+ontwikkelt\s+zich\s+razendsnel`,
			`tag,?\s+favorite,?\s+share,?\s+track\s+your\s+progress`,
		),
		Promo: MustGroup("promo",
			`^reacties$`,
			`bekijk\s+al\s+onze\s+nieuwsbrieven`,
			`broncode\s+van\s+de\s+week`,
			`week\s+van\s+de\s+hoofdredactie`,
		),
		TemplateSignals: MustGroup("template",
			`welkom\s+(bij|op)\s+onze\s+website`,
			`home\s*\|\s*over\s+ons\s*\|\s*diensten`,
			`(?s)neem\s+contact\s+met\s+ons\s+op.*e-?mailadres`,
			`(?s)onze\s+missie.*wij\s+streven`,
			`voorbeeldbedrijf\.\s*alle\s+rechten\s+voorbehouden`,
		),
		Buttons: map[string]bool{
			"download":         true,
			"subscribe":        true,
			"abonneren":        true,
			"start writing":    true,
			"get the app":      true,
			"download the app": true,
			"download de app":  true,
			"lees in de app":   true,
			"read in the app":  true,
			"open in app":      true,
			"share":            true,
			"restack":          true,
			"like":             true,
			"liken":            true,
			"google play":      true,
			"app store":        true,
		},
		Ghost: NewPhraseSet(
			"welkom bij onze website",
			"onze diensten: webontwikkeling",
			"onze diensten:",
			"webontwikkeling",
		),
		GhostMarkup: []*regexp.Regexp{
			regexp.MustCompile(`(?is)<[^>]*>[^<]*welkom\s+(bij|op)\s+onze\s+website[^<]*</[^>]+>`),
			regexp.MustCompile(`(?is)<[^>]*>[^<]*onze\s+diensten\s*:?\s*webontwikkeling[^<]*</[^>]+>`),
			regexp.MustCompile(`(?is)<[^>]*>[^<]*zoekmachine\s*optimalisatie[^<]*</[^>]+>`),
			regexp.MustCompile(`(?i)welkom\s+(bij|op)\s+onze\s+website!?`),
			regexp.MustCompile(`(?i)onze\s+diensten\s*:?\s*webontwikkeling`),
			regexp.MustCompile(`(?i)neem\s+contact\s+met\s+ons\s+op`),
			regexp.MustCompile(`(?i)©\s*\d{4}\s*\w+\s*\.\s*alle\s+rechten\s+voorbehouden`),
		},
	}
}

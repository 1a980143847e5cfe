package clean

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/dagkrant/dom"
	"golang.org/x/text/unicode/norm"
)

// Tag sets scanned by the passes.
var (
	killTags        = []string{"div", "p", "span", "td", "a", "table", "tr", "section", "center", "li", "h1", "h2", "h3", "h4"}
	boilerplateTags = []string{"div", "p", "span", "td", "section", "tr"}
	adTags          = []string{"div", "p", "span", "td", "h1", "h2", "h3", "h4", "h5", "h6", "section", "center"}
	blockTextTags   = []string{"div", "p", "span", "td", "tr", "table", "blockquote", "section", "pre"}
	footerTags      = []string{"div", "table", "tr", "td", "p", "section", "footer"}
	containerTags   = []string{"div", "tr", "td", "span"}
	mediaTags       = []string{"img", "a", "input", "button", "video", "iframe"}
	dropCapTags     = []string{"span", "font", "b", "strong", "em", "i", "big"}
)

var (
	pixelStyleRE   = regexp.MustCompile(`(?i)(?:^|[;\s])(?:width|height)\s*:\s*[01](?:\.0+)?(?:px)?\s*(?:;|!|$)`)
	displayNoneRE  = regexp.MustCompile(`(?i)display\s*:\s*none`)
	floatLeftRE    = regexp.MustCompile(`(?i)float\s*:\s*left`)
	largeFontRE    = regexp.MustCompile(`(?i)font-size\s*:\s*(\d{2,}px|[3-9]\d*pt|xx?-large|[3-9]\d*em)`)
	displayTableRE = regexp.MustCompile(`(?i)display\s*:\s*table(\s*(?:;|!|$))`)
)

// Minimum text lengths before a forwarding header or signature is
// considered evidence.
const (
	forwardMinChars   = 10
	signatureMinChars = 5
)

// sweep is one pipeline run over a single document.
type sweep struct {
	d     *dom.Document
	rules *Rules
	cfg   Config
}

type pass struct {
	name string
	run  func(*sweep)
}

// passes is the fixed pass order. Later passes rely on earlier ones: the
// footer scanner expects forwarding blocks to be gone and empty-container
// collapse runs last to sweep up shells left by every other pass.
var passes = []pass{
	{"comments", (*sweep).removeComments},
	{"scripts", (*sweep).removeScripts},
	{"html-artifacts", (*sweep).removeHTMLArtifacts},
	{"tracking-pixels", (*sweep).removeTrackingPixels},
	{"drop-caps", (*sweep).flattenDropCaps},
	{"promo-footer", (*sweep).removePromoFooter},
	{"kill-phrases", (*sweep).removeKillPhrases},
	{"buttons", (*sweep).removeButtons},
	{"ghost-text", (*sweep).removeGhostText},
	{"boilerplate-intros", (*sweep).removeBoilerplateIntros},
	{"advertisements", (*sweep).removeAdvertisements},
	{"forwarding-headers", (*sweep).removeForwardingHeaders},
	{"signatures", (*sweep).removeSignatures},
	{"footers", (*sweep).removeFooters},
	{"empty-containers", (*sweep).removeEmptyContainers},
}

// Passes returns the names of the pruning passes in execution order.
func Passes() []string {
	names := make([]string, len(passes))
	for i, p := range passes {
		names[i] = p.name
	}
	return names
}

func (s *sweep) run() {
	for _, p := range passes {
		p.run(s)
	}
}

func (s *sweep) climb(id dom.NodeID) dom.NodeID {
	return Climb(s.d, id, shorterThan(s.cfg.ClimbMaxChars))
}

func (s *sweep) removeComments() {
	for _, id := range s.d.Descendants(dom.Root) {
		if s.d.Kind(id) == dom.CommentNode {
			s.d.Remove(id)
		}
	}
}

func (s *sweep) removeScripts() {
	for _, id := range s.d.Find("script", "noscript") {
		remove(s.d, id)
	}
}

// removeHTMLArtifacts unwraps html elements nested in the body and drops
// text nodes that consist of nothing but the word "html".
func (s *sweep) removeHTMLArtifacts() {
	if body := s.d.First("body"); body != dom.None {
		for _, id := range s.d.FindIn(body, "html") {
			if s.d.Attached(id) {
				s.d.Unwrap(id)
			}
		}
	}
	for _, id := range s.d.Descendants(dom.Root) {
		if s.d.Kind(id) != dom.TextNode {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(s.d.Data(id)), "html") {
			s.d.Remove(id)
		}
	}
}

func (s *sweep) removeTrackingPixels() {
	for _, img := range s.d.Find("img") {
		if s.isTrackingPixel(img) {
			remove(s.d, img)
		}
	}
}

func (s *sweep) isTrackingPixel(img dom.NodeID) bool {
	for _, key := range []string{"width", "height"} {
		if v, ok := s.d.LookupAttr(img, key); ok {
			if n, ok := parseSize(v); ok && n <= s.cfg.PixelMaxSize {
				return true
			}
		}
	}
	style := s.d.Attr(img, "style")
	return style != "" && (pixelStyleRE.MatchString(style) || displayNoneRE.MatchString(style))
}

// parseSize parses a width or height attribute, ignoring unit suffixes.
// Values that are not numbers yield ok == false.
func parseSize(v string) (float64, bool) {
	v = strings.TrimRight(strings.ToLower(strings.TrimSpace(v)), "abcdefghijklmnopqrstuvwxyz% ")
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s *sweep) flattenDropCaps() {
	d := s.d

	// Floated single letters.
	for _, id := range d.Find(dropCapTags...) {
		if !d.Attached(id) || !floatLeftRE.MatchString(d.Attr(id, "style")) {
			continue
		}
		if d.TextLen(id) <= s.cfg.DropCapMaxChars {
			d.Unwrap(id)
		}
	}

	// One-row tables whose first cell is an oversized letter.
	for _, table := range d.Find("table") {
		if !d.Attached(table) {
			continue
		}
		rows := d.FindIn(table, "tr")
		if len(rows) != 1 {
			continue
		}
		cells := d.FindIn(rows[0], "td")
		if len(cells) != 2 {
			continue
		}
		if d.TextLen(cells[0]) > s.cfg.DropCapMaxChars || !largeFontRE.MatchString(d.Attr(cells[0], "style")) {
			continue
		}
		p := d.NewElement("p")
		d.AppendChild(p, d.NewText(strings.TrimSpace(d.RawText(table))))
		d.ReplaceWith(table, p)
	}

	for _, id := range d.Find() {
		style := d.Attr(id, "style")
		if style != "" && displayTableRE.MatchString(style) {
			d.SetAttr(id, "style", displayTableRE.ReplaceAllString(style, "display: inline${1}"))
		}
	}
}

// removePromoFooter deletes the first short element carrying a promo
// trigger together with everything that follows it under the same parent.
func (s *sweep) removePromoFooter() {
	for _, id := range elements(s.d) {
		if !s.d.Attached(id) {
			continue
		}
		text := s.d.Text(id)
		if text == "" || runeLen(text) >= s.cfg.PromoMaxChars || !s.rules.Promo.Match(text) {
			continue
		}
		for _, sib := range s.d.FollowingSiblings(id) {
			s.d.Remove(sib)
		}
		remove(s.d, id)
		return
	}
}

func (s *sweep) removeKillPhrases() {
	d, kill := s.d, s.rules.Kill
	for _, id := range elements(d, killTags...) {
		if !d.Attached(id) {
			continue
		}
		text := d.Text(id)
		if text == "" {
			continue
		}
		n := runeLen(text)
		if n <= s.cfg.KillMaxChars {
			if kill.Match(text) {
				remove(d, s.climb(id))
			}
			continue
		}

		// Long blocks only carry header noise at the top.
		if !kill.Match(truncateRunes(text, s.cfg.KillHeadChars)) {
			continue
		}
		for _, c := range d.Children(id) {
			ct := d.Text(c)
			if ct != "" && runeLen(ct) <= s.cfg.KillMaxChars && kill.Match(ct) {
				d.Remove(c)
				break
			}
		}
	}
}

// removeButtons deletes links labelled like app and social buttons, and
// their parent when nothing else is left in it.
func (s *sweep) removeButtons() {
	d := s.d
	for _, a := range d.Find("a") {
		if !d.Attached(a) {
			continue
		}
		label := strings.ToLower(norm.NFKC.String(d.Text(a)))
		if !s.rules.Buttons[label] {
			continue
		}
		parent := d.Parent(a)
		d.Remove(a)
		if removable(d, parent) && d.TextLen(parent) == 0 {
			d.Remove(parent)
		}
	}
}

// removeGhostText catches placeholder phrases the kill-phrase pass misses
// because of nesting, looking at both the sole string of an element and
// the text of its whole subtree.
func (s *sweep) removeGhostText() {
	d, ghost := s.d, s.rules.Ghost
	for _, id := range elements(d) {
		if !d.Attached(id) {
			continue
		}
		if own, ok := d.SoleText(id); ok && ghost.Contains(own) {
			remove(d, s.climb(id))
			continue
		}
		text := d.Text(id)
		if runeLen(text) < s.cfg.GhostMaxChars && ghost.Contains(text) {
			remove(d, s.climb(id))
		}
	}
}

func (s *sweep) removeBoilerplateIntros() {
	d := s.d
	for _, id := range elements(d, boilerplateTags...) {
		if !d.Attached(id) {
			continue
		}
		text := d.Text(id)
		if text == "" || runeLen(text) > s.cfg.BoilerplateMaxChars {
			continue
		}
		if s.rules.BoilerplateIntro.Match(text) {
			remove(d, s.climb(id))
		}
	}
}

// removeAdvertisements deletes advertisement labels and the block that
// follows each of them.
func (s *sweep) removeAdvertisements() {
	d := s.d
	for _, id := range elements(d, adTags...) {
		if !d.Attached(id) || !s.rules.Ad.Match(d.Text(id)) {
			continue
		}
		if next := d.NextElementSibling(id); next != dom.None && d.TextLen(next) < s.cfg.AdBodyMaxChars {
			remove(d, next)
		}
		remove(d, s.climb(id))
	}
}

func (s *sweep) removeForwardingHeaders() {
	s.removeBlocks(s.rules.Forward, forwardMinChars, s.cfg.ForwardMaxChars)
}

func (s *sweep) removeSignatures() {
	s.removeBlocks(s.rules.Signature, signatureMinChars, s.cfg.SignatureMaxChars)
}

// removeBlocks deletes elements matching g whose text is shorter than max.
// For larger elements only the first matching child goes.
func (s *sweep) removeBlocks(g *Group, minChars, maxChars int) {
	d := s.d
	for _, id := range elements(d, blockTextTags...) {
		if !d.Attached(id) {
			continue
		}
		text := d.Text(id)
		n := runeLen(text)
		if n < minChars || !g.Match(text) {
			continue
		}
		if n < maxChars {
			d.Remove(id)
			continue
		}
		for _, c := range d.Children(id) {
			ct := d.Text(c)
			if ct != "" && runeLen(ct) < maxChars && g.Match(ct) {
				d.Remove(c)
				break
			}
		}
	}
}

// removeEmptyContainers deletes layout containers without text unless they
// hold media or interactive elements.
func (s *sweep) removeEmptyContainers() {
	d := s.d
	for _, id := range elements(d, containerTags...) {
		if !d.Attached(id) || d.HasDescendant(id, mediaTags...) {
			continue
		}
		if d.TextLen(id) == 0 {
			d.Remove(id)
		}
	}
}

package clean

import "regexp"

// Step is a named transformation applied to the raw document before it is
// parsed. Each step is idempotent on its own output.
type Step struct {
	Name  string
	Apply func(string) string
}

// PrefilterSteps returns the raw-text steps in the order they must run.
// Ghost text goes first because some of it sits inside code fences.
func (r *Rules) PrefilterSteps() []Step {
	return []Step{
		{Name: "ghost-text", Apply: r.StripGhostText},
		{Name: "ai-artifacts", Apply: StripAIArtifacts},
		{Name: "mso-conditionals", Apply: ResolveConditionalComments},
	}
}

// Prefilter runs every prefilter step over raw.
func (r *Rules) Prefilter(raw string) string {
	for _, s := range r.PrefilterSteps() {
		raw = s.Apply(raw)
	}
	return raw
}

// StripGhostText removes placeholder phrases together with the smallest
// tag pair enclosing them.
func (r *Rules) StripGhostText(raw string) string {
	for _, re := range r.GhostMarkup {
		raw = re.ReplaceAllString(raw, "")
	}
	return raw
}

var (
	fenceRunRE    = regexp.MustCompile("(?i)(`{3,}html\\s*){2,}")
	fenceHTMLRE   = regexp.MustCompile("(?i)`{3,}html\\s*")
	fenceRE       = regexp.MustCompile("`{3,}\\s*")
	bareHTMLRE    = regexp.MustCompile(`(?im)^\s*html\s*$`)
	aiArtifactRes = []*regexp.Regexp{fenceRunRE, fenceHTMLRE, fenceRE, bareHTMLRE}
)

// StripAIArtifacts removes the markdown code fences a translation model
// sometimes wraps around its HTML output, including repeated fences and a
// lone "html" line.
func StripAIArtifacts(raw string) string {
	for _, re := range aiArtifactRes {
		raw = re.ReplaceAllString(raw, "")
	}
	return raw
}

var (
	// Wrappers around content meant for every client but Outlook.
	nonMSOOpenRE  = regexp.MustCompile(`(?i)<!--\[if\s+!mso\]><!-->`)
	nonMSOCloseRE = regexp.MustCompile(`(?i)<!--<!\[endif\]-->`)

	// Outlook-only blocks.
	msoBlockRE = regexp.MustCompile(`(?is)<!--\[if[^\]!]*\]>.*?<!\[endif\]-->`)

	// Dangling markers left by partial matches.
	msoOpenRE      = regexp.MustCompile(`(?i)<!--\[if[^\]]*\]>`)
	msoCloseRE     = regexp.MustCompile(`(?i)<!\[endif\]-->`)
	msoBareCloseRE = regexp.MustCompile(`(?i)<!\[endif\]>`)
	msoBareOpenRE  = regexp.MustCompile(`(?i)\[if\s+[!\w\s]+\]>`)

	msoRes = []*regexp.Regexp{
		nonMSOOpenRE, nonMSOCloseRE,
		msoBlockRE,
		msoOpenRE, msoCloseRE, msoBareCloseRE, msoBareOpenRE,
	}
)

// ResolveConditionalComments keeps the content of non-Outlook conditional
// blocks and deletes Outlook-only blocks entirely.
func ResolveConditionalComments(raw string) string {
	for _, re := range msoRes {
		raw = re.ReplaceAllString(raw, "")
	}
	return raw
}

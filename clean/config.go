package clean

import (
	"errors"
	"io"

	"github.com/fwojciec/dagkrant"
	yaml "gopkg.in/yaml.v3"
)

// Config holds the tunable thresholds of the sanitizer. Character limits
// are measured in characters of extracted text. Zero fields fall back to
// the defaults of DefaultConfig.
type Config struct {
	// Kill-phrase pass.
	KillMaxChars  int `yaml:"killMaxChars"`
	KillHeadChars int `yaml:"killHeadChars"`
	GhostMaxChars int `yaml:"ghostMaxChars"`

	// Ancestor climbing used by the kill-phrase, intro and ad passes.
	ClimbMaxChars int `yaml:"climbMaxChars"`

	BoilerplateMaxChars int `yaml:"boilerplateMaxChars"`
	AdBodyMaxChars      int `yaml:"adBodyMaxChars"`
	ForwardMaxChars     int `yaml:"forwardMaxChars"`
	SignatureMaxChars   int `yaml:"signatureMaxChars"`
	PromoMaxChars       int `yaml:"promoMaxChars"`

	FooterMaxChars int `yaml:"footerMaxChars"`
	FooterMinChars int `yaml:"footerMinChars"`

	DropCapMaxChars int     `yaml:"dropCapMaxChars"`
	PixelMaxSize    float64 `yaml:"pixelMaxSize"`

	TitleSimilarity      float64 `yaml:"titleSimilarity"`
	NewsletterSimilarity float64 `yaml:"newsletterSimilarity"`

	// MinContentChars is the floor below which a sanitized document is
	// considered empty.
	MinContentChars int `yaml:"minContentChars"`

	// TemplateMinSignals is how many website-template signals must be
	// present before a document is rejected as a template page.
	TemplateMinSignals int `yaml:"templateMinSignals"`
}

// DefaultConfig returns the thresholds the sanitizer was tuned with.
func DefaultConfig() Config {
	return Config{
		KillMaxChars:         500,
		KillHeadChars:        200,
		GhostMaxChars:        600,
		ClimbMaxChars:        500,
		BoilerplateMaxChars:  800,
		AdBodyMaxChars:       3000,
		ForwardMaxChars:      1500,
		SignatureMaxChars:    2000,
		PromoMaxChars:        500,
		FooterMaxChars:       2000,
		FooterMinChars:       5,
		DropCapMaxChars:      2,
		PixelMaxSize:         3,
		TitleSimilarity:      0.6,
		NewsletterSimilarity: 0.90,
		MinContentChars:      50,
		TemplateMinSignals:   2,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	setInt(&c.KillMaxChars, d.KillMaxChars)
	setInt(&c.KillHeadChars, d.KillHeadChars)
	setInt(&c.GhostMaxChars, d.GhostMaxChars)
	setInt(&c.ClimbMaxChars, d.ClimbMaxChars)
	setInt(&c.BoilerplateMaxChars, d.BoilerplateMaxChars)
	setInt(&c.AdBodyMaxChars, d.AdBodyMaxChars)
	setInt(&c.ForwardMaxChars, d.ForwardMaxChars)
	setInt(&c.SignatureMaxChars, d.SignatureMaxChars)
	setInt(&c.PromoMaxChars, d.PromoMaxChars)
	setInt(&c.FooterMaxChars, d.FooterMaxChars)
	setInt(&c.FooterMinChars, d.FooterMinChars)
	setInt(&c.DropCapMaxChars, d.DropCapMaxChars)
	setInt(&c.MinContentChars, d.MinContentChars)
	setInt(&c.TemplateMinSignals, d.TemplateMinSignals)
	setFloat(&c.PixelMaxSize, d.PixelMaxSize)
	setFloat(&c.TitleSimilarity, d.TitleSimilarity)
	setFloat(&c.NewsletterSimilarity, d.NewsletterSimilarity)
	return c
}

func setInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func setFloat(v *float64, def float64) {
	if *v <= 0 {
		*v = def
	}
}

// LoadConfig reads a YAML threshold file. Fields absent from the file keep
// their default values; an empty file yields DefaultConfig.
func LoadConfig(r io.Reader) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, dagkrant.Errorf(dagkrant.EINVALID, "invalid rules config: %v", err)
	}
	c = c.withDefaults()
	if c.TitleSimilarity > 1 || c.NewsletterSimilarity > 1 {
		return Config{}, dagkrant.Errorf(dagkrant.EINVALID, "similarity thresholds must be at most 1")
	}
	if c.KillHeadChars > c.KillMaxChars {
		return Config{}, dagkrant.Errorf(dagkrant.EINVALID, "killHeadChars (%d) exceeds killMaxChars (%d)",
			c.KillHeadChars, c.KillMaxChars)
	}
	return c, nil
}

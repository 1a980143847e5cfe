package dagkrant

import "context"

// Language identifies the language a newsletter is written in.
type Language string

// Supported languages.
const (
	LanguageDutch   Language = "nl"
	LanguageEnglish Language = "en"
)

// LanguageDetector guesses the language of an HTML document.
type LanguageDetector interface {
	DetectLanguage(html string) Language
}

// Translator translates newsletter HTML to Dutch.
type Translator interface {
	// Translate returns html with its visible text translated and all
	// markup, URLs and brand names left intact.
	Translate(ctx context.Context, html string) (string, error)
}

// TOCEntry is a single line in the edition's table of contents.
type TOCEntry struct {
	Subject     string `json:"subject"`
	Sender      string `json:"sender"`
	ShortTitle  string `json:"shortTitle"`
	Description string `json:"description"`
}

// TOCGenerator writes table-of-contents entries for newsletters.
type TOCGenerator interface {
	// GenerateTOCEntry returns a short Dutch title and description for a
	// newsletter based on its subject and sender.
	GenerateTOCEntry(ctx context.Context, subject, sender string) (*TOCEntry, error)
}

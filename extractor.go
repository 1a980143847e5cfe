package dagkrant

// ExtractResult holds the extracted content from an HTML document.
type ExtractResult struct {
	// Title is the document title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	ContentHTML string
}

// Extractor extracts main content from HTML, discarding everything a
// readability heuristic considers boilerplate. It is a coarser tool than a
// Sanitizer and is only used to rescue documents the Sanitizer emptied.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/dagkrant"
)

// Run executes the clean command.
func (c *CleanCmd) Run(deps *Dependencies) error {
	raw, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.File, err)
	}

	html := deps.Sanitizer.Sanitize(string(raw))
	if c.Subject != "" {
		html = deps.Sanitizer.DeduplicateTitle(html, c.Subject)
	}
	if c.MaxWords > 0 {
		html = deps.Sanitizer.Truncate(html, c.MaxWords)
	}
	if !deps.Sanitizer.HasContent(html) {
		fmt.Fprintln(deps.Stderr, "warning: nearly empty after cleaning")
	}

	if c.Markdown {
		md, err := deps.Converter.Convert(html)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", dagkrant.ErrorMessage(err))
			return err
		}
		html = md
	}

	fmt.Fprintln(deps.Stdout, html)
	return nil
}

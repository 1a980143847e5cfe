package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/dagkrant"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := dagkrant.NewsletterFilter{Limit: c.Limit}
	if c.Sender != "" {
		filter.Sender = &c.Sender
	}
	if c.Since > 0 {
		since := time.Now().Add(-c.Since)
		filter.Since = &since
	}

	items, err := deps.Newsletters.FindNewsletters(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", dagkrant.ErrorMessage(err))
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(deps.Stdout, "No archived newsletters. Use 'dagkrant run' to publish an edition.")
		return nil
	}

	for _, n := range items {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n",
			n.ReceivedAt.Local().Format("2006-01-02 15:04"), n.Language, n.Sender, n.Subject)
	}
	return nil
}

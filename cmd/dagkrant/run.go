package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/dagkrant"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	res, err := deps.Digest.Run(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", dagkrant.ErrorMessage(err))
		return err
	}

	if res.Edition == nil {
		fmt.Fprintf(deps.Stdout, "Nothing to publish: %d fetched, %d skipped.\n", res.Fetched, res.Skipped)
		return nil
	}

	if c.DryRun != "" {
		if err := os.WriteFile(c.DryRun, res.PDF, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", c.DryRun, err)
		}
		fmt.Fprintf(deps.Stdout, "Edition #%d with %d newsletters written to %s\n",
			res.Edition.Number, len(res.Edition.Newsletters), c.DryRun)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Edition #%d with %d newsletters sent to %s\n",
		res.Edition.Number, len(res.Edition.Newsletters), c.To)
	return nil
}

package main

import (
	"fmt"

	"github.com/fwojciec/sitecorpus"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	if len(deps.Config.Sites) == 0 {
		fmt.Fprintln(deps.Stdout, "No sites configured.")
		return nil
	}

	for _, site := range deps.Config.Sites {
		pages, err := deps.Ledger.FindPages(deps.Ctx, site.Name)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitecorpus.ErrorMessage(err))
			return err
		}

		counts := make(map[sitecorpus.PageStatus]int)
		for _, p := range pages {
			counts[p.Status]++
		}

		fmt.Fprintf(deps.Stdout, "%s: %d pages (%d ok, %d empty, %d failed)\n",
			site.Name, len(pages), counts[sitecorpus.StatusOK], counts[sitecorpus.StatusEmpty], counts[sitecorpus.StatusFailed])

		run, err := deps.Ledger.FindLastRun(deps.Ctx, site.Name)
		if sitecorpus.ErrorCode(err) == sitecorpus.ENOTFOUND {
			fmt.Fprintln(deps.Stdout, "  never harvested")
			continue
		} else if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitecorpus.ErrorMessage(err))
			return err
		}

		fmt.Fprintf(deps.Stdout, "  last run %s: %d added, %d modified, %d removed, %d saved, %d empty, %d failed\n",
			run.StartedAt.Format("2006-01-02 15:04:05"), run.Added, run.Modified, run.Removed, run.Saved, run.Empty, run.Failed)
		if run.FinishedAt.IsZero() {
			fmt.Fprintln(deps.Stdout, "  (did not finish)")
		}
	}

	return nil
}

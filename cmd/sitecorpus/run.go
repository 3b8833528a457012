package main

import (
	"fmt"

	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/goquery"
	"github.com/fwojciec/sitecorpus/harvest"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	sites := deps.Config.Sites
	if len(c.Site) > 0 {
		sites = make([]*sitecorpus.Site, 0, len(c.Site))
		for _, name := range c.Site {
			site, err := deps.Config.FindSite(name)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", sitecorpus.ErrorMessage(err))
				return err
			}
			sites = append(sites, site)
		}
	}

	// A failed site leaves its stored state untouched, so the remaining
	// sites are still harvested and the corpus is still rebuilt.
	var firstErr error
	for _, site := range sites {
		if err := goquery.ValidateSite(site); err != nil {
			fmt.Fprintf(deps.Stderr, "warning: %s\n", sitecorpus.ErrorMessage(err))
		}

		fmt.Fprintf(deps.Stdout, "Harvesting %s\n", site.Name)

		progress := func(event harvest.ProgressEvent) {
			switch event.Type {
			case harvest.ProgressStarted:
				fmt.Fprintf(deps.Stdout, "  Processing %d changed pages\n", event.Total)
			case harvest.ProgressFailed:
				fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", harvest.TruncateURL(event.URL, 80), event.Error)
			}
		}

		result, err := deps.Harvester.Run(deps.Ctx, site, progress)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error harvesting %s: %v\n", site.Name, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		printHarvestResult(deps, result)
	}

	if !c.NoBuild {
		if err := buildCorpus(deps); err != nil {
			return err
		}
	}

	return firstErr
}

func printHarvestResult(deps *Dependencies, r *harvest.Result) {
	fmt.Fprintf(deps.Stdout, "  Listed %d pages: %d added, %d modified, %d removed\n",
		r.Listed, r.Added, r.Modified, r.Removed)
	fmt.Fprintf(deps.Stdout, "  Saved %d pages (%s), %d unchanged, %d empty, %d failed\n",
		r.Saved, harvest.FormatBytes(r.Bytes), r.Unchanged, r.Empty, r.Failed)
	if r.Deferred > 0 {
		fmt.Fprintf(deps.Stdout, "  Deferred %d pages to the next run\n", r.Deferred)
	}
}

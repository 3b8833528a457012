package main

import (
	"fmt"

	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/goquery"
)

// Run executes the validate command. The configuration itself was already
// validated while loading; this checks the selectors of every site.
func (c *ValidateCmd) Run(deps *Dependencies) error {
	invalid := 0
	for _, site := range deps.Config.Sites {
		if err := goquery.ValidateSite(site); err != nil {
			fmt.Fprintf(deps.Stdout, "FAIL  %s: %s\n", site.Name, sitecorpus.ErrorMessage(err))
			invalid++
			continue
		}
		fmt.Fprintf(deps.Stdout, "ok    %s\n", site.Name)
	}

	if invalid > 0 {
		return sitecorpus.Errorf(sitecorpus.EINVALID, "%d of %d sites have invalid selectors", invalid, len(deps.Config.Sites))
	}
	return nil
}

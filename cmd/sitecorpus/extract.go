package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/goquery"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	req := &sitecorpus.ExtractRequest{
		Include:       c.Include,
		Exclude:       c.Exclude,
		FlattenTables: c.FlattenTables,
	}

	// Flags given explicitly take precedence over the site's selectors.
	if c.Site != "" {
		site, err := deps.Config.FindSite(c.Site)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitecorpus.ErrorMessage(err))
			return err
		}
		if len(req.Include) == 0 {
			req.Include = site.Include
		}
		if len(req.Exclude) == 0 {
			req.Exclude = site.Exclude
		}
		req.FlattenTables = req.FlattenTables || site.FlattenTables
	}

	if len(req.Include) == 0 {
		err := sitecorpus.Errorf(sitecorpus.EINVALID, "at least one --include selector or --site required")
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecorpus.ErrorMessage(err))
		return err
	}

	for _, selectors := range [][]string{req.Include, req.Exclude} {
		if err := goquery.ValidateSelectors(selectors); err != nil {
			fmt.Fprintf(deps.Stderr, "warning: %s\n", sitecorpus.ErrorMessage(err))
		}
	}

	html, err := c.readSource(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	req.HTML = html

	text, ok, err := deps.Extractor.ExtractText(req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecorpus.ErrorMessage(err))
		return err
	}
	if !ok {
		fmt.Fprintf(deps.Stderr, "no text found in %s\n", c.Source)
		return sitecorpus.Errorf(sitecorpus.ENOTFOUND, "no text found in %s", c.Source)
	}

	fmt.Fprintln(deps.Stdout, text)
	return nil
}

func (c *ExtractCmd) readSource(deps *Dependencies) (string, error) {
	if strings.HasPrefix(c.Source, "http://") || strings.HasPrefix(c.Source, "https://") {
		return deps.Fetcher.Fetch(deps.Ctx, c.Source)
	}
	data, err := os.ReadFile(c.Source)
	if err != nil {
		return "", sitecorpus.Errorf(sitecorpus.ENOTFOUND, "cannot read %s: %v", c.Source, err)
	}
	return string(data), nil
}

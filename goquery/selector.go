package goquery

import (
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/sitecorpus"
)

// CompileSelector compiles a CSS selector.
// Returns EINVALID if the selector is malformed.
func CompileSelector(selector string) (cascadia.Selector, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "invalid selector %q: %v", selector, err)
	}
	return m, nil
}

// compileSelectors compiles the selectors that parse, silently dropping the
// rest so a single bad rule never blocks extraction.
func compileSelectors(selectors []string) []cascadia.Selector {
	compiled := make([]cascadia.Selector, 0, len(selectors))
	for _, s := range selectors {
		m, err := CompileSelector(s)
		if err != nil {
			continue
		}
		compiled = append(compiled, m)
	}
	return compiled
}

// ValidateSelectors returns an error for the first malformed selector.
func ValidateSelectors(selectors []string) error {
	for _, s := range selectors {
		if _, err := CompileSelector(s); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSite checks the syntax of every selector configured for a site.
func ValidateSite(site *sitecorpus.Site) error {
	if err := ValidateSelectors(site.Include); err != nil {
		return sitecorpus.Errorf(sitecorpus.EINVALID, "site %q include: %s", site.Name, sitecorpus.ErrorMessage(err))
	}
	if err := ValidateSelectors(site.Exclude); err != nil {
		return sitecorpus.Errorf(sitecorpus.EINVALID, "site %q exclude: %s", site.Name, sitecorpus.ErrorMessage(err))
	}
	return nil
}

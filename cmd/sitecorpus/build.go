package main

import (
	"fmt"

	"github.com/fwojciec/sitecorpus/harvest"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	return buildCorpus(deps)
}

// buildCorpus assembles the stored units of every configured site, in
// configuration order, and writes the corpus.
func buildCorpus(deps *Dependencies) error {
	names := make([]string, 0, len(deps.Config.Sites))
	for _, s := range deps.Config.Sites {
		names = append(names, s.Name)
	}

	result, err := deps.Builder.Build(deps.Ctx, names, deps.Config.Corpus)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error building corpus: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Built %s from %d pages (%s) in %d parts\n",
		deps.Config.Corpus.Name, result.Units, harvest.FormatBytes(result.MasterBytes), len(result.Parts))
	for _, p := range result.Parts {
		if deps.Builder.TokenCounter != nil {
			fmt.Fprintf(deps.Stdout, "  part %d: %d pages, %s, %s\n",
				p.Index, p.Units, harvest.FormatBytes(p.Bytes), harvest.FormatTokens(p.Tokens))
			continue
		}
		fmt.Fprintf(deps.Stdout, "  part %d: %d pages, %s\n", p.Index, p.Units, harvest.FormatBytes(p.Bytes))
	}

	return nil
}

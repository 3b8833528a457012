// Package goquery implements selector-driven text extraction on top of
// github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/sitecorpus"
	"golang.org/x/net/html"
)

// Ensure Extractor implements sitecorpus.TextExtractor at compile time.
var _ sitecorpus.TextExtractor = (*Extractor)(nil)

// hiddenSelector matches nodes whose content never reaches the reader.
const hiddenSelector = "script, style, noscript, template"

// chunkSeparator joins the text of separate matches and tables.
const chunkSeparator = "\n\n"

// Extractor renders the subtrees selected by CSS selectors as plain text.
// It holds no state and is safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText renders every node matched by the inclusion selectors, in
// selector order and then document order. Each match is processed on its
// own copy: hidden nodes and exclusion matches are pruned, tables are
// flattened when requested, and the remaining tree is rendered as text.
func (e *Extractor) ExtractText(req *sitecorpus.ExtractRequest) (string, bool, error) {
	if len(req.Include) == 0 {
		return "", false, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(req.HTML))
	if err != nil {
		return "", false, sitecorpus.Errorf(sitecorpus.EINVALID, "failed to parse HTML: %v", err)
	}

	exclude := compileSelectors(req.Exclude)

	var chunks []string
	for _, m := range compileSelectors(req.Include) {
		doc.FindMatcher(m).Each(func(_ int, match *goquery.Selection) {
			chunks = append(chunks, extractMatch(match.Clone(), exclude, req.FlattenTables)...)
		})
	}

	if len(chunks) == 0 {
		return "", false, nil
	}
	return strings.Join(chunks, chunkSeparator), true, nil
}

// extractMatch returns the non-empty text chunks of a detached match:
// its block text first, then its flattened tables in document order.
func extractMatch(root *goquery.Selection, exclude []cascadia.Selector, flattenTables bool) []string {
	root.Find(hiddenSelector).Remove()
	for _, m := range exclude {
		root.FindMatcher(m).Remove()
	}

	var tables []string
	if flattenTables {
		tables = detachTables(root)
	}

	var chunks []string
	if text := RenderHTMLText(root.Get(0)); text != "" {
		chunks = append(chunks, text)
	}
	return append(chunks, tables...)
}

// detachTables flattens and detaches the outermost tables under root,
// or root itself when it is a table.
func detachTables(root *goquery.Selection) []string {
	rootNode := root.Get(0)

	if goquery.NodeName(root) == "table" {
		text, ok := FlattenTable(root)
		for c := rootNode.FirstChild; c != nil; c = rootNode.FirstChild {
			rootNode.RemoveChild(c)
		}
		if !ok {
			return nil
		}
		return []string{text}
	}

	var texts []string
	root.Find("table").Each(func(_ int, table *goquery.Selection) {
		node := table.Get(0)
		if node.Parent == nil || insideTable(node, rootNode) {
			return
		}
		if text, ok := FlattenTable(table); ok {
			texts = append(texts, text)
		}
		table.Remove()
	})
	return texts
}

// insideTable reports whether n has a table ancestor below root.
func insideTable(n, root *html.Node) bool {
	for p := n.Parent; p != nil && p != root; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "table" {
			return true
		}
	}
	return false
}

package goquery

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Node is the minimal tree view the text renderer needs.
type Node interface {
	IsText() bool
	Text() string
	Tag() string
	Children() []Node
}

// inlineTags are rendered without a forced line break. Every other element
// is treated as a block.
var inlineTags = map[string]bool{
	"em":     true,
	"strong": true,
	"i":      true,
	"b":      true,
	"a":      true,
	"span":   true,
}

var (
	spaceRe     = regexp.MustCompile(`\s+`)
	blankLineRe = regexp.MustCompile(`\n{2,}`)
)

// Preformatted text is rendered with placeholders that survive line
// normalization: preBreak stands for a line break and preIndent keeps the
// indentation of a preformatted line that starts a rendered line.
const (
	preBreak  = "\x00"
	preIndent = "\x01"
)

var preRestorer = strings.NewReplacer(preBreak, "\n", preIndent, "")

// RenderText renders a tree as plain text. Text inside inline elements flows
// with its surroundings; each block element starts on its own line and ends
// with a line break. Lines are trimmed and runs of line breaks collapse into one.
// Text inside pre keeps its line breaks, blank lines and indentation; only
// trailing whitespace of its lines is dropped.
func RenderText(n Node) string {
	var buf []byte
	buf = renderNode(buf, n, false)
	return preRestorer.Replace(normalizeText(string(buf)))
}

func renderNode(buf []byte, n Node, pre bool) []byte {
	if n.IsText() {
		if pre {
			return appendPreText(buf, n.Text())
		}
		return append(buf, spaceRe.ReplaceAllString(n.Text(), " ")...)
	}

	pre = pre || n.Tag() == "pre"

	if inlineTags[n.Tag()] {
		for _, c := range n.Children() {
			buf = renderNode(buf, c, pre)
		}
		return buf
	}

	buf = breakLine(buf)
	for _, c := range n.Children() {
		buf = renderNode(buf, c, pre)
	}
	buf = bytes.TrimRight(buf, " \t\n"+preBreak)
	if len(buf) > 0 {
		buf = append(buf, '\n')
	}
	return buf
}

// breakLine ends the current line unless the buffer is empty or already
// ends with a line break.
func breakLine(buf []byte) []byte {
	buf = bytes.TrimRight(buf, " \t"+preBreak)
	if len(buf) > 0 && buf[len(buf)-1] != '\n' {
		buf = append(buf, '\n')
	}
	return buf
}

// appendPreText appends preformatted text with its line breaks encoded as
// preBreak so that line trimming leaves them alone.
func appendPreText(buf []byte, text string) []byte {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i := range len(lines) - 1 {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}

	atLineStart := len(buf) == 0 || buf[len(buf)-1] == '\n'
	first := lines[0]
	if atLineStart && strings.TrimSpace(first) != "" && first != strings.TrimLeft(first, " \t") {
		buf = append(buf, preIndent...)
	}
	return append(buf, strings.Join(lines, preBreak)...)
}

func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankLineRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

// htmlNode adapts *html.Node to Node.
type htmlNode struct {
	n *html.Node
}

func (h htmlNode) IsText() bool { return h.n.Type == html.TextNode }
func (h htmlNode) Text() string { return h.n.Data }
func (h htmlNode) Tag() string  { return strings.ToLower(h.n.Data) }

// Children skips comments, doctypes and other non-content nodes.
func (h htmlNode) Children() []Node {
	var children []Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode || c.Type == html.ElementNode {
			children = append(children, htmlNode{n: c})
		}
	}
	return children
}

// RenderHTMLText renders an HTML subtree with RenderText.
func RenderHTMLText(n *html.Node) string {
	return RenderText(htmlNode{n: n})
}

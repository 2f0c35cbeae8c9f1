// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns a wiki page's HTML body into Markdown.
//
// Conversion is a stateful single pass over the parsed tree: headings are
// normalized and registered, images and links are resolved, and macro
// containers (table of contents, draw.io diagrams) are swapped for opaque
// placeholder tokens. The rewritten tree is rendered to Markdown, then a
// finalization pass substitutes the tokens — the table of contents can only
// be built once every heading in the document is known.
package convert

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"

	"github.com/pdiddy/wiki2md/internal/imagestore"
	"github.com/pdiddy/wiki2md/pkg/types"
)

// AssetSource provides the page attachments and raw downloads the converter
// needs while walking the tree. *confluence.Client satisfies it.
type AssetSource interface {
	Attachments(pageID string) ([]types.Attachment, error)
	Download(rawURL string) ([]byte, error)
}

// Result carries the converted Markdown and what was discovered on the way.
type Result struct {
	// Markdown is the finished document body.
	Markdown string

	// Headings is the normalized outline in document order.
	Headings []types.Heading

	// Images lists the local filenames saved into the image store.
	Images []string

	// Markers counts inline error markers left in the output.
	Markers int
}

// Converter holds the mutable state of one document conversion. Construct a
// fresh instance per run; instances are not safe for reuse.
type Converter struct {
	assets  AssetSource
	store   *imagestore.Store
	baseURL string
	pageID  string
	w       io.Writer

	lastHeadingLevel int
	headings         []types.Heading
	tocCount         int
	deferred         []string
	images           []string
	markers          int

	md *converter.Converter
}

// New builds a converter for one page. baseURL is the scheme://host origin
// relative references are resolved against; pageID scopes attachment lookups;
// progress and warnings go to w.
func New(assets AssetSource, store *imagestore.Store, baseURL, pageID string, w io.Writer) *Converter {
	return &Converter{
		assets:  assets,
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		pageID:  pageID,
		w:       w,
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Convert runs the full pipeline on one HTML body: parse, rewrite walk,
// render, finalize. Per-asset failures surface as inline markers or warning
// lines; only page-level problems (unparseable input, attachment listing
// failure) return an error.
func (c *Converter) Convert(body string) (*Result, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing page HTML: %w", err)
	}

	if err := c.walk(doc); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("rendering rewritten tree: %w", err)
	}

	md, err := c.md.ConvertString(buf.String())
	if err != nil {
		return nil, fmt.Errorf("converting to Markdown: %w", err)
	}

	out := c.finalizeTOC(md)
	out = c.expandDeferred(out)
	out = tidy(out)

	return &Result{
		Markdown: out,
		Headings: c.headings,
		Images:   c.images,
		Markers:  c.markers,
	}, nil
}

// walk visits the children of n in document order. The next sibling is
// snapshotted before each visit: rewrites replace nodes in place.
func (c *Converter) walk(n *html.Node) error {
	var next *html.Node
	for child := n.FirstChild; child != nil; child = next {
		next = child.NextSibling
		if err := c.visit(child); err != nil {
			return err
		}
	}
	return nil
}

// visit dispatches one node to its rewriter. Dispatch covers the closed set
// of recognized kinds; everything else recurses and is left to the renderer's
// default block handling.
func (c *Converter) visit(n *html.Node) error {
	if n.Type != html.ElementNode {
		return nil
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		c.rewriteHeading(n)
		return nil
	case "img":
		c.rewriteImage(n)
		return nil
	case "a":
		c.rewriteLink(n)
		return c.walk(n)
	case "div":
		switch strings.ToLower(attr(n, "data-macro-name")) {
		case "drawio":
			return c.rewriteDrawio(n)
		case "toc":
			c.rewriteTOC(n)
			return nil
		}
	}
	return c.walk(n)
}

// rewriteTOC swaps a table-of-contents macro for a placeholder token. The
// actual list is rendered during finalization, when all headings are known.
func (c *Converter) rewriteTOC(n *html.Node) {
	replaceWithParagraph(n, fmt.Sprintf("@@TOC-%d@@", c.tocCount))
	c.tocCount++
}

// replaceWithDeferred swaps n for a token standing in for literal Markdown
// that must reach the output unescaped.
func (c *Converter) replaceWithDeferred(n *html.Node, content string) {
	replaceWithParagraph(n, fmt.Sprintf("@@RAW-%d@@", len(c.deferred)))
	c.deferred = append(c.deferred, content)
}

// finalizeTOC substitutes every TOC placeholder with the rendered heading
// list. With no placeholders the input is returned unchanged. Every
// placeholder receives the identical full list.
func (c *Converter) finalizeTOC(text string) string {
	if c.tocCount == 0 {
		return text
	}
	toc := renderTOC(c.headings)
	for i := 0; i < c.tocCount; i++ {
		text = strings.ReplaceAll(text, fmt.Sprintf("@@TOC-%d@@", i), toc)
	}
	return text
}

// renderTOC renders the table-of-contents bullet list: one bullet per
// heading, indented two spaces per level beyond the first, linking each
// heading text to its anchor.
func renderTOC(headings []types.Heading) string {
	if len(headings) == 0 {
		return "\n\n(No headings found for TOC)\n\n"
	}
	lines := make([]string, 0, len(headings))
	for _, h := range headings {
		indent := ""
		if h.Level > 1 {
			indent = strings.Repeat("  ", h.Level-1)
		}
		lines = append(lines, fmt.Sprintf("%s- [%s](#%s)", indent, h.Text, h.Slug))
	}
	return strings.Join(lines, "\n") + "\n\n"
}

// expandDeferred substitutes the deferred literal segments.
func (c *Converter) expandDeferred(text string) string {
	for i, content := range c.deferred {
		text = strings.ReplaceAll(text, fmt.Sprintf("@@RAW-%d@@", i), content)
	}
	return text
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// tidy normalizes the finished document: blank-line runs collapse to one
// blank line and the text ends with exactly one newline.
func tidy(text string) string {
	text = blankRuns.ReplaceAllString(text, "\n\n")
	text = strings.TrimLeft(text, "\n")
	return strings.TrimRight(text, "\n") + "\n"
}

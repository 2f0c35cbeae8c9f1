// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outline inspects generated Markdown: it extracts the heading
// outline and verifies that in-document anchor links target headings that
// exist.
package outline

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pdiddy/wiki2md/internal/convert"
)

// Entry is one heading in document order.
type Entry struct {
	// Level is the heading level (1-6).
	Level int

	// Text is the heading text.
	Text string
}

// Slug returns the anchor identifier for the entry, using the same rules the
// converter used when the document was generated.
func (e Entry) Slug() string {
	return convert.Slugify(e.Text)
}

// Extract parses the Markdown and returns its headings in document order.
func Extract(markdown []byte) []Entry {
	reader := text.NewReader(markdown)
	doc := goldmark.DefaultParser().Parse(reader)

	var entries []Entry
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var buf bytes.Buffer
		for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
			if textNode, ok := child.(*ast.Text); ok {
				buf.Write(textNode.Segment.Value(markdown))
			}
		}
		entries = append(entries, Entry{Level: heading.Level, Text: buf.String()})
		return ast.WalkContinue, nil
	})
	return entries
}

// anchorRef matches in-document anchor links like "](#section-name)".
var anchorRef = regexp.MustCompile(`\]\(#([^)\s]+)\)`)

// BrokenAnchors returns the anchors referenced by the Markdown that no entry
// resolves to, in order of first appearance, deduplicated.
func BrokenAnchors(markdown []byte, entries []Entry) []string {
	known := make(map[string]bool, len(entries))
	for _, e := range entries {
		known[e.Slug()] = true
	}

	var broken []string
	seen := make(map[string]bool)
	for _, m := range anchorRef.FindAllSubmatch(markdown, -1) {
		anchor := string(m[1])
		if known[anchor] || seen[anchor] {
			continue
		}
		seen[anchor] = true
		broken = append(broken, anchor)
	}
	return broken
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/wiki2md/pkg/types"
)

// numberedPattern matches heading text that already starts with a dotted
// numeric prefix ("3", "3.1", "3.1.2"). Such text is never prefixed again.
var numberedPattern = regexp.MustCompile(`^\d+(\.\d+)*`)

// spaceRuns collapses runs of whitespace inside heading text.
var spaceRuns = regexp.MustCompile(`\s+`)

// Slug character classes. Word characters cover letters, digits, and the
// underscore so non-ASCII heading text keeps its letters.
var (
	slugStrip  = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugSpaces = regexp.MustCompile(`\s+`)
	slugDashes = regexp.MustCompile(`-+`)
)

// Slugify converts heading text to an anchor identifier: lowercase, trimmed,
// punctuation removed, whitespace runs collapsed to single hyphens, repeated
// hyphens collapsed. Idempotent.
func Slugify(text string) string {
	slug := strings.ToLower(strings.TrimSpace(text))
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return slug
}

// rewriteHeading normalizes one h1-h6 element: numeric prefix, whitespace,
// level clamping, slug registration. The element is replaced by a deferred
// segment holding the finished Markdown heading line so the renderer cannot
// escape the text.
func (c *Converter) rewriteHeading(n *html.Node) {
	level := int(n.Data[1] - '0')

	prefix := attr(n, "data-nh-numbering")
	if span := findDescendant(n, isNumberSpan); span != nil {
		if t := strings.TrimSpace(nodeText(span)); t != "" && !strings.Contains(prefix, t) {
			prefix += t
		}
	}

	text := strings.ReplaceAll(nodeText(n), " ", " ")
	text = strings.TrimSpace(spaceRuns.ReplaceAllString(text, " "))

	final := text
	if !numberedPattern.MatchString(text) {
		final = strings.TrimSpace(prefix + text)
	}

	// A level may exceed the previous one by at most 1. The first heading is
	// taken as-is.
	if c.lastHeadingLevel != 0 && level > c.lastHeadingLevel+1 {
		level = c.lastHeadingLevel + 1
	}
	c.lastHeadingLevel = level

	c.headings = append(c.headings, types.Heading{
		Level: level,
		Slug:  Slugify(final),
		Text:  final,
	})

	c.replaceWithDeferred(n, fmt.Sprintf("%s %s", strings.Repeat("#", level), final))
}

func isNumberSpan(n *html.Node) bool {
	return n.Data == "span" && hasClass(n, "nh-number")
}

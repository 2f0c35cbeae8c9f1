// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleDoc = `# My Page

- [Intro](#intro)
  - [Details](#details)

## Intro

Opening text with a [cross reference](#details) and an
[external link](https://example.com/page).

### Details

Closing text.
`

func TestExtract(t *testing.T) {
	entries := Extract([]byte(sampleDoc))

	assert.Equal(t, []Entry{
		{Level: 1, Text: "My Page"},
		{Level: 2, Text: "Intro"},
		{Level: 3, Text: "Details"},
	}, entries)
}

func TestExtractEmpty(t *testing.T) {
	assert.Empty(t, Extract([]byte("Plain text, no headings.")))
}

func TestEntrySlug(t *testing.T) {
	assert.Equal(t, "31-overview", Entry{Level: 2, Text: "3.1 Overview"}.Slug())
}

func TestBrokenAnchorsNone(t *testing.T) {
	md := []byte(sampleDoc)
	assert.Empty(t, BrokenAnchors(md, Extract(md)))
}

func TestBrokenAnchors(t *testing.T) {
	md := []byte(`# Title

- [Missing](#missing)
- [Also Missing](#missing)
- [Present](#title)
- [Other](#nowhere)
`)
	broken := BrokenAnchors(md, Extract(md))
	assert.Equal(t, []string{"missing", "nowhere"}, broken)
}

func TestBrokenAnchorsIgnoresExternalLinks(t *testing.T) {
	md := []byte("# Title\n\n[ext](https://example.com/#fragment)\n")
	assert.Empty(t, BrokenAnchors(md, Extract(md)))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Heading records one normalized document heading in document order.
type Heading struct {
	// Level is the emitted heading level after clamping (1-6).
	Level int `json:"level" yaml:"level"`

	// Slug is the anchor identifier derived from Text.
	Slug string `json:"slug" yaml:"slug"`

	// Text is the heading text after numbering and whitespace normalization.
	Text string `json:"text" yaml:"text"`
}

// Page holds the content and metadata of one wiki page fetched from the
// content API.
type Page struct {
	// ID is the numeric content identifier assigned by the server.
	ID string `json:"id" yaml:"id"`

	// Title is the page title; the output file is named after it.
	Title string `json:"title" yaml:"title"`

	// SpaceKey is the key of the space containing the page.
	SpaceKey string `json:"space_key" yaml:"space_key"`

	// Version is the page version number at fetch time.
	Version int `json:"version" yaml:"version"`

	// BodyHTML is the rendered view of the page body.
	BodyHTML string `json:"-" yaml:"-"`
}

// Attachment describes one file attached to a page.
type Attachment struct {
	// Title is the attachment filename as stored on the server.
	Title string `json:"title" yaml:"title"`

	// MediaType is the attachment MIME type (e.g. "image/png").
	MediaType string `json:"media_type" yaml:"media_type"`

	// DownloadLink is the base-relative download path from the listing.
	DownloadLink string `json:"download_link" yaml:"download_link"`
}

// PageMetadata is the record written beside the generated Markdown file.
type PageMetadata struct {
	// PageID is the numeric content identifier of the source page.
	PageID string `json:"page_id" yaml:"page_id"`

	// Title is the page title at fetch time.
	Title string `json:"title" yaml:"title"`

	// SpaceKey is the key of the space containing the page.
	SpaceKey string `json:"space_key,omitempty" yaml:"space_key,omitempty"`

	// Version is the page version number at fetch time.
	Version int `json:"version,omitempty" yaml:"version,omitempty"`

	// SourceURL is the page URL the fetch was invoked with.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// FetchedAt is the fetch timestamp.
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`

	// MarkdownFile is the name of the generated Markdown file.
	MarkdownFile string `json:"markdown_file" yaml:"markdown_file"`

	// Images lists the local filenames downloaded into the images directory.
	Images []string `json:"images,omitempty" yaml:"images,omitempty"`

	// ErrorMarkers counts inline error markers left in the output.
	ErrorMarkers int `json:"error_markers" yaml:"error_markers"`

	// Headings is the document outline discovered during conversion.
	Headings []Heading `json:"headings,omitempty" yaml:"headings,omitempty"`
}

package types

import "time"

// HTTPConfig holds shared HTTP settings used by commands that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "wiki2md/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// Insecure disables TLS certificate verification. Intended for
	// self-hosted instances behind private certificate authorities.
	Insecure bool `json:"insecure" yaml:"insecure"`
}

// FetchConfig holds settings for the fetch command.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir is the directory the Markdown file and metadata record are
	// written to (default ".").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ImagesDir is the local directory downloaded assets are written to
	// (default "images"). Cleared of files at the start of each run.
	ImagesDir string `json:"images_dir" yaml:"images_dir"`

	// WriteMetadata controls whether a metadata record is written beside the
	// Markdown file (default true).
	WriteMetadata bool `json:"write_metadata" yaml:"write_metadata"`
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/wiki2md/internal/fetch"
	"github.com/pdiddy/wiki2md/internal/outline"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.md>",
	Short: "Print the heading outline of a generated Markdown file and verify its TOC anchors",
	Long: `Check parses a generated Markdown file, prints its heading outline, and
verifies that every in-document anchor link targets a heading that exists.
With --metadata, the outline is also compared against the metadata record
written beside the file at fetch time.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("metadata", false, "cross-check the outline against the metadata record")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	entries := outline.Extract(data)
	for _, e := range entries {
		fmt.Printf("%s%s\n", strings.Repeat("  ", e.Level-1), e.Text)
	}

	failed := false
	for _, anchor := range outline.BrokenAnchors(data, entries) {
		fmt.Fprintf(os.Stderr, "broken anchor: #%s\n", anchor)
		failed = true
	}

	if withMeta, _ := cmd.Flags().GetBool("metadata"); withMeta {
		if err := checkMetadata(path, entries); err != nil {
			fmt.Fprintf(os.Stderr, "metadata: %v\n", err)
			failed = true
		}
	}

	if failed {
		return fmt.Errorf("check failed for %s", path)
	}
	return nil
}

// checkMetadata compares the extracted outline against the heading records in
// the metadata file written at fetch time.
func checkMetadata(mdPath string, entries []outline.Entry) error {
	record, err := fetch.ReadMetadata(fetch.MetadataPath(mdPath))
	if err != nil {
		return fmt.Errorf("reading record: %w", err)
	}

	// The fetch prepends a title heading the converter never saw, so the
	// record describes everything after the first extracted entry.
	got := entries
	if len(got) > 0 {
		got = got[1:]
	}
	if len(got) != len(record.Headings) {
		return fmt.Errorf("outline has %d headings, record has %d", len(got), len(record.Headings))
	}
	for i, h := range record.Headings {
		if got[i].Slug() != h.Slug {
			return fmt.Errorf("heading %d: outline slug %q, record slug %q", i+1, got[i].Slug(), h.Slug)
		}
	}
	return nil
}

// Package fetch orchestrates one page run: resolve the page URL, retrieve
// the page over the content API, convert the body to Markdown, and write the
// output file plus its metadata record.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wiki2md/internal/confluence"
	"github.com/pdiddy/wiki2md/internal/convert"
	"github.com/pdiddy/wiki2md/internal/imagestore"
	"github.com/pdiddy/wiki2md/pkg/types"
)

// metadataSuffix names the record written beside the Markdown file.
const metadataSuffix = ".metadata.yaml"

// Run fetches the page at pageURL and writes its Markdown rendition into
// cfg.OutputDir, refreshing the images directory on the way. Progress lines
// go to w. A lookup that finds no page prints "No page found." and returns
// nil; see the package documentation for what is fatal.
func Run(httpClient *http.Client, pageURL, token string, cfg types.FetchConfig, w io.Writer) error {
	loc, err := confluence.ParsePageURL(pageURL)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Detected BASE_URL: %s\n", loc.BaseURL)

	if loc.PageID != "" {
		fmt.Fprintf(w, "Extracted pageId: %s\n", loc.PageID)
	} else {
		fmt.Fprintf(w, "Extracted SPACE_KEY: %s\n", loc.SpaceKey)
		fmt.Fprintf(w, "Extracted PAGE_TITLE: %s\n", loc.Title)
	}

	store := imagestore.New(cfg.ImagesDir)
	if err := store.Reset(w); err != nil {
		return err
	}

	client := confluence.New(loc.BaseURL, token, httpClient)
	client.UserAgent = cfg.UserAgent

	var (
		page  *types.Page
		found bool
	)
	if loc.PageID != "" {
		page, found, err = client.PageByID(loc.PageID)
	} else {
		page, found, err = client.PageBySpaceTitle(loc.SpaceKey, loc.Title)
	}
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintln(w, "No page found.")
		return nil
	}

	// A title taken from the URL wins over the canonical one; the output file
	// is named after what the caller asked for.
	title := loc.Title
	if title == "" {
		title = page.Title
	}

	conv := convert.New(client, store, loc.BaseURL, page.ID, w)
	result, err := conv.Convert(page.BodyHTML)
	if err != nil {
		return err
	}

	filename := title + ".md"
	content := "# " + title + "\n\n" + result.Markdown
	outPath := filepath.Join(cfg.OutputDir, filename)
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Fprintf(w, "Markdown saved in %s\n", filename)

	if cfg.WriteMetadata {
		record := &types.PageMetadata{
			PageID:       page.ID,
			Title:        title,
			SpaceKey:     page.SpaceKey,
			Version:      page.Version,
			SourceURL:    pageURL,
			FetchedAt:    time.Now().UTC(),
			MarkdownFile: filename,
			Images:       result.Images,
			ErrorMarkers: result.Markers,
			Headings:     result.Headings,
		}
		metaPath := filepath.Join(cfg.OutputDir, title+metadataSuffix)
		if err := writeMetadata(record, metaPath); err != nil {
			return fmt.Errorf("writing metadata for %s: %w", title, err)
		}
	}
	return nil
}

// writeMetadata writes a PageMetadata record to a YAML file.
func writeMetadata(record *types.PageMetadata, path string) error {
	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadMetadata reads a PageMetadata record from a YAML file.
func ReadMetadata(path string) (*types.PageMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var record types.PageMetadata
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// MetadataPath returns the metadata record path for a Markdown file path.
func MetadataPath(mdPath string) string {
	base := mdPath[:len(mdPath)-len(filepath.Ext(mdPath))]
	return base + metadataSuffix
}

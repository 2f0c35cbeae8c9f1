// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/wiki2md/pkg/types"
)

// newTestServer serves one page (id 123, "My Page" in DOCS) whose body has a
// TOC macro, two headings, and an image.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	pageJSON := `{
		"id": "123",
		"title": "My Page",
		"space": {"key": "DOCS"},
		"version": {"number": 3},
		"body": {"view": {"value": "<div data-macro-name=\"toc\"></div><h1>Intro</h1><p><img src=\"/download/pic.png\"></p><h2>Details</h2>"}}
	}`

	mux.HandleFunc("/rest/api/content/123", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pageJSON)
	})
	mux.HandleFunc("/rest/api/content/404", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})
	mux.HandleFunc("/rest/api/content", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("spaceKey") == "DOCS" && q.Get("title") == "My Page" {
			fmt.Fprintf(w, `{"results": [%s], "size": 1}`, pageJSON)
			return
		}
		fmt.Fprint(w, `{"results": [], "size": 0}`)
	})
	mux.HandleFunc("/download/pic.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png bytes"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T) types.FetchConfig {
	t.Helper()
	tmp := t.TempDir()
	return types.FetchConfig{
		OutputDir:     tmp,
		ImagesDir:     filepath.Join(tmp, "images"),
		WriteMetadata: true,
	}
}

func TestRunByPageID(t *testing.T) {
	srv := newTestServer(t)
	cfg := testConfig(t)

	var out bytes.Buffer
	pageURL := srv.URL + "/pages/viewpage.action?pageId=123"
	err := Run(srv.Client(), pageURL, "tok", cfg, &out)
	require.NoError(t, err)

	progress := out.String()
	assert.Contains(t, progress, "Detected BASE_URL: "+srv.URL)
	assert.Contains(t, progress, "Extracted pageId: 123")
	assert.Contains(t, progress, "Markdown saved in My Page.md")

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "My Page.md"))
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "# My Page\n\n"), "title heading prefix")
	assert.Contains(t, content, "- [Intro](#intro)\n  - [Details](#details)")
	assert.Contains(t, content, "./images/pic.png")

	saved, err := os.ReadFile(filepath.Join(cfg.ImagesDir, "pic.png"))
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(saved))

	record, err := ReadMetadata(filepath.Join(cfg.OutputDir, "My Page.metadata.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "123", record.PageID)
	assert.Equal(t, "My Page", record.Title)
	assert.Equal(t, "DOCS", record.SpaceKey)
	assert.Equal(t, 3, record.Version)
	assert.Equal(t, pageURL, record.SourceURL)
	assert.Equal(t, []string{"pic.png"}, record.Images)
	assert.Len(t, record.Headings, 2)
}

func TestRunBySpaceTitle(t *testing.T) {
	srv := newTestServer(t)
	cfg := testConfig(t)

	var out bytes.Buffer
	err := Run(srv.Client(), srv.URL+"/display/DOCS/My+Page", "tok", cfg, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Extracted SPACE_KEY: DOCS")
	assert.Contains(t, out.String(), "Extracted PAGE_TITLE: My Page")

	_, err = os.Stat(filepath.Join(cfg.OutputDir, "My Page.md"))
	assert.NoError(t, err)
}

func TestRunNoPageFound(t *testing.T) {
	srv := newTestServer(t)
	cfg := testConfig(t)

	var out bytes.Buffer
	err := Run(srv.Client(), srv.URL+"/pages/viewpage.action?pageId=404", "tok", cfg, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No page found.")

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".md") {
			t.Errorf("no Markdown file should be written, found %s", e.Name())
		}
	}
}

func TestRunUnrecognizedURL(t *testing.T) {
	cfg := testConfig(t)

	var out bytes.Buffer
	err := Run(http.DefaultClient, "https://wiki.example.com/some/other/path", "tok", cfg, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recognized Confluence URL format")
}

func TestRunMetadataDisabled(t *testing.T) {
	srv := newTestServer(t)
	cfg := testConfig(t)
	cfg.WriteMetadata = false

	var out bytes.Buffer
	err := Run(srv.Client(), srv.URL+"/pages/viewpage.action?pageId=123", "tok", cfg, &out)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(cfg.OutputDir, "My Page.metadata.yaml"))
	assert.True(t, os.IsNotExist(err), "metadata record must not be written")
}

func TestMetadataPath(t *testing.T) {
	assert.Equal(t, "My Page.metadata.yaml", MetadataPath("My Page.md"))
	assert.Equal(t, filepath.Join("out", "Page.metadata.yaml"), MetadataPath(filepath.Join("out", "Page.md")))
}

package convert

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/wiki2md/internal/imagestore"
)

// linkExempt matches hrefs the link resolver must leave untouched.
var linkExempt = regexp.MustCompile(`^(https?://|mailto:)`)

// placeholderImage marks status-macro placeholder images, which pass through
// without a download.
const placeholderImage = "status-macro/placeholder"

// rewriteImage resolves one img element: absolutize the source, download it
// into the image store, and point src at the local copy. A failed download
// leaves src on the absolute URL; the document keeps converting.
func (c *Converter) rewriteImage(n *html.Node) {
	src := attr(n, "data-image-src")
	if src == "" {
		src = attr(n, "src")
	}
	// Nothing to resolve; a fetch of the bare base origin would be the only
	// outcome.
	if src == "" {
		return
	}
	if !strings.HasPrefix(src, "http") {
		src = c.baseURL + strings.ReplaceAll(src, "//", "")
	}
	fmt.Fprintf(c.w, "Detected normal image: %s\n", src)

	if strings.Contains(src, placeholderImage) {
		return
	}

	filename := imagestore.FilenameFromURL(src)
	if err := c.fetchAsset(src, filename); err != nil {
		fmt.Fprintf(c.w, "Error downloading image %s: %v\n", src, err)
		setAttr(n, "src", src)
		return
	}
	setAttr(n, "src", c.localRef(filename))
}

// rewriteLink absolutizes one anchor element. Absolute http(s) and mailto
// links pass through byte-for-byte; everything else gets the base origin
// prepended.
func (c *Converter) rewriteLink(n *html.Node) {
	href := attr(n, "href")
	if href == "" || linkExempt.MatchString(href) {
		return
	}
	setAttr(n, "href", c.baseURL+href)
}

// fetchAsset downloads rawURL and saves it under filename, recording the
// download in the run's image list.
func (c *Converter) fetchAsset(rawURL, filename string) error {
	data, err := c.assets.Download(rawURL)
	if err != nil {
		return err
	}
	p, err := c.store.Save(filename, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.w, "Image downloaded: %s\n", p)
	c.images = append(c.images, filename)
	return nil
}

// localRef is the relative path the Markdown uses for a downloaded asset.
func (c *Converter) localRef(filename string) string {
	return "./" + path.Join(filepath.Base(c.store.Dir), filename)
}

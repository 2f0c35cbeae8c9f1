// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/wiki2md/internal/imagestore"
	"github.com/pdiddy/wiki2md/pkg/types"
)

// macroDataIDPrefix marks the hidden child element carrying the Base64 macro
// payload.
const macroDataIDPrefix = "drawio-macro-data-"

var (
	widthPattern  = regexp.MustCompile(`width:(\d+)px`)
	heightPattern = regexp.MustCompile(`height:(\d+)px`)
)

// drawioPayload is the JSON embedded in the macro-data element.
type drawioPayload struct {
	DiagramName string `json:"diagramName"`
	PreviewName string `json:"previewName"`
}

// rewriteDrawio resolves one draw.io macro container to image Markdown via a
// deferred segment. Payload and download problems become inline error markers;
// only an attachment-listing failure aborts the conversion.
func (c *Converter) rewriteDrawio(n *html.Node) error {
	md, err := c.drawioMarkdown(n)
	if err != nil {
		return err
	}
	c.replaceWithDeferred(n, md)
	return nil
}

func (c *Converter) drawioMarkdown(n *html.Node) (string, error) {
	dataDiv := findChild(n, func(child *html.Node) bool {
		return strings.HasPrefix(attr(child, "id"), macroDataIDPrefix)
	})
	if dataDiv == nil {
		return c.marker("[Error: No draw.io macro-data div found]"), nil
	}

	raw := strings.TrimSpace(nodeText(dataDiv))
	if raw == "" {
		return c.marker("[Error: draw.io macro-data div is empty]"), nil
	}

	var payload drawioPayload
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err == nil {
		err = json.Unmarshal(decoded, &payload)
	}
	if err != nil {
		return c.marker(fmt.Sprintf("[Error decoding draw.io macro data: %v]", err)), nil
	}
	fmt.Fprintf(c.w, "Detected draw.io diagramName: %s previewName: %s\n",
		payload.DiagramName, payload.PreviewName)

	// Pixel size, when the preview div styles one.
	var width, height string
	if styleDiv := findDescendant(n, func(d *html.Node) bool {
		return d.Data == "div" && hasClass(d, "drawio-macro")
	}); styleDiv != nil {
		style := attr(styleDiv, "style")
		if m := widthPattern.FindStringSubmatch(style); m != nil {
			width = m[1]
		}
		if m := heightPattern.FindStringSubmatch(style); m != nil {
			height = m[1]
		}
	}

	downloadURL, attTitle, err := c.drawioAttachment(payload.DiagramName)
	if err != nil {
		return "", err
	}
	if downloadURL == "" {
		return c.marker("[Drawio diagram attachment not found]"), nil
	}

	filename := imagestore.FilenameFromURL(downloadURL)
	if err := c.fetchAsset(downloadURL, filename); err != nil {
		return c.marker(fmt.Sprintf("[Error downloading draw.io attachment: %v]", err)), nil
	}

	md := fmt.Sprintf("![%s](%s)", attTitle, c.localRef(filename))
	var parts []string
	if width != "" {
		parts = append(parts, fmt.Sprintf("width: %spx;", width))
	}
	if height != "" {
		parts = append(parts, fmt.Sprintf("height: %spx;", height))
	}
	if len(parts) > 0 {
		md += fmt.Sprintf(`{: style="%s"}`, strings.Join(parts, " "))
	}
	return md, nil
}

// drawioAttachment picks the PNG attachment for a diagram: an exact name
// match when a diagram name is known, else the first PNG. An empty URL means
// the page has no PNG attachments. The listing call failing is fatal.
func (c *Converter) drawioAttachment(diagramName string) (downloadURL, title string, err error) {
	atts, err := c.assets.Attachments(c.pageID)
	if err != nil {
		return "", "", fmt.Errorf("listing attachments for page %s: %w", c.pageID, err)
	}

	var pngs []types.Attachment
	for _, a := range atts {
		if a.MediaType == "image/png" {
			pngs = append(pngs, a)
		}
	}
	if len(pngs) == 0 {
		return "", "", nil
	}

	if diagramName != "" {
		for _, a := range pngs {
			if a.Title == diagramName+".png" || a.Title == diagramName+".drawio.png" {
				return c.baseURL + a.DownloadLink, a.Title, nil
			}
		}
		fmt.Fprintf(c.w, "WARNING: no PNG matched %s, returning the first found.\n", diagramName)
	}

	first := pngs[0]
	return c.baseURL + first.DownloadLink, first.Title, nil
}

// marker records one inline error marker and returns it.
func (c *Converter) marker(text string) string {
	c.markers++
	return text
}

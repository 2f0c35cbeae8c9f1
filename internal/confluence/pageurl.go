// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package confluence

import (
	"fmt"
	"net/url"
	"strings"
)

// Locator identifies a page extracted from a page URL: either by numeric id,
// or by space key and title. Exactly one of the two forms is populated.
type Locator struct {
	// BaseURL is the scheme://host origin the page lives on.
	BaseURL string

	// PageID is set when the URL names the page by id.
	PageID string

	// SpaceKey and Title are set when the URL names the page by location.
	SpaceKey string
	Title    string
}

// ParsePageURL extracts a page locator from the recognized URL shapes:
//
//	.../pages/viewpage.action?pageId=123
//	.../pages/viewpage.action?spaceKey=KEY&title=My+Page
//	.../display/KEY/My+Page
//	.../wiki/spaces/KEY/pages/123/My+Page
//
// Titles embedded in paths are decoded with '+' as space plus percent
// decoding. Unrecognized shapes return a descriptive error.
func ParsePageURL(pageURL string) (Locator, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return Locator{}, fmt.Errorf("parsing page URL: %w", err)
	}

	loc := Locator{BaseURL: u.Scheme + "://" + u.Host}
	path := u.EscapedPath()

	switch {
	case strings.Contains(path, "viewpage.action"):
		q := u.Query()
		if id := q.Get("pageId"); id != "" {
			loc.PageID = id
			return loc, nil
		}
		space := q.Get("spaceKey")
		title := q.Get("title")
		if space != "" && title != "" {
			loc.SpaceKey = space
			loc.Title = plusDecode(title)
			return loc, nil
		}
		return Locator{}, fmt.Errorf("neither pageId nor (spaceKey + title) found in the URL query")

	case strings.Contains(path, "display"):
		parts := strings.Split(path, "/")
		if len(parts) < 3 {
			return Locator{}, fmt.Errorf("page URL in /display/ format does not have enough parts")
		}
		loc.SpaceKey = parts[2]
		if len(parts) >= 4 {
			loc.Title = plusDecode(parts[3])
		}
		return loc, nil

	case strings.Contains(path, "wiki") && strings.Contains(path, "spaces"):
		parts := strings.Split(path, "/")
		if len(parts) < 7 {
			return Locator{}, fmt.Errorf("page URL in /wiki/spaces/ format does not have enough parts")
		}
		loc.SpaceKey = parts[3]
		loc.Title = plusDecode(parts[6])
		return loc, nil
	}

	return Locator{}, fmt.Errorf("page URL does not follow a recognized Confluence URL format")
}

// plusDecode decodes '+' as space and percent sequences as bytes. Invalid
// percent sequences leave the input with only the plus substitution applied.
func plusDecode(s string) string {
	if d, err := url.QueryUnescape(s); err == nil {
		return d
	}
	return strings.ReplaceAll(s, "+", " ")
}
